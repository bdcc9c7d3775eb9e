package exprkit

import "fmt"

// TokenKind tags a lexed token.
type TokenKind int

const (
	OpenBracket TokenKind = iota + 1
	CloseBracket
	Separator
	FunctionToken
	OperatorToken
	ConstantToken
	Literal
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case OpenBracket:
		return "open bracket"
	case CloseBracket:
		return "close bracket"
	case Separator:
		return "separator"
	case FunctionToken:
		return "function"
	case OperatorToken:
		return "operator"
	case ConstantToken:
		return "constant"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Token is a classified token. Only the fields matching Kind are set:
// Bracket for brackets, Operator for operators, Function or Method for
// calls (IsMethod tells which), Constant for constants.
type Token struct {
	Kind     TokenKind
	Text     string
	Offset   int
	End      int
	Bracket  BracketPair
	Operator Operator
	Function Function
	Method   Method
	IsMethod bool
	Constant Constant
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// endsOperand reports whether the token can end an operand, so that the
// next operator is binary.
func (t Token) endsOperand() bool {
	switch t.Kind {
	case Literal, ConstantToken, CloseBracket:
		return true
	default:
		return false
	}
}
