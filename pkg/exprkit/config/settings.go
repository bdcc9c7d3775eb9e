package config

import (
	"github.com/randalmurphal/exprkit/pkg/exprkit"
)

// EvaluatorSettings holds the keys shared by every evaluator definition.
type EvaluatorSettings struct {
	// Name identifies the evaluator in logs and metrics.
	Name string
	// Locale is a BCP 47 tag selecting the literal format. Empty means
	// the plain decimal format.
	Locale string
	// Separator is the function argument separator.
	Separator rune
	// Style selects a grammar variant of the evaluator, if it has any.
	Style string
	// Operators and Functions restrict the grammar to the listed symbols
	// and names. Nil keeps everything.
	Operators []string
	Functions []string
	// Translations maps canonical element names to local names.
	Translations map[string]string
	// MaxDepth and MaxLength override the evaluation limits when positive.
	MaxDepth  int
	MaxLength int
}

// Settings reads evaluator settings from c. defaultName is used when c
// has no name key.
func Settings(c Config, defaultName string) EvaluatorSettings {
	return EvaluatorSettings{
		Name:         c.String("name", defaultName),
		Locale:       c.String("locale", ""),
		Separator:    c.Rune("separator", exprkit.DefaultSeparator),
		Style:        c.String("style", ""),
		Operators:    c.StringSlice("operators", nil),
		Functions:    c.StringSlice("functions", nil),
		Translations: c.StringMap("translations", nil),
		MaxDepth:     c.Int("max_depth", 0),
		MaxLength:    c.Int("max_length", 0),
	}
}

// Options returns the evaluator options implied by the settings.
func (s EvaluatorSettings) Options() []exprkit.Option {
	var opts []exprkit.Option
	if s.MaxDepth > 0 {
		opts = append(opts, exprkit.WithMaxDepth(s.MaxDepth))
	}
	if s.MaxLength > 0 {
		opts = append(opts, exprkit.WithMaxLength(s.MaxLength))
	}
	return opts
}

// Restrict removes operators and functions not listed in the settings and
// applies the translations. Translations naming unknown elements are
// ignored.
func (s EvaluatorSettings) Restrict(p *exprkit.Parameters) *exprkit.Parameters {
	if s.Operators != nil {
		keep := toSet(s.Operators)
		for _, op := range p.Operators() {
			if !keep[op.Symbol()] {
				p.Remove(op)
			}
		}
	}
	if s.Functions != nil {
		keep := toSet(s.Functions)
		for _, fn := range p.Functions() {
			if !keep[fn.Name()] {
				p.Remove(fn)
			}
		}
	}
	if len(s.Translations) > 0 {
		var elements []exprkit.Element
		for _, op := range p.Operators() {
			elements = append(elements, op)
		}
		for _, fn := range p.Functions() {
			elements = append(elements, fn)
		}
		for _, m := range p.Methods() {
			elements = append(elements, m)
		}
		for _, c := range p.Constants() {
			elements = append(elements, c)
		}
		for _, el := range elements {
			if local, ok := s.Translations[el.Name()]; ok {
				p.SetTranslation(el, local)
			}
		}
	}
	return p.SetFunctionArgumentSeparator(s.Separator)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
