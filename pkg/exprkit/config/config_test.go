package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
	"github.com/randalmurphal/exprkit/pkg/exprkit/config"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

// TestString verifies string extraction with defaults.
func TestString(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"locale": "fr-FR"}, "locale", "en", "fr-FR"},
		{"key missing", map[string]any{"other": "value"}, "locale", "en", "en"},
		{"empty string", map[string]any{"locale": ""}, "locale", "en", ""},
		{"wrong type int", map[string]any{"locale": 123}, "locale", "en", "en"},
		{"nil map", nil, "locale", "en", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.String(tt.key, tt.defaultVal))
		})
	}
}

// TestRune verifies single-character extraction.
func TestRune(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want rune
	}{
		{"ascii", map[string]any{"sep": ";"}, ';'},
		{"multi-byte", map[string]any{"sep": "·"}, '·'},
		{"too long", map[string]any{"sep": ";;"}, ','},
		{"empty", map[string]any{"sep": ""}, ','},
		{"wrong type", map[string]any{"sep": 59}, ','},
		{"missing", nil, ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).Rune("sep", ','))
		})
	}
}

// TestBool verifies boolean extraction with defaults.
func TestBool(t *testing.T) {
	cfg := config.New(map[string]any{"on": true, "off": false, "text": "true"})
	assert.True(t, cfg.Bool("on", false))
	assert.False(t, cfg.Bool("off", true))
	assert.True(t, cfg.Bool("text", true))
	assert.False(t, cfg.Bool("missing", false))
}

// TestInt verifies integer extraction with numeric conversions.
func TestInt(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want int
	}{
		{"int", 42, 42},
		{"int64", int64(42), 42},
		{"whole float", float64(42), 42},
		{"fractional float", 42.5, 7},
		{"string", "42", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"n": tt.val})
			assert.Equal(t, tt.want, cfg.Int("n", 7))
		})
	}
}

// TestStringSlice verifies slice extraction.
func TestStringSlice(t *testing.T) {
	def := []string{"default"}
	tests := []struct {
		name string
		val  any
		want []string
	}{
		{"string slice", []string{"+", "-"}, []string{"+", "-"}},
		{"any slice", []any{"+", "-"}, []string{"+", "-"}},
		{"mixed slice", []any{"+", 1}, def},
		{"empty any slice", []any{}, []string{}},
		{"wrong type", "+", def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"ops": tt.val})
			assert.Equal(t, tt.want, cfg.StringSlice("ops", def))
		})
	}
}

// TestStringMap verifies map extraction.
func TestStringMap(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want map[string]string
	}{
		{"string map", map[string]string{"sum": "somme"}, map[string]string{"sum": "somme"}},
		{"any map", map[string]any{"sum": "somme", "avg": "moyenne"}, map[string]string{"sum": "somme", "avg": "moyenne"}},
		{"non-string value", map[string]any{"sum": 1}, nil},
		{"wrong type", []string{"sum"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"tr": tt.val})
			assert.Equal(t, tt.want, cfg.StringMap("tr", nil))
		})
	}
}

// TestSection verifies nested map access.
func TestSection(t *testing.T) {
	cfg := config.New(map[string]any{
		"arith": map[string]any{"locale": "de"},
		"flat":  "value",
	})
	assert.Equal(t, "de", cfg.Section("arith").String("locale", ""))
	assert.False(t, cfg.Section("flat").Has("locale"))
	assert.NotNil(t, cfg.Section("missing").Raw())
}

// TestFromYAML verifies YAML parsing, including nested sections.
func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
name: pricing
separator: ";"
operators: ["+", "*"]
translations:
  sum: somme
max_depth: 64
`))
	require.NoError(t, err)
	assert.Equal(t, "pricing", cfg.String("name", ""))
	assert.Equal(t, ';', cfg.Rune("separator", ','))
	assert.Equal(t, []string{"+", "*"}, cfg.StringSlice("operators", nil))
	assert.Equal(t, map[string]string{"sum": "somme"}, cfg.StringMap("translations", nil))
	assert.Equal(t, 64, cfg.Int("max_depth", 0))

	_, err = config.FromYAML([]byte("key: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

// TestFromJSON verifies JSON parsing.
func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"name": "rules", "max_length": 4096}`))
	require.NoError(t, err)
	assert.Equal(t, "rules", cfg.String("name", ""))
	assert.Equal(t, 4096, cfg.Int("max_length", 0))

	_, err = config.FromJSON([]byte(`{"name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

// TestFromFile verifies loading with format detection.
func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "evaluators.YML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: fromyaml"), 0o644))

	jsonPath := filepath.Join(tmpDir, "evaluators.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "fromjson"}`), 0o644))

	txtPath := filepath.Join(tmpDir, "evaluators.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("name"), 0o644))

	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "fromyaml", cfg.String("name", ""))

	cfg, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "fromjson", cfg.String("name", ""))

	_, err = config.FromFile(txtPath)
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)

	_, err = config.FromFile(filepath.Join(tmpDir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

// TestLoad verifies decoding from a reader.
func TestLoad(t *testing.T) {
	cfg, err := config.Load(strings.NewReader("style: excel"), config.YAML)
	require.NoError(t, err)
	assert.Equal(t, "excel", cfg.String("style", ""))

	_, err = config.Load(strings.NewReader("style = excel"), config.Format("toml"))
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}

// TestSettings verifies evaluator settings extraction.
func TestSettings(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
locale: fr-FR
separator: ";"
style: excel
operators: ["+", "-"]
functions: ["add"]
translations:
  add: ajoute
max_depth: 8
`))
	require.NoError(t, err)

	s := config.Settings(cfg, "default")
	assert.Equal(t, config.EvaluatorSettings{
		Name:         "default",
		Locale:       "fr-FR",
		Separator:    ';',
		Style:        "excel",
		Operators:    []string{"+", "-"},
		Functions:    []string{"add"},
		Translations: map[string]string{"add": "ajoute"},
		MaxDepth:     8,
	}, s)
	assert.Len(t, s.Options(), 1)

	empty := config.Settings(config.New(nil), "x")
	assert.Equal(t, exprkit.DefaultSeparator, empty.Separator)
	assert.Empty(t, empty.Options())
}

// TestSettings_Restrict verifies grammar restriction and translation.
func TestSettings_Restrict(t *testing.T) {
	plus := exprkit.NewOperator("+", 2, exprkit.Left, 1)
	times := exprkit.NewOperator("*", 2, exprkit.Left, 2)
	add := exprkit.NewFunction("add", 2, 2)
	neg := exprkit.NewFunction("neg", 1, 1)

	p := exprkit.NewParameters().
		AddOperators(plus, times).
		AddFunctions(add, neg).
		AddBracket(exprkit.Parentheses)

	s := config.EvaluatorSettings{
		Separator:    ';',
		Operators:    []string{"+"},
		Functions:    []string{"add"},
		Translations: map[string]string{"add": "ajoute", "unknown": "x"},
	}
	s.Restrict(p)

	assert.Equal(t, []exprkit.Operator{plus}, p.Operators())
	assert.Equal(t, []exprkit.Function{add}, p.Functions())
	assert.Equal(t, "ajoute", p.Translate(add))
	assert.Equal(t, ';', p.FunctionArgumentSeparator())
	assert.NoError(t, p.Validate())
}
