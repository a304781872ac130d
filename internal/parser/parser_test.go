package parser

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if root.Kind() != models.KindObject {
		t.Fatalf("Parse() root kind = %v, want object", root.Kind())
	}

	expected := models.Object(
		models.Field{Key: "name", Value: models.String("John Doe")},
		models.Field{Key: "age", Value: models.Number("30")},
		models.Field{Key: "isStudent", Value: models.Bool(false)},
		models.Field{Key: "city", Value: models.Null()},
	)
	if !root.Equal(expected) {
		t.Errorf("Parse() root = %v, want %v", root, expected)
	}
}

func TestParse_KeepsFieldOrder(t *testing.T) {
	jsonStr := `{"zeta": 1, "alpha": 2, "mid": {"y": 1, "b": 2}}`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := strings.Join(root.Keys(), ",")
	if got != "zeta,alpha,mid" {
		t.Errorf("Parse() keys = %s, want zeta,alpha,mid", got)
	}
	mid, _ := root.Get("mid")
	if got := strings.Join(mid.Keys(), ","); got != "y,b" {
		t.Errorf("Parse() nested keys = %s, want y,b", got)
	}
}

func TestParse_SimpleArray(t *testing.T) {
	jsonStr := `[1, "test", true, null, 3.14]`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expected := models.Array(
		models.Number("1"),
		models.String("test"),
		models.Bool(true),
		models.Null(),
		models.Number("3.14"),
	)
	if !root.Equal(expected) {
		t.Errorf("Parse() root = %v, want %v", root, expected)
	}
}

func TestParse_NumberLiteralsSurvive(t *testing.T) {
	jsonStr := `{"big": 12345678901234567890, "exp": 1e10, "neg": -0.50}`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := root.String(); got != `{"big":12345678901234567890,"exp":1e10,"neg":-0.50}` {
		t.Errorf("re-encoded = %s", got)
	}
}

func TestParse_RootScalar(t *testing.T) {
	root, err := Parse(strings.NewReader(`"hello"`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if root.StringValue() != "hello" {
		t.Errorf("Parse() root = %v, want \"hello\"", root)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: errors.ErrEmptyInput},
		{name: "whitespace", input: "   \n", wantErr: errors.ErrEmptyInput},
		{name: "unterminated object", input: `{"a": 1`, wantErr: errors.ErrInvalidJSON},
		{name: "multiple values", input: `{"a": 1} {"b": 2}`, wantErr: errors.ErrMultipleJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Parse() error = nil, want %v", tt.wantErr)
			}
			if !stderrors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want wrapping %v", err, tt.wantErr)
			}
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) || appErr.Type != errors.ErrorTypeParsing {
				t.Errorf("Parse() error = %v, want a parsing AppError", err)
			}
		})
	}
}

func TestParseString_Empty(t *testing.T) {
	_, err := ParseString("  ")
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("ParseString() error = %v, want ErrEmptyInput", err)
	}
}

func TestParseYAML_KeepsOrderAndTypes(t *testing.T) {
	yamlStr := `
name: Acme
rating: 4.5
courses: 12
open: true
closed: ~
gallery:
  - http://img1
`
	root, err := ParseYAML(strings.NewReader(yamlStr))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}

	want := `{"name":"Acme","rating":4.5,"courses":12,"open":true,"closed":null,"gallery":["http://img1"]}`
	if got := root.String(); got != want {
		t.Errorf("ParseYAML() = %s, want %s", got, want)
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML(strings.NewReader("a: [1, 2"))
	if !stderrors.Is(err, errors.ErrInvalidYAML) {
		t.Errorf("ParseYAML() error = %v, want ErrInvalidYAML", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(jsonPath, []byte(`{"b": 1, "a": 2}`), 0644); err != nil {
		t.Fatal(err)
	}
	root, err := ParseFile(jsonPath)
	if err != nil {
		t.Fatalf("ParseFile(json) error = %v", err)
	}
	if got := strings.Join(root.Keys(), ","); got != "b,a" {
		t.Errorf("ParseFile(json) keys = %s", got)
	}

	yamlPath := filepath.Join(dir, "doc.yaml")
	if err := os.WriteFile(yamlPath, []byte("b: 1\na: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	root, err = ParseFile(yamlPath)
	if err != nil {
		t.Fatalf("ParseFile(yaml) error = %v", err)
	}
	if got := strings.Join(root.Keys(), ","); got != "b,a" {
		t.Errorf("ParseFile(yaml) keys = %s", got)
	}

	emptyPath := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(emptyPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(emptyPath); !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("ParseFile(empty) error = %v, want ErrFileEmpty", err)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.json")); !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("ParseFile(missing) error = %v, want ErrFileNotFound", err)
	}

	if _, err := ParseFile(" "); !stderrors.Is(err, errors.ErrInvalidFilePath) {
		t.Errorf("ParseFile(blank) error = %v, want ErrInvalidFilePath", err)
	}
}
