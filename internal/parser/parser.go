package parser

import (
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mcncl/blocktree/internal/errors" // Custom errors package
	"github.com/mcncl/blocktree/internal/models"
)

// Parse reads exactly one JSON document from reader. Object members keep the
// order they had in the input, which map-based decoding would lose.
func Parse(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Keep number literals verbatim

	first, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.JSONValue{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.JSONValue{}, syntaxError(err)
	}

	root, err := decodeValue(decoder, first)
	if err != nil {
		return models.JSONValue{}, err
	}

	// Anything but EOF after the root means trailing data.
	if _, err := decoder.Token(); err == nil {
		return models.JSONValue{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.JSONValue{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	return root, nil
}

func decodeValue(decoder *json.Decoder, tok json.Token) (models.JSONValue, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		default:
			return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("unexpected delimiter %q", rune(v)), errors.ErrInvalidJSON)
		}
	case string:
		return models.String(v), nil
	case json.Number:
		return models.Number(string(v)), nil
	case float64:
		return models.Number(fmt.Sprint(v)), nil
	case bool:
		return models.Bool(v), nil
	case nil:
		return models.Null(), nil
	default:
		return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("unexpected token %v", v), errors.ErrInvalidJSON)
	}
}

func decodeObject(decoder *json.Decoder) (models.JSONValue, error) {
	var fields []models.Field
	for {
		tok, err := decoder.Token()
		if err != nil {
			return models.JSONValue{}, syntaxError(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return models.Object(fields...), nil
		}
		key, ok := tok.(string)
		if !ok {
			return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("object key must be a string, got %v", tok), errors.ErrInvalidJSON)
		}
		valTok, err := decoder.Token()
		if err != nil {
			return models.JSONValue{}, syntaxError(err)
		}
		val, err := decodeValue(decoder, valTok)
		if err != nil {
			return models.JSONValue{}, err
		}
		fields = append(fields, models.Field{Key: key, Value: val})
	}
}

func decodeArray(decoder *json.Decoder) (models.JSONValue, error) {
	var items []models.JSONValue
	for {
		tok, err := decoder.Token()
		if err != nil {
			return models.JSONValue{}, syntaxError(err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return models.Array(items...), nil
		}
		item, err := decodeValue(decoder, tok)
		if err != nil {
			return models.JSONValue{}, err
		}
		items = append(items, item)
	}
}

func syntaxError(err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxErr.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.JSONValue, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.JSONValue{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// MustParseString is ParseString for fixtures; it panics on error.
func MustParseString(jsonString string) models.JSONValue {
	v, err := ParseString(jsonString)
	if err != nil {
		panic(err)
	}
	return v
}

// IsYAMLPath reports whether a file name carries a YAML extension.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// ParseFile parses a JSON or YAML document from a file path. The format is
// picked from the file extension.
func ParseFile(filePath string) (models.JSONValue, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.JSONValue{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.JSONValue{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.JSONValue{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.JSONValue{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.JSONValue{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	if IsYAMLPath(filePath) {
		return ParseYAML(file)
	}
	return Parse(file)
}
