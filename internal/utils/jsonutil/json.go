package jsonutil

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

var errNotObject = stderrors.New("json value is not an object")

// JSONFormat represents the formatting style for encoded JSON
type JSONFormat int

const (
	// FormatIndented uses indented JSON with 2-space indentation
	FormatIndented JSONFormat = iota
	// FormatMinified removes all whitespace
	FormatMinified
)

// JSONOptions provides configuration for JSON encoding
type JSONOptions struct {
	Format       JSONFormat
	IndentPrefix string
	IndentSize   int
}

// DefaultJSONOptions provides default settings for JSON formatting
var DefaultJSONOptions = JSONOptions{
	Format:       FormatIndented,
	IndentPrefix: "",
	IndentSize:   2,
}

// Decode parses a single JSON value. Objects are returned as *Object so key
// order survives a decode/encode round trip, and numbers as json.Number so
// their original text is kept.
func Decode(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve numeric precision

	value, err := decodeValue(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
	}

	// Ensure no additional tokens remain
	if tok, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
		}
		return nil, fmt.Errorf("%w: unexpected %v after top-level value", errors.ErrUnsupportedFile, tok)
	}

	return value, nil
}

// DecodeObject parses data and requires the top-level value to be an object
func DecodeObject(data []byte) (*Object, error) {
	value, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, errNotObject.Error())
	}
	return obj, nil
}

func decodeValue(decoder *json.Decoder) (interface{}, error) {
	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for decoder.More() {
			keyTok, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", keyTok)
			}
			value, err := decodeValue(decoder)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := make([]interface{}, 0)
		for decoder.More() {
			value, err := decodeValue(decoder)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// Marshal encodes v as compact JSON without HTML escaping
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalString is Marshal for callers that want text, returning "" on failure.
// It is meant for log lines and ledger snapshots.
func MarshalString(v interface{}) string {
	data, err := Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Encode encodes v using the given options (DefaultJSONOptions if omitted)
func Encode(v interface{}, options ...JSONOptions) ([]byte, error) {
	opts := DefaultJSONOptions
	if len(options) > 0 {
		opts = options[0]
	}

	compact, err := Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}

	if opts.Format == FormatMinified {
		return compact, nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, opts.IndentPrefix, strings.Repeat(" ", opts.IndentSize)); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}
	return out.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Object:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, key := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, t.values[key]); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
		}
		buf.WriteByte('}')
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		if t == "" {
			buf.WriteByte('0')
			return nil
		}
		buf.WriteString(string(t))
	default:
		return writeScalar(buf, v)
	}
	return nil
}

// writeScalar encodes anything encoding/json understands, without HTML escaping
func writeScalar(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	encoder := json.NewEncoder(&tmp)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// Number returns v as a float64 if it is a JSON number
func Number(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// Truthy reports whether v counts as set: non-empty strings, non-zero numbers,
// true, and any object or array. Missing keys and null are not truthy.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case *Object:
		return t != nil
	case []interface{}:
		return true
	}
	if f, ok := Number(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// TransformStrings applies fn to every string leaf under v (object values and
// array items, not object keys), rewriting containers in place. It returns the
// possibly replaced value and whether any leaf changed.
func TransformStrings(v interface{}, fn func(string) string) (interface{}, bool) {
	switch t := v.(type) {
	case string:
		out := fn(t)
		return out, out != t
	case *Object:
		changed := false
		for _, key := range t.Keys() {
			if next, ok := TransformStrings(t.values[key], fn); ok {
				t.values[key] = next
				changed = true
			}
		}
		return t, changed
	case []interface{}:
		changed := false
		for i, item := range t {
			if next, ok := TransformStrings(item, fn); ok {
				t[i] = next
				changed = true
			}
		}
		return t, changed
	}
	return v, false
}

// GetValue retrieves a value using a dot-notation path
func GetValue(data *Object, path string) (interface{}, bool) {
	keys := strings.Split(path, ".")
	current := data

	for i, key := range keys {
		if i == len(keys)-1 {
			return current.Get(key)
		}

		next, ok := current.GetObject(key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// SetValue sets a value using a dot-notation path, creating intermediate objects
func SetValue(data *Object, path string, value interface{}) error {
	if data == nil {
		return fmt.Errorf("%w: nil object", errors.ErrInvalidArgument)
	}

	keys := strings.Split(path, ".")
	current := data

	for i, key := range keys {
		if i == len(keys)-1 {
			current.Set(key, value)
			return nil
		}

		next, ok := current.GetObject(key)
		if !ok {
			if _, exists := current.Get(key); exists {
				return fmt.Errorf("%w: %q is not an object", errors.ErrInvalidArgument, strings.Join(keys[:i+1], "."))
			}
			next = NewObject()
			current.Set(key, next)
		}
		current = next
	}
	return nil
}

// DeleteValue removes a value using a dot-notation path
func DeleteValue(data *Object, path string) bool {
	keys := strings.Split(path, ".")
	current := data

	for i, key := range keys {
		if i == len(keys)-1 {
			return current.Delete(key)
		}

		next, ok := current.GetObject(key)
		if !ok {
			return false
		}
		current = next
	}
	return false
}
