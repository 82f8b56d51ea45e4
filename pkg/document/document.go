// Package document holds the generic key/value payload exchanged with obs-websocket.
//
// A Document is what request descriptors fill and what response and event
// parsers read. Numbers decoded from the wire arrive as float64; the typed
// getters convert them, and Decode maps a Document onto a tagged struct.
package document

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/xdimtech/go-obsws/pkg/utils"
)

// Document is a JSON object.
type Document map[string]any

// New returns an empty, writable Document.
func New() Document {
	return Document{}
}

// FromStruct converts any JSON-encodable value into a Document.
func FromStruct(v any) Document {
	m := utils.AnyToMap(v)
	if m == nil {
		return New()
	}
	return m
}

// Parse decodes raw JSON into a Document. Empty input yields an empty Document.
func Parse(raw []byte) (Document, error) {
	if len(raw) == 0 {
		return New(), nil
	}
	var d Document
	if err := utils.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if d == nil {
		d = New()
	}
	return d, nil
}

// Set stores value under key and returns the Document for chaining.
func (d Document) Set(key string, value any) Document {
	d[key] = value
	return d
}

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the string at key, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the bool at key, or false when absent.
func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Int returns the integer at key, or 0 when absent or not numeric.
func (d Document) Int(key string) int {
	switch v := d[key].(type) {
	case float64:
		return int(math.Round(v))
	case float32:
		return int(math.Round(float64(v)))
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

func (d Document) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Object returns the nested object at key. The result is nil when absent,
// which reads like an empty Document.
func (d Document) Object(key string) Document {
	switch v := d[key].(type) {
	case Document:
		return v
	case map[string]any:
		return v
	}
	return nil
}

// Objects returns the elements of the array at key that are objects.
func (d Document) Objects(key string) []Document {
	arr, ok := d[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(arr))
	for _, item := range arr {
		switch v := item.(type) {
		case Document:
			out = append(out, v)
		case map[string]any:
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a deep copy made through a JSON round trip.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return FromStruct(d)
}

// Decode replaces the value out points to with the Document's contents. out
// is a pointer to a struct tagged with `json` names; keys absent from the
// Document leave zero values. Numeric and string values are converted weakly,
// so 1.0 decodes into an int field.
func (d Document) Decode(out any) error {
	if rv := reflect.ValueOf(out); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv.Elem().SetZero()
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           out,
		TagName:          "json",
	})
	if err != nil {
		return fmt.Errorf("document: create decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(d)); err != nil {
		return fmt.Errorf("document: decode: %w", err)
	}
	return nil
}

// MarshalJSON keeps a nil Document encoding as {} rather than null.
func (d Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return utils.Marshal(map[string]any(d))
}
