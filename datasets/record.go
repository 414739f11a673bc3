package datasets

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Numbers stay json.Number so integer identities compare exactly.
var recordJSON = jsoniter.Config{
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// ErrNullRecord marks a null entry reached while scanning a dataset
var ErrNullRecord = errors.New("null record")

var jsonNull = []byte("null")

// Record is one externally owned entry of a credential dataset. Its JSON bytes are kept as
// published so the record can be republished byte for byte. Entries that are not objects
// stay in place and carry no attributes.
type Record struct {
	fields map[string]any
	raw    []byte
}

// Dataset is the ordered sequence of records of one category
type Dataset []Record

// IsObject reports whether the entry is a JSON object.
func (r Record) IsObject() bool {
	return r.fields != nil
}

// IsNull reports whether the entry is JSON null.
func (r Record) IsNull() bool {
	return bytes.Equal(r.raw, jsonNull)
}

// Field returns the decoded value of an attribute.
func (r Record) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Password returns the stored password if the record has a string password attribute.
func (r Record) Password() (string, bool) {
	p, ok := r.fields["password"].(string)
	return p, ok
}

// Name returns the display name, or an empty string if absent.
func (r Record) Name() string {
	name, _ := r.fields["name"].(string)
	return name
}

// Raw returns a copy of the record's JSON.
func (r Record) Raw() []byte {
	return append([]byte(nil), r.raw...)
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}
	return r.Raw(), nil
}

// Decode parses a JSON array. Element order is preserved and elements of any JSON type are
// kept; only objects have attributes.
func Decode(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("dataset is not a JSON array")
	}

	var items []jsoniter.RawMessage
	if err := recordJSON.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	dataset := make(Dataset, 0, len(items))
	for i, item := range items {
		raw := bytes.TrimSpace(item)
		record := Record{raw: append([]byte(nil), raw...)}
		if len(raw) > 0 && raw[0] == '{' {
			if err := recordJSON.Unmarshal(raw, &record.fields); err != nil {
				return nil, fmt.Errorf("decode record %d: %w", i, err)
			}
			if record.fields == nil {
				record.fields = map[string]any{}
			}
		}
		dataset = append(dataset, record)
	}
	return dataset, nil
}
