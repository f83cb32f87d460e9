package mapping

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// wireJSON decodes numbers as json.Number so integer fields can be told
// apart from fractional ones.
var wireJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// WireJSON returns the codec used for wire records.
func WireJSON() jsoniter.API {
	return wireJSON
}

// DecodeRecord decodes a single JSON object into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := wireJSON.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("decoding record: %w: expected JSON object, got null", ErrTypeMismatch)
	}
	return rec, nil
}

// DecodeValue decodes arbitrary JSON from r using the wire codec.
func DecodeValue(r io.Reader) (any, error) {
	var v any
	if err := wireJSON.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
