package tabular

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// FormatValue renders v as a single cell.
func FormatValue(v mapping.Value) (string, error) {
	if v.IsList() {
		return formatList(v)
	}
	if v.IsNull() {
		return "", nil
	}
	switch v.Kind() {
	case mapping.KindString, mapping.KindEnum:
		return v.Str(), nil
	case mapping.KindInt:
		return strconv.FormatInt(v.Int(), 10), nil
	case mapping.KindFloat:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case mapping.KindBool:
		return strconv.FormatBool(v.Bool()), nil
	case mapping.KindDate:
		return v.Time().Format(mapping.DateLayout), nil
	case mapping.KindDateTime:
		return v.Time().Format(time.RFC3339Nano), nil
	case mapping.KindAny:
		return encodeJSON(v.Raw())
	case mapping.KindObject:
		return "", ErrNestedValue
	default:
		return "", fmt.Errorf("unsupported kind %s", v.Kind())
	}
}

func formatList(v mapping.Value) (string, error) {
	if v.Kind() == mapping.KindObject {
		return "", ErrNestedValue
	}
	items := v.Items()
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Interface())
	}
	return encodeJSON(out)
}

func encodeJSON(v any) (string, error) {
	data, err := mapping.WireJSON().Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding cell: %w", err)
	}
	return string(data), nil
}
