package mapping

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Map maps rec through spec. It is a pure function of its inputs.
func Map(spec *Spec, rec Record) (*Object, error) {
	return spec.Map(rec)
}

// Map produces one typed object from rec, visiting fields in declaration order.
//
// A key present with a JSON null maps to a null value (or an empty list for
// list fields), whether or not the field is required; required only demands
// that the key be present.
func (s *Spec) Map(rec Record) (*Object, error) {
	obj := newObject(s, len(s.fields))
	for _, f := range s.fields {
		raw, ok := rec[f.Source]
		if !ok {
			if f.Required {
				return nil, &Error{Path: f.Source, Err: ErrMissingField, Detail: "spec " + s.name}
			}
			obj.set(f.Name(), f.zero())
			continue
		}
		v, err := coerceField(f, raw)
		if err != nil {
			return nil, err
		}
		obj.set(f.Name(), v)
	}
	return obj, nil
}

func coerceField(f Field, raw any) (Value, error) {
	if raw == nil {
		return f.zero(), nil
	}
	if !f.List {
		return coerce(f, raw, f.Source)
	}
	items, ok := raw.([]any)
	if !ok {
		return Value{}, &Error{
			Path:   f.Source,
			Value:  raw,
			Err:    ErrTypeMismatch,
			Detail: fmt.Sprintf("expected list of %s, got %T", f.Kind, raw),
		}
	}
	vals := make([]Value, 0, len(items))
	for i, item := range items {
		v, err := coerce(f, item, fmt.Sprintf("%s[%d]", f.Source, i))
		if err != nil {
			return Value{}, err
		}
		vals = append(vals, v)
	}
	return ListValue(f.Kind, vals), nil
}

// coerce converts a single (non-list) raw value; path names it in errors.
func coerce(f Field, raw any, path string) (Value, error) {
	if raw == nil {
		return Null(f.Kind), nil
	}
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return Value{}, mismatch(path, f.Kind, raw)
		}
		return StringValue(s), nil
	case KindInt:
		n, ok := toInt(raw)
		if !ok {
			return Value{}, mismatch(path, f.Kind, raw)
		}
		return IntValue(n), nil
	case KindFloat:
		x, ok := toFloat(raw)
		if !ok {
			return Value{}, mismatch(path, f.Kind, raw)
		}
		return FloatValue(x), nil
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, mismatch(path, f.Kind, raw)
		}
		return BoolValue(b), nil
	case KindAny:
		return AnyValue(raw), nil
	case KindEnum:
		return coerceEnum(f, raw, path)
	case KindDate:
		return coerceTime(f, raw, path, DateLayout)
	case KindDateTime:
		return coerceTime(f, raw, path, time.RFC3339)
	case KindObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return Value{}, mismatch(path, f.Kind, raw)
		}
		nested, err := f.Nested.Map(m)
		if err != nil {
			return Value{}, withParent(path, err)
		}
		return ObjectValue(nested), nil
	default:
		return Value{}, fmt.Errorf("%w: field %q has unknown kind %s", ErrInvalidSpec, path, f.Kind)
	}
}

func coerceEnum(f Field, raw any, path string) (Value, error) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return Value{}, mismatch(path, f.Kind, raw)
	}
	if !f.Enum.Contains(s) {
		return Value{}, &Error{Path: path, Value: s, Err: ErrUnknownEnumValue, Detail: f.Enum.describe()}
	}
	return EnumValue(s), nil
}

func coerceTime(f Field, raw any, path, layout string) (Value, error) {
	s, ok := raw.(string)
	if !ok {
		return Value{}, mismatch(path, f.Kind, raw)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Value{}, &Error{
			Path:   path,
			Value:  s,
			Err:    ErrDateParse,
			Detail: fmt.Sprintf("expected layout %s", layout),
		}
	}
	if f.Kind == KindDate {
		return DateValue(t), nil
	}
	return DateTimeValue(t), nil
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return integral(v)
	default:
		return 0, false
	}
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= 0x1p63 || f < -0x1p63 {
		return 0, false
	}
	return int64(f), true
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
