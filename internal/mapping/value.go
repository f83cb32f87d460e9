package mapping

import (
	"fmt"
	"reflect"
	"time"
)

// Value is a coerced attribute value. The zero Value is a null string.
type Value struct {
	kind   Kind
	list   bool
	str    string
	num    int64
	flt    float64
	flag   bool
	t      time.Time
	raw    any
	obj    *Object
	items  []Value
	hasVal bool
}

// Null returns a null value of the given kind.
func Null(kind Kind) Value { return Value{kind: kind} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s, hasVal: true} }

// IntValue returns an integer value.
func IntValue(n int64) Value { return Value{kind: KindInt, num: n, hasVal: true} }

// FloatValue returns a floating point value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, flt: f, hasVal: true} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b, hasVal: true} }

// AnyValue wraps an unchecked JSON value.
func AnyValue(v any) Value { return Value{kind: KindAny, raw: v, hasVal: v != nil} }

// EnumValue returns an enum value holding its wire form.
func EnumValue(s string) Value { return Value{kind: KindEnum, str: s, hasVal: true} }

// DateValue returns a calendar date value.
func DateValue(t time.Time) Value { return Value{kind: KindDate, t: t, hasVal: true} }

// DateTimeValue returns a timestamp value.
func DateTimeValue(t time.Time) Value { return Value{kind: KindDateTime, t: t, hasVal: true} }

// ObjectValue wraps a nested object.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null(KindObject)
	}
	return Value{kind: KindObject, obj: o, hasVal: true}
}

// ListValue returns a list of values of the given element kind.
func ListValue(kind Kind, items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: kind, list: true, items: items, hasVal: true}
}

// Kind returns the element kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return !v.hasVal }

// IsList reports whether the value has list cardinality.
func (v Value) IsList() bool { return v.list }

// Str returns the string or enum wire value; "" otherwise.
func (v Value) Str() string { return v.str }

// Int returns the integer value; 0 otherwise.
func (v Value) Int() int64 { return v.num }

// Float returns the float value; integers are widened.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.num)
	}
	return v.flt
}

// Bool returns the boolean value.
func (v Value) Bool() bool { return v.flag }

// Time returns the date or datetime value.
func (v Value) Time() time.Time { return v.t }

// Object returns the nested object, or nil.
func (v Value) Object() *Object { return v.obj }

// Items returns the list elements, or nil for scalars.
func (v Value) Items() []Value { return v.items }

// Raw returns the unchecked JSON value of a KindAny field.
func (v Value) Raw() any { return v.raw }

// Interface returns the value as a plain Go value suitable for JSON encoding.
// Dates and datetimes render in their canonical string forms.
func (v Value) Interface() any {
	if v.list {
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	}
	if v.IsNull() {
		return nil
	}
	switch v.kind {
	case KindString, KindEnum:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.flag
	case KindAny:
		return v.raw
	case KindDate:
		return v.t.Format(DateLayout)
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	case KindObject:
		return v.obj
	default:
		return nil
	}
}

// Equal reports whether two values hold the same kind and content.
// Times compare with time.Time.Equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.list != o.list || v.IsNull() != o.IsNull() {
		return false
	}
	if v.list {
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	if v.IsNull() {
		return true
	}
	switch v.kind {
	case KindString, KindEnum:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindBool:
		return v.flag == o.flag
	case KindAny:
		return reflect.DeepEqual(v.raw, o.raw)
	case KindDate, KindDateTime:
		return v.t.Equal(o.t)
	case KindObject:
		return v.obj.Equal(o.obj)
	default:
		return false
	}
}

func (v Value) String() string {
	if v.kind == KindObject && !v.list && !v.IsNull() {
		return v.obj.String()
	}
	return fmt.Sprint(v.Interface())
}
