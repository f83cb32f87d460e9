package mapping

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Object is a typed object: attribute names mapped to coerced values in
// declared order. Objects are never shared between callers; derived objects
// returned by Select, Omit and With are copies.
type Object struct {
	spec   *Spec
	names  []string
	values []Value
	index  map[string]int
}

func newObject(spec *Spec, size int) *Object {
	return &Object{
		spec:   spec,
		names:  make([]string, 0, size),
		values: make([]Value, 0, size),
		index:  make(map[string]int, size),
	}
}

func (o *Object) set(name string, v Value) {
	if i, ok := o.index[name]; ok {
		o.values[i] = v
		return
	}
	o.index[name] = len(o.names)
	o.names = append(o.names, name)
	o.values = append(o.values, v)
}

// Spec returns the spec the object was mapped with, or nil for derived objects.
func (o *Object) Spec() *Spec {
	return o.spec
}

// Len returns the number of attributes.
func (o *Object) Len() int {
	return len(o.names)
}

// Names returns the attribute names in order.
func (o *Object) Names() []string {
	return append([]string(nil), o.names...)
}

// Get returns the named value and whether the attribute exists.
func (o *Object) Get(name string) (Value, bool) {
	i, ok := o.index[name]
	if !ok {
		return Value{}, false
	}
	return o.values[i], true
}

// Value returns the named value, or a null value when absent.
func (o *Object) Value(name string) Value {
	v, _ := o.Get(name)
	return v
}

// Str returns a string or enum attribute, or "" when null or absent.
func (o *Object) Str(name string) string { return o.Value(name).Str() }

// Int returns an integer attribute, or 0 when null or absent.
func (o *Object) Int(name string) int64 { return o.Value(name).Int() }

// Float returns a float attribute, or 0 when null or absent.
func (o *Object) Float(name string) float64 { return o.Value(name).Float() }

// Bool returns a boolean attribute, or false when null or absent.
func (o *Object) Bool(name string) bool { return o.Value(name).Bool() }

// Time returns a date or datetime attribute, or the zero time.
func (o *Object) Time(name string) time.Time { return o.Value(name).Time() }

// Object returns a nested object attribute, or nil.
func (o *Object) Object(name string) *Object { return o.Value(name).Object() }

// Objects returns the elements of a nested object list.
func (o *Object) Objects(name string) []*Object {
	items := o.Value(name).Items()
	out := make([]*Object, 0, len(items))
	for _, item := range items {
		if item.Object() != nil {
			out = append(out, item.Object())
		}
	}
	return out
}

// Strings returns the elements of a string or enum list.
func (o *Object) Strings(name string) []string {
	items := o.Value(name).Items()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Str())
	}
	return out
}

// Select returns a copy holding only the named attributes, in the given order.
func (o *Object) Select(names ...string) (*Object, error) {
	out := newObject(nil, len(names))
	for _, name := range names {
		v, ok := o.Get(name)
		if !ok {
			return nil, fmt.Errorf("select %q: no such attribute", name)
		}
		out.set(name, v)
	}
	return out, nil
}

// Omit returns a copy without the named attributes.
func (o *Object) Omit(names ...string) *Object {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := newObject(nil, len(o.names))
	for i, name := range o.names {
		if _, skip := drop[name]; skip {
			continue
		}
		out.set(name, o.values[i])
	}
	return out
}

// With returns a copy with name set to v. A new name is appended last.
func (o *Object) With(name string, v Value) *Object {
	out := newObject(nil, len(o.names)+1)
	for i, n := range o.names {
		out.set(n, o.values[i])
	}
	out.set(name, v)
	return out
}

// Equal reports whether both objects hold the same attributes, in the same
// order, with equal values.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.names) != len(other.names) {
		return false
	}
	for i, name := range o.names {
		if other.names[i] != name || !o.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the object as a JSON object in attribute order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := wireJSON.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := wireJSON.Marshal(o.values[i].Interface())
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) String() string {
	var b strings.Builder
	name := "Object"
	if o.spec != nil {
		name = o.spec.name
	}
	b.WriteString(name)
	b.WriteByte('{')
	for i, n := range o.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", n, o.values[i])
	}
	b.WriteByte('}')
	return b.String()
}
