package mapping

import (
	"fmt"
)

// Record is an untyped wire record as decoded from JSON.
type Record = map[string]any

// Field describes one attribute of a mapped object.
//
// Fields are required unless marked Optional. Target defaults to Source.
type Field struct {
	Source   string
	Target   string
	Kind     Kind
	Enum     *Enum
	Nested   *Spec
	List     bool
	Required bool
}

// String declares a required string field.
func String(source string) Field { return Field{Source: source, Kind: KindString, Required: true} }

// Int declares a required integer field.
func Int(source string) Field { return Field{Source: source, Kind: KindInt, Required: true} }

// Float declares a required floating point field.
func Float(source string) Field { return Field{Source: source, Kind: KindFloat, Required: true} }

// Bool declares a required boolean field.
func Bool(source string) Field { return Field{Source: source, Kind: KindBool, Required: true} }

// Any declares a required field whose JSON value is passed through unchecked.
func Any(source string) Field { return Field{Source: source, Kind: KindAny, Required: true} }

// Date declares a required calendar date field.
func Date(source string) Field { return Field{Source: source, Kind: KindDate, Required: true} }

// DateTime declares a required RFC 3339 timestamp field.
func DateTime(source string) Field { return Field{Source: source, Kind: KindDateTime, Required: true} }

// EnumOf declares a required enum field.
func EnumOf(source string, e *Enum) Field {
	return Field{Source: source, Kind: KindEnum, Enum: e, Required: true}
}

// ObjectOf declares a required nested object field mapped through spec.
func ObjectOf(source string, spec *Spec) Field {
	return Field{Source: source, Kind: KindObject, Nested: spec, Required: true}
}

// As sets the attribute name produced for this field.
func (f Field) As(target string) Field {
	f.Target = target
	return f
}

// Optional marks the field as optional. Absent optional fields map to null,
// or to an empty list for list fields.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// Many gives the field list cardinality.
func (f Field) Many() Field {
	f.List = true
	return f
}

// Name returns the attribute name the field produces.
func (f Field) Name() string {
	if f.Target != "" {
		return f.Target
	}
	return f.Source
}

// zero is the value assigned to an absent optional field.
func (f Field) zero() Value {
	if f.List {
		return ListValue(f.Kind, []Value{})
	}
	return Null(f.Kind)
}

func (f Field) validate() error {
	if f.Source == "" {
		return fmt.Errorf("%w: empty source key", ErrInvalidSpec)
	}
	switch f.Kind {
	case KindString, KindInt, KindFloat, KindBool, KindAny, KindDate, KindDateTime:
	case KindEnum:
		if f.Enum == nil {
			return fmt.Errorf("%w: enum field %q has no enum", ErrInvalidSpec, f.Source)
		}
	case KindObject:
		if f.Nested == nil {
			return fmt.Errorf("%w: object field %q has no nested spec", ErrInvalidSpec, f.Source)
		}
	default:
		return fmt.Errorf("%w: field %q has unknown kind %s", ErrInvalidSpec, f.Source, f.Kind)
	}
	return nil
}

// Spec is an ordered, immutable set of Fields describing one object shape.
type Spec struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSpec validates and builds a Spec. Attribute names must be unique.
func NewSpec(name string, fields ...Field) (*Spec, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("spec %s: %w", name, err)
		}
		if _, dup := index[f.Name()]; dup {
			return nil, fmt.Errorf("spec %s: %w: duplicate attribute %q", name, ErrInvalidSpec, f.Name())
		}
		index[f.Name()] = i
	}
	return &Spec{
		name:   name,
		fields: append([]Field(nil), fields...),
		index:  index,
	}, nil
}

// MustSpec is like NewSpec but panics on an invalid declaration.
// Intended for package-level spec declarations.
func MustSpec(name string, fields ...Field) *Spec {
	s, err := NewSpec(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the spec's declared name.
func (s *Spec) Name() string {
	return s.name
}

// Fields returns a copy of the fields in declaration order.
func (s *Spec) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Names returns the attribute names in declaration order.
func (s *Spec) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name()
	}
	return names
}

// Field looks up a field by attribute name.
func (s *Spec) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}
