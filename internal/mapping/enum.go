package mapping

import "strings"

// Enum is a closed set of wire values for an enumerated field.
type Enum struct {
	name   string
	values []string
	set    map[string]struct{}
}

// NewEnum declares an enum with the given wire values, in display order.
func NewEnum(name string, values ...string) *Enum {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return &Enum{
		name:   name,
		values: append([]string(nil), values...),
		set:    set,
	}
}

// Name returns the enum's declared name.
func (e *Enum) Name() string {
	return e.name
}

// Values returns a copy of the declared wire values.
func (e *Enum) Values() []string {
	return append([]string(nil), e.values...)
}

// Contains reports whether v is one of the declared values. Matching is case-sensitive.
func (e *Enum) Contains(v string) bool {
	_, ok := e.set[v]
	return ok
}

func (e *Enum) describe() string {
	return "allowed " + e.name + " values: " + strings.Join(e.values, ", ")
}
