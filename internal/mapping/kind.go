package mapping

import "fmt"

// Kind is the element type a Field coerces its raw value to.
type Kind int

// Supported element kinds. The set is closed; the mapper switches on it.
const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindAny
	KindEnum
	KindObject
	KindDate
	KindDateTime
)

// Wire layouts for date and datetime fields.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindAny:
		return "any"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsPrimitive reports whether k belongs to the primitive family.
func (k Kind) IsPrimitive() bool {
	return k <= KindAny
}
