// Package mapping converts raw JSON records into typed, ordered objects.
//
// A Spec is an ordered set of Field descriptors. Each Field names the key it
// reads from the wire record, the attribute name it produces, and the Kind
// the value must be coerced to:
//   - primitive kinds (string, int, float, bool, any) with a light type check
//   - enums, matched case-sensitively against a closed value set
//   - dates (2006-01-02) and datetimes (RFC 3339), with no alternate layouts
//   - nested objects, mapped recursively through their own Spec
//
// Mapping never substitutes defaults for bad data: a missing required key, a
// mistyped value, an unknown enum value or an unparseable date is a *Error
// carrying the dotted path of the offending field.
package mapping
