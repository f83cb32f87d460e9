// Package tabular turns typed objects back into rows.
//
// The header comes from the first object's attribute order. Every later
// object must carry the same attribute set or serialization fails with a
// *ShapeError. Nested objects are never flattened here; callers drop or
// flatten them first (see mapping.Object.Omit and mapping.Object.With).
//
// Cell formatting:
//   - null: empty cell
//   - string and enum: the wire value
//   - int, float, bool: Go literal form
//   - date: 2006-01-02, datetime: RFC 3339
//   - any and primitive lists: compact JSON
//   - object and object lists: ErrNestedValue
package tabular
