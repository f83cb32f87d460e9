package mapping_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

func TestNewSpec_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields []mapping.Field
	}{
		{name: "duplicate target", fields: []mapping.Field{mapping.Int("id"), mapping.String("uid").As("id")}},
		{name: "enum without set", fields: []mapping.Field{{Source: "type", Kind: mapping.KindEnum}}},
		{name: "object without spec", fields: []mapping.Field{{Source: "owner", Kind: mapping.KindObject}}},
		{name: "empty source", fields: []mapping.Field{{Kind: mapping.KindString}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapping.NewSpec("Bad", tt.fields...)
			assert.ErrorIs(t, err, mapping.ErrInvalidSpec)
		})
	}

	assert.Panics(t, func() {
		mapping.MustSpec("Bad", mapping.Int("id"), mapping.Int("id"))
	})
}

func TestSpec_Accessors(t *testing.T) {
	spec := mapping.MustSpec("MainService",
		mapping.Int("id"),
		mapping.String("type").As("resource_type"),
	)

	assert.Equal(t, "MainService", spec.Name())
	assert.Equal(t, []string{"id", "resource_type"}, spec.Names())

	f, ok := spec.Field("resource_type")
	require.True(t, ok)
	assert.Equal(t, "type", f.Source)
	assert.True(t, f.Required)

	_, ok = spec.Field("type")
	assert.False(t, ok)
}

func sampleObject(t *testing.T) *mapping.Object {
	t.Helper()
	spec := mapping.MustSpec("Feed",
		mapping.Int("id"),
		mapping.String("key"),
		mapping.DateTime("created_at"),
		mapping.String("timezone").Optional(),
	)
	obj, err := spec.Map(mapping.Record{
		"id":         json.Number("5"),
		"key":        "feed-5",
		"created_at": "2023-06-01T12:00:00Z",
	})
	require.NoError(t, err)
	return obj
}

func TestObject_SelectOmitWith(t *testing.T) {
	obj := sampleObject(t)

	selected, err := obj.Select("key", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "id"}, selected.Names())
	assert.Nil(t, selected.Spec())

	_, err = obj.Select("missing")
	assert.Error(t, err)

	omitted := obj.Omit("created_at")
	assert.Equal(t, []string{"id", "key", "timezone"}, omitted.Names())

	extended := obj.With("field_count", mapping.IntValue(3))
	assert.Equal(t, []string{"id", "key", "created_at", "timezone", "field_count"}, extended.Names())
	assert.Equal(t, int64(3), extended.Int("field_count"))
	assert.Equal(t, 4, obj.Len(), "original is not modified")

	replaced := obj.With("key", mapping.StringValue("renamed"))
	assert.Equal(t, obj.Names(), replaced.Names())
	assert.Equal(t, "renamed", replaced.Str("key"))
	assert.Equal(t, "feed-5", obj.Str("key"))
}

func TestObject_Equal(t *testing.T) {
	a := sampleObject(t)
	b := sampleObject(t)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(b.With("id", mapping.IntValue(6))))
	assert.False(t, a.Equal(nil))

	sameInstant := a.With("created_at", mapping.DateTimeValue(
		time.Date(2023, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
	))
	assert.True(t, a.Equal(sameInstant))
}

func TestObject_MarshalJSON(t *testing.T) {
	obj := sampleObject(t)

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"key":"feed-5","created_at":"2023-06-01T12:00:00Z","timezone":null}`, string(data))
	assert.Equal(t, `{"id":5,"key":"feed-5","created_at":"2023-06-01T12:00:00Z","timezone":null}`, string(data),
		"attribute order is the declared order")
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "<nil>", mapping.Null(mapping.KindString).String())
	assert.Equal(t, "7", mapping.IntValue(7).String())
	assert.Equal(t, "2024-03-01", mapping.DateValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).String())
	assert.Contains(t, sampleObject(t).String(), "Feed{id: 5")
}
