package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "valid default", params: *NewParams()},
		{name: "valid with limit", params: Params{PageSize: 10, Limit: 25, MaxEmptyPages: 1}},
		{name: "page size too small", params: Params{PageSize: 0, MaxEmptyPages: 1}, wantErr: ErrInvalidPageSize},
		{name: "page size too large", params: Params{PageSize: 1001, MaxEmptyPages: 1}, wantErr: ErrInvalidPageSize},
		{name: "negative limit", params: Params{PageSize: 10, Limit: -1, MaxEmptyPages: 1}, wantErr: ErrInvalidLimit},
		{name: "zero max empty pages", params: Params{PageSize: 10}, wantErr: ErrInvalidMaxEmptyPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParams_EffectivePageSize(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected int
	}{
		{name: "no limit", params: Params{PageSize: 50}, expected: 50},
		{name: "limit below page size", params: Params{PageSize: 50, Limit: 10}, expected: 10},
		{name: "limit above page size", params: Params{PageSize: 50, Limit: 120}, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.params.EffectivePageSize())
		})
	}
}

func TestParams_Options(t *testing.T) {
	p := Params{PageSize: 10, Limit: 3, MaxEmptyPages: 2}
	seq := Paginate(nil, nil, p.Options()...)
	assert.Equal(t, 2, seq.maxEmpty)
	assert.Equal(t, 3, seq.limit)
}
