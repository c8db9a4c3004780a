package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid positive", func(t *testing.T) {
		got, err := IntToUint32(123)
		assert.NoError(t, err)
		assert.Equal(t, uint32(123), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.Error(t, err)
	})
}

func TestInt64ToUint32(t *testing.T) {
	t.Run("valid max", func(t *testing.T) {
		got, err := Int64ToUint32(math.MaxUint32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := Int64ToUint32(-5)
		assert.Error(t, err)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Int64ToUint32(math.MaxUint32 + 1)
		assert.Error(t, err)
	})
}

func TestUint64ToInt64(t *testing.T) {
	got, err := Uint64ToInt64(42)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), got)

	_, err = Uint64ToInt64(math.MaxUint64)
	assert.Error(t, err)
}

func TestFloat64ToInt64(t *testing.T) {
	tests := []struct {
		in      float64
		want    int64
		wantErr bool
	}{
		{3.9, 3, false},
		{-3.9, -3, false},
		{0, 0, false},
		{-0.5, 0, false},
		{1e18, 1000000000000000000, false},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
		{math.Inf(-1), 0, true},
		{1e19, 0, true},
		{-1e19, 0, true},
	}

	for _, tt := range tests {
		got, err := Float64ToInt64(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %v", tt.in)
			continue
		}
		assert.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}
