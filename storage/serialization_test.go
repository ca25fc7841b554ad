package storage

import (
	"math"
	"testing"

	"github.com/poiesic/rematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVector(t *testing.T) {
	tests := []struct {
		name   string
		id     core.ID
		vector []float32
	}{
		{"empty", core.ID(0), []float32{}},
		{"single", core.ID(42), []float32{0.5}},
		{"mixed signs", core.IDFromContent("test content"), []float32{-1, 0, 1, 0.25, -0.125}},
		{"extremes", core.ID(18446744073709551615), []float32{math.MaxFloat32, math.SmallestNonzeroFloat32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVector(tt.id, tt.vector)
			// 8-byte id, 1-byte varint length, 4 bytes per value
			assert.Len(t, data, 8+1+4*len(tt.vector))

			id, decoded, err := UnmarshalVector(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.vector, decoded)
		})
	}
}

func TestUnmarshalVector_Invalid(t *testing.T) {
	full := MarshalVector(core.ID(7), []float32{1, 2, 3})
	huge := make([]byte, 8, 16)
	huge = append(huge, 0xff, 0xff, 0x7f) // varint length above MaxVectorDimensions

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty data", []byte{}, ErrTruncatedData},
		{"short id", []byte{1, 2, 3}, ErrTruncatedData},
		{"missing length", full[:8], ErrTruncatedData},
		{"truncated body", full[:len(full)-2], ErrTruncatedData},
		{"trailing bytes", append(append([]byte{}, full...), 0xff), ErrSerializationFailed},
		{"too many dimensions", huge, ErrSerializationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := UnmarshalVector(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
