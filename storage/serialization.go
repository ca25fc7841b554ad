// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"errors"
	"fmt"

	com "github.com/mus-format/common-go"
	"github.com/mus-format/mus-go"
	slops "github.com/mus-format/mus-go/options/slice"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/poiesic/rematch/core"
)

// MaxVectorDimensions bounds the length accepted when decoding a vector.
const MaxVectorDimensions = 1 << 16

// VectorMUS is the MUS serializer for embedding vectors.
var VectorMUS = ord.NewValidSliceSer[float32](raw.Float32,
	slops.WithLenValidator[float32](com.ValidatorFn[int](validateDimensions)))

func validateDimensions(n int) error {
	if n > MaxVectorDimensions {
		return fmt.Errorf("%w: %d dimensions exceeds %d", ErrSerializationFailed, n, MaxVectorDimensions)
	}
	return nil
}

// MarshalVector serializes a vector together with the content ID it was
// stored under.
func MarshalVector(id core.ID, vector []float32) []byte {
	buf := make([]byte, core.IDMUS.Size(id)+VectorMUS.Size(vector))
	n := core.IDMUS.Marshal(id, buf)
	VectorMUS.Marshal(vector, buf[n:])
	return buf
}

// UnmarshalVector deserializes a record written by MarshalVector.
func UnmarshalVector(data []byte) (core.ID, []float32, error) {
	id, n, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, nil, decodeError("id", err)
	}
	vector, m, err := VectorMUS.Unmarshal(data[n:])
	if err != nil {
		return 0, nil, decodeError("vector", err)
	}
	if rest := len(data) - n - m; rest > 0 {
		return 0, nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, rest)
	}
	return id, vector, nil
}

func decodeError(field string, err error) error {
	switch {
	case errors.Is(err, mus.ErrTooSmallByteSlice):
		return fmt.Errorf("%w: %s: %w", ErrTruncatedData, field, err)
	case errors.Is(err, ErrSerializationFailed):
		return fmt.Errorf("%s: %w", field, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, field, err)
	}
}
