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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/poiesic/libris/core"
)

// Marshal serializes a stored document as JSON.
func Marshal[T any](v *T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// Unmarshal deserializes a stored document.
func Unmarshal[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &v, nil
}

// MarshalBook serializes a Book without its embedding, which is stored
// separately by MarshalVector.
func MarshalBook(book *core.Book) ([]byte, error) {
	stripped := *book
	stripped.Embedding = nil
	return Marshal(&stripped)
}

// UnmarshalBook deserializes a Book.
func UnmarshalBook(data []byte) (*core.Book, error) {
	return Unmarshal[core.Book](data)
}

// MarshalVector encodes a vector as little-endian float32 values.
func MarshalVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// UnmarshalVector decodes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: vector of %d bytes", ErrTruncatedData, len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return v, nil
}
