// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package als

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	m := NewMatrix[float32](2, 3)
	m.Set(0, 1, 5)
	m.Set(1, 2, -1)
	assert.Equal(t, float32(5), m.At(0, 1))
	assert.Equal(t, []float32{0, 5, 0}, m.Row(0))
	assert.Equal(t, []float32{0, 0, -1}, m.Row(1))

	n := NewMatrixFromData(2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, []float64{3, 4}, n.Row(1))
	assert.Panics(t, func() { NewMatrixFromData(2, 2, []float64{1, 2, 3}) })
}

func TestNewCSR(t *testing.T) {
	m, err := NewCSR(3, []int{0, 2, 2, 3}, []int32{0, 2, 1}, []float64{2, 3, 4})
	assert.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3, m.NNZ())
	cols, vals := m.Row(0)
	assert.Equal(t, []int32{0, 2}, cols)
	assert.Equal(t, []float64{2, 3}, vals)
	cols, vals = m.Row(1)
	assert.Empty(t, cols)
	assert.Empty(t, vals)

	// malformed row pointers
	_, err = NewCSR(3, []int{}, nil, nil)
	assert.ErrorAs(t, err, new(*ShapeMismatchError))
	_, err = NewCSR(3, []int{0, 2, 1, 3}, []int32{0, 2, 1}, []float64{2, 3, 4})
	assert.ErrorAs(t, err, new(*ShapeMismatchError))
	_, err = NewCSR(3, []int{0, 2, 2, 2}, []int32{0, 2, 1}, []float64{2, 3, 4})
	assert.ErrorAs(t, err, new(*ShapeMismatchError))
	// column index and value arrays differ in length
	_, err = NewCSR(3, []int{0, 2, 2, 3}, []int32{0, 2, 1}, []float64{2, 3})
	assert.ErrorAs(t, err, new(*ShapeMismatchError))
	// column index out of range
	_, err = NewCSR(2, []int{0, 2, 2, 3}, []int32{0, 2, 1}, []float64{2, 3, 4})
	assert.ErrorAs(t, err, new(*ShapeMismatchError))
}

func TestNewCSRFromPairs(t *testing.T) {
	m := NewCSRFromPairs(3, [][]lo.Tuple2[int32, float64]{
		{{A: 0, B: 2}, {A: 2, B: 3}},
		{{A: 1, B: 0}}, // zero confidence is never stored
		{{A: 1, B: 4}},
	})
	assert.NoError(t, m.validate())
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.NNZ())
	cols, vals := m.Row(1)
	assert.Empty(t, cols)
	assert.Empty(t, vals)
	cols, vals = m.Row(2)
	assert.Equal(t, []int32{1}, cols)
	assert.Equal(t, []float64{4}, vals)
}

func TestCSRTranspose(t *testing.T) {
	m := NewCSRFromPairs(3, [][]lo.Tuple2[int32, float64]{
		{{A: 0, B: 2}, {A: 2, B: 3}},
		{},
		{{A: 0, B: 5}, {A: 1, B: 4}},
	})
	tr := m.Transpose()
	assert.NoError(t, tr.validate())
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 3, tr.Cols())
	assert.Equal(t, m.NNZ(), tr.NNZ())
	cols, vals := tr.Row(0)
	assert.Equal(t, []int32{0, 2}, cols)
	assert.Equal(t, []float64{2, 5}, vals)
	cols, vals = tr.Row(1)
	assert.Equal(t, []int32{2}, cols)
	assert.Equal(t, []float64{4}, vals)
	cols, vals = tr.Row(2)
	assert.Equal(t, []int32{0}, cols)
	assert.Equal(t, []float64{3}, vals)
	// transposing twice restores the original
	back := tr.Transpose()
	assert.Equal(t, m.rowPtr, back.rowPtr)
	assert.Equal(t, m.colIdx, back.colIdx)
	assert.Equal(t, m.values, back.values)
}
