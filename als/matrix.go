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
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

// Matrix is a dense row-major matrix of latent factors. Rows are handed out
// as exclusive slices: during a solve each row of the user factor matrix is
// written by exactly one worker, so no synchronization is required.
type Matrix[T constraints.Float] struct {
	rows, cols int
	data       []T
}

// NewMatrix creates a zero matrix.
func NewMatrix[T constraints.Float](rows, cols int) *Matrix[T] {
	return &Matrix[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// NewMatrixFromData wraps a row-major backing slice without copying.
func NewMatrixFromData[T constraints.Float](rows, cols int, data []T) *Matrix[T] {
	if len(data) != rows*cols {
		panic("als: matrix data length does not match dimensions")
	}
	return &Matrix[T]{rows: rows, cols: cols, data: data}
}

func (m *Matrix[T]) Rows() int {
	return m.rows
}

func (m *Matrix[T]) Cols() int {
	return m.cols
}

// Row returns the i-th row. The slice aliases the backing array, writes are
// visible to the matrix owner.
func (m *Matrix[T]) Row(i int) []T {
	return m.data[i*m.cols : (i+1)*m.cols]
}

func (m *Matrix[T]) At(i, j int) T {
	return m.data[i*m.cols+j]
}

func (m *Matrix[T]) Set(i, j int, v T) {
	m.data[i*m.cols+j] = v
}

// convert64 copies a factor matrix into float64 for the dense backend.
func convert64[T constraints.Float](m *Matrix[T]) *Matrix[float64] {
	out := NewMatrix[float64](m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = float64(v)
	}
	return out
}

// CSR is an immutable confidence matrix in compressed-row form. Rows are
// users, columns are items and values are positive confidence weights.
// Unobserved pairs are not stored: absence means baseline weight one, not a
// zero weight.
type CSR struct {
	cols   int
	rowPtr []int
	colIdx []int32
	values []float64
}

// NewCSR wraps compressed-row arrays without copying. rowPtr must hold one
// more entry than the number of rows and be non-decreasing; colIdx and values
// hold one entry per non-zero.
func NewCSR(cols int, rowPtr []int, colIdx []int32, values []float64) (*CSR, error) {
	m := &CSR{cols: cols, rowPtr: rowPtr, colIdx: colIdx, values: values}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewCSRFromPairs builds a confidence matrix from per-user (item, confidence)
// pairs. Pairs with zero confidence are dropped.
func NewCSRFromPairs(cols int, rows [][]lo.Tuple2[int32, float64]) *CSR {
	m := &CSR{
		cols:   cols,
		rowPtr: make([]int, 1, len(rows)+1),
	}
	for _, row := range rows {
		for _, pair := range row {
			if pair.B != 0 {
				m.colIdx = append(m.colIdx, pair.A)
				m.values = append(m.values, pair.B)
			}
		}
		m.rowPtr = append(m.rowPtr, len(m.colIdx))
	}
	return m
}

func (m *CSR) Rows() int {
	return len(m.rowPtr) - 1
}

func (m *CSR) Cols() int {
	return m.cols
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int {
	return len(m.values)
}

// Row returns the column indices and confidence values of one row. Both
// slices alias the backing arrays and must not be mutated.
func (m *CSR) Row(i int) ([]int32, []float64) {
	return m.colIdx[m.rowPtr[i]:m.rowPtr[i+1]], m.values[m.rowPtr[i]:m.rowPtr[i+1]]
}

// Transpose returns the compressed-row form of the transposed matrix. The
// caller uses it for the item-side pass of an alternating least squares loop,
// where user and item roles are swapped.
func (m *CSR) Transpose() *CSR {
	t := &CSR{
		cols:   m.Rows(),
		rowPtr: make([]int, m.cols+1),
		colIdx: make([]int32, len(m.colIdx)),
		values: make([]float64, len(m.values)),
	}
	// counting sort by column
	for _, j := range m.colIdx {
		t.rowPtr[j+1]++
	}
	for j := 0; j < m.cols; j++ {
		t.rowPtr[j+1] += t.rowPtr[j]
	}
	next := make([]int, m.cols)
	copy(next, t.rowPtr[:m.cols])
	for i := 0; i < m.Rows(); i++ {
		cols, vals := m.Row(i)
		for p, j := range cols {
			t.colIdx[next[j]] = int32(i)
			t.values[next[j]] = vals[p]
			next[j]++
		}
	}
	return t
}

func (m *CSR) validate() error {
	if len(m.rowPtr) == 0 {
		return &ShapeMismatchError{Reason: "row pointer array is empty"}
	}
	if m.rowPtr[0] != 0 || m.rowPtr[len(m.rowPtr)-1] != len(m.values) {
		return &ShapeMismatchError{Reason: "row pointer array does not span the non-zero arrays"}
	}
	if len(m.colIdx) != len(m.values) {
		return &ShapeMismatchError{Reason: "column index and value arrays differ in length"}
	}
	for i := 1; i < len(m.rowPtr); i++ {
		if m.rowPtr[i] < m.rowPtr[i-1] {
			return &ShapeMismatchError{Reason: "row pointer array is not monotone"}
		}
	}
	for _, j := range m.colIdx {
		if j < 0 || int(j) >= m.cols {
			return &ShapeMismatchError{Reason: "column index out of range"}
		}
	}
	return nil
}
