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
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestComputeLoss(t *testing.T) {
	// single cell with x = 2, y = 3, confidence 4 and reg 0.5:
	//   quadratic part  (x YtY x) + ((c-1)(y.x) - 2c)(y.x) = 36 + 60 = 96
	//   regularization  0.5 * (4 + 9) = 6.5
	//   normalization   4 + 1*1 - 1 = 4
	c := NewCSRFromPairs(1, [][]lo.Tuple2[int32, float64]{{{A: 0, B: 4}}})
	x := NewMatrixFromData(1, 1, []float64{2})
	y := NewMatrixFromData(1, 1, []float64{3})
	loss, err := ComputeLoss(context.Background(), c, x, y, 0.5, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 102.5/4, loss, 1e-12)
}

func TestComputeLossPermutationInvariant(t *testing.T) {
	ctx := context.Background()
	c, x, y := newTestProblem(10, 6, 4)
	loss, err := ComputeLoss(ctx, c, x, y, 0.1, 4)
	assert.NoError(t, err)

	// reverse the user order
	pairs := make([][]lo.Tuple2[int32, float64], c.Rows())
	xr := NewMatrix[float64](x.Rows(), x.Cols())
	for u := 0; u < c.Rows(); u++ {
		ru := c.Rows() - 1 - u
		cols, vals := c.Row(ru)
		for p := range cols {
			pairs[u] = append(pairs[u], lo.Tuple2[int32, float64]{A: cols[p], B: vals[p]})
		}
		copy(xr.Row(u), x.Row(ru))
	}
	lossUsers, err := ComputeLoss(ctx, NewCSRFromPairs(c.Cols(), pairs), xr, y, 0.1, 4)
	assert.NoError(t, err)
	assert.InDelta(t, loss, lossUsers, 1e-9)

	// reverse the item order
	pairs = make([][]lo.Tuple2[int32, float64], c.Rows())
	yr := NewMatrix[float64](y.Rows(), y.Cols())
	for i := 0; i < y.Rows(); i++ {
		copy(yr.Row(i), y.Row(y.Rows()-1-i))
	}
	for u := 0; u < c.Rows(); u++ {
		cols, vals := c.Row(u)
		for p := range cols {
			pairs[u] = append(pairs[u], lo.Tuple2[int32, float64]{A: int32(c.Cols()) - 1 - cols[p], B: vals[p]})
		}
	}
	lossItems, err := ComputeLoss(ctx, NewCSRFromPairs(c.Cols(), pairs), x, yr, 0.1, 4)
	assert.NoError(t, err)
	assert.InDelta(t, loss, lossItems, 1e-9)
}

func TestComputeLossZeroDenominator(t *testing.T) {
	// a single stored zero confidence cancels the unobserved-cell count
	c, err := NewCSR(1, []int{0, 1}, []int32{0}, []float64{0})
	assert.NoError(t, err)
	x := NewMatrixFromData(1, 1, []float64{1})
	y := NewMatrixFromData(1, 1, []float64{1})
	_, err = ComputeLoss(context.Background(), c, x, y, 0.1, 1)
	assert.Error(t, err)
}
