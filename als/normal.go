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
	"golang.org/x/exp/constraints"

	"github.com/gorse-io/implicit/common/floats"
	"github.com/gorse-io/implicit/common/parallel"
)

// gramMatrix computes G = Y^T Y + reg*I. The Gram matrix is computed once per
// call and shared read-only by all workers. Output rows are independent, so
// the accumulation is parallelized across them.
func gramMatrix[T constraints.Float](y *Matrix[T], reg T, jobs int) *Matrix[T] {
	f := y.Cols()
	g := NewMatrix[T](f, f)
	parallel.For(f, jobs, func(i int) {
		row := g.Row(i)
		for k := 0; k < y.Rows(); k++ {
			yk := y.Row(k)
			floats.MulConstAdd(yk, yk[i], row)
		}
		row[i] += reg
	})
	return g
}

// normalEquations assembles the per-user dense system
//
//	A = Y^T Y + reg*I + Σ (c-1) y_i y_i^T
//	b = Σ c y_i
//
// over the user's observed items. The base matrix Y^T Y + reg*I and the
// float64 copy of Y are shared across all users of one call; A and b are
// written into caller-supplied scratch.
type normalEquations struct {
	f    int
	base *Matrix[float64]
	y    *Matrix[float64]
}

func newNormalEquations[T constraints.Float](y *Matrix[T], reg float64, jobs int) *normalEquations {
	y64 := convert64(y)
	return &normalEquations{
		f:    y.Cols(),
		base: gramMatrix(y64, reg, jobs),
		y:    y64,
	}
}

// build writes A and b for one user. Both triangles of A are filled so the
// same scratch serves the symmetric factorization and the pivoted fallback.
func (ne *normalEquations) build(cols []int32, vals []float64, a, b []float64) {
	copy(a, ne.base.data)
	floats.Zero(b)
	for p, i := range cols {
		c := vals[p]
		yi := ne.y.Row(int(i))
		for r := 0; r < ne.f; r++ {
			// rank-1 update: A_r* += (c-1) * y_i[r] * y_i
			floats.MulConstAdd(yi, (c-1)*yi[r], a[r*ne.f:(r+1)*ne.f])
		}
		floats.MulConstAdd(yi, c, b)
	}
}
