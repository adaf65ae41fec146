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
)

// denominatorEps stops a conjugate-gradient iteration before a vanishing
// residual or curvature turns into a division by zero. It never triggers on
// a well-conditioned system within the default step count.
const denominatorEps = 1e-20

// cgScratch holds one worker's buffers for the conjugate-gradient solve.
type cgScratch[T constraints.Float] struct {
	r, p, ap []T
}

func newCGScratch[T constraints.Float](f int) *cgScratch[T] {
	return &cgScratch[T]{
		r:  make([]T, f),
		p:  make([]T, f),
		ap: make([]T, f),
	}
}

// solve runs a fixed number of conjugate-gradient steps on the implicit
// system
//
//	(Y^T Y + reg*I + Σ (c-1) y_i y_i^T) x = Σ c y_i
//
// warm-started from the user's current factor vector x, which is updated in
// place. The system matrix is never materialized: matrix-vector products use
// the shared Gram matrix g = Y^T Y + reg*I plus a sparse per-item correction,
// so one step costs O(F² + nnz·F) instead of the O(F³) direct factorization.
func (s *cgScratch[T]) solve(g, y *Matrix[T], cols []int32, vals []float64, x []T, steps int) {
	f := len(x)
	// r = b - A x
	for i := 0; i < f; i++ {
		s.r[i] = -floats.Dot(g.Row(i), x)
	}
	for p, i := range cols {
		c := T(vals[p])
		yi := y.Row(int(i))
		floats.MulConstAdd(yi, c-(c-1)*floats.Dot(yi, x), s.r)
	}
	copy(s.p, s.r)
	rsold := floats.Dot(s.r, s.r)
	if float64(rsold) < denominatorEps {
		return
	}
	for it := 0; it < steps; it++ {
		// ap = A p
		for i := 0; i < f; i++ {
			s.ap[i] = floats.Dot(g.Row(i), s.p)
		}
		for p, i := range cols {
			c := T(vals[p])
			yi := y.Row(int(i))
			floats.MulConstAdd(yi, (c-1)*floats.Dot(yi, s.p), s.ap)
		}
		pap := floats.Dot(s.p, s.ap)
		if float64(pap) < denominatorEps {
			break
		}
		alpha := rsold / pap
		floats.MulConstAdd(s.p, alpha, x)
		floats.MulConstAdd(s.ap, -alpha, s.r)
		rsnew := floats.Dot(s.r, s.r)
		if float64(rsnew) < denominatorEps {
			break
		}
		// p = r + (rsnew/rsold) p
		floats.MulConst(s.p, rsnew/rsold)
		floats.Add(s.p, s.r)
		rsold = rsnew
	}
}
