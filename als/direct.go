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
	"gonum.org/v1/gonum/mat"
)

// directScratch holds one worker's buffers for the direct solve. The
// symmetric and general views alias the same backing array, so the system
// assembled once serves both factorizations.
type directScratch struct {
	a      []float64
	aSym   *mat.SymDense
	aDense *mat.Dense
	b      *mat.VecDense
	x      *mat.VecDense
	chol   mat.Cholesky
	lu     mat.LU
}

func newDirectScratch(f int) *directScratch {
	a := make([]float64, f*f)
	return &directScratch{
		a:      a,
		aSym:   mat.NewSymDense(f, a),
		aDense: mat.NewDense(f, f, a),
		b:      mat.NewVecDense(f, nil),
		x:      mat.NewVecDense(f, nil),
	}
}

// solve computes A x = b for the system currently held in the scratch.
// Cholesky exploits positive-definiteness of the regularized system; if the
// factorization reports failure, the same system is retried with partial
// pivoting, which tolerates near-singular matrices at higher cost.
func (s *directScratch) solve(user int) ([]float64, error) {
	if s.chol.Factorize(s.aSym) {
		if err := s.chol.SolveVecTo(s.x, s.b); err == nil {
			return s.x.RawVector().Data, nil
		}
	}
	s.lu.Factorize(s.aDense)
	if err := s.lu.SolveVecTo(s.x, false, s.b); err != nil {
		return nil, &SingularMatrixError{User: user, Status: StatusLU}
	}
	return s.x.RawVector().Data, nil
}
