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

// Package als is the numerical core of implicit-feedback alternating least
// squares. Given a sparse confidence matrix and dense user/item factor
// matrices, it recomputes every user's factor vector by solving a regularized
// weighted least-squares system, either exactly (Cholesky with a pivoted LU
// fallback) or approximately (warm-started conjugate gradient), and evaluates
// the global training objective. The outer training loop alternately invokes
// these operations with the user and item roles swapped; epoch control and
// confidence-matrix construction belong to the caller.
package als

import (
	"context"
	"runtime"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/gorse-io/implicit/base/log"
	"github.com/gorse-io/implicit/common/parallel"
)

// DefaultCGSteps is the conjugate-gradient iteration count. Since the outer
// loop reruns every epoch and warm-starts from the previous estimate, a few
// steps suffice without any convergence check.
const DefaultCGSteps = 3

// SolveDirect recomputes every row of x as the exact solution of that user's
// regularized normal equations, given fixed item factors y. Rows of x are
// written in place and workers own disjoint rows, so results are identical
// for any worker count. jobs <= 0 selects the number of CPUs.
//
// On a SingularMatrixError the batch is aborted: rows solved by other workers
// keep their new values and x must be treated as partially updated.
func SolveDirect[T constraints.Float](ctx context.Context, c *CSR, x, y *Matrix[T], reg float64, jobs int) error {
	if err := validateShapes(c, x, y); err != nil {
		return errors.Trace(err)
	}
	if reg < 0 {
		return errors.NotValidf("regularization %v", reg)
	}
	jobs = normalizeJobs(jobs)
	start := time.Now()
	ne := newNormalEquations(y, reg, jobs)
	scratch := make([]*directScratch, jobs)
	for i := range scratch {
		scratch[i] = newDirectScratch(x.Cols())
	}
	if err := parallel.Parallel(ctx, c.Rows(), jobs, func(workerId, u int) error {
		s := scratch[workerId]
		cols, vals := c.Row(u)
		ne.build(cols, vals, s.a, s.b.RawVector().Data)
		solution, err := s.solve(u)
		if err != nil {
			return errors.Trace(err)
		}
		row := x.Row(u)
		for i := range row {
			row[i] = T(solution[i])
		}
		return nil
	}); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Debug("solve direct",
		zap.Int("users", c.Rows()),
		zap.Int("factors", x.Cols()),
		zap.Int("jobs", jobs),
		zap.Duration("solve_time", time.Since(start)))
	return nil
}

// SolveCG approximates every row of x with cgSteps conjugate-gradient
// iterations, warm-started from the row's current value. It trades the
// O(F³) factorization of SolveDirect for O(F²) per iteration, which wins for
// large factor counts. jobs <= 0 selects the number of CPUs.
func SolveCG[T constraints.Float](ctx context.Context, c *CSR, x, y *Matrix[T], reg T, jobs, cgSteps int) error {
	if err := validateShapes(c, x, y); err != nil {
		return errors.Trace(err)
	}
	if reg < 0 {
		return errors.NotValidf("regularization %v", reg)
	}
	if cgSteps <= 0 {
		return errors.NotValidf("cg_steps %d", cgSteps)
	}
	jobs = normalizeJobs(jobs)
	start := time.Now()
	gram := gramMatrix(y, reg, jobs)
	scratch := make([]*cgScratch[T], jobs)
	for i := range scratch {
		scratch[i] = newCGScratch[T](x.Cols())
	}
	if err := parallel.Parallel(ctx, c.Rows(), jobs, func(workerId, u int) error {
		cols, vals := c.Row(u)
		scratch[workerId].solve(gram, y, cols, vals, x.Row(u), cgSteps)
		return nil
	}); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Debug("solve cg",
		zap.Int("users", c.Rows()),
		zap.Int("factors", x.Cols()),
		zap.Int("cg_steps", cgSteps),
		zap.Int("jobs", jobs),
		zap.Duration("solve_time", time.Since(start)))
	return nil
}

// ComputeLoss evaluates the regularized implicit-feedback objective for the
// current factor matrices without mutating them. The result is normalized by
// the total confidence mass plus the implicit weight of unobserved cells; a
// zero normalization term yields an error rather than a NaN.
func ComputeLoss[T constraints.Float](ctx context.Context, c *CSR, x, y *Matrix[T], reg T, jobs int) (float64, error) {
	if err := validateShapes(c, x, y); err != nil {
		return 0, errors.Trace(err)
	}
	if reg < 0 {
		return 0, errors.NotValidf("regularization %v", reg)
	}
	jobs = normalizeJobs(jobs)
	start := time.Now()
	loss, err := computeLoss(ctx, c, x, y, float64(reg), jobs)
	if err != nil {
		return 0, errors.Trace(err)
	}
	log.Logger().Debug("compute loss",
		zap.Int("users", c.Rows()),
		zap.Int("items", c.Cols()),
		zap.Float64("loss", loss),
		zap.Duration("eval_time", time.Since(start)))
	return loss, nil
}

func validateShapes[T constraints.Float](c *CSR, x, y *Matrix[T]) error {
	if err := c.validate(); err != nil {
		return err
	}
	if x.Cols() != y.Cols() {
		return &ShapeMismatchError{Reason: "factor widths of x and y differ"}
	}
	if c.Rows() != x.Rows() {
		return &ShapeMismatchError{Reason: "confidence rows do not match x rows"}
	}
	if c.Cols() != y.Rows() {
		return &ShapeMismatchError{Reason: "confidence columns do not match y rows"}
	}
	return nil
}

func normalizeJobs(jobs int) int {
	if jobs <= 0 {
		return runtime.NumCPU()
	}
	return jobs
}
