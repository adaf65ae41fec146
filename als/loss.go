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

	"github.com/juju/errors"
	"golang.org/x/exp/constraints"

	"github.com/gorse-io/implicit/common/floats"
	"github.com/gorse-io/implicit/common/parallel"
)

// lossPartial is one worker's share of the loss accumulation plus its scratch
// vectors. Partials are joined after the fan-out, so the result does not
// depend on scheduling.
type lossPartial struct {
	loss       float64
	confidence float64
	userNorm   float64
	r, xu      []float64
}

// computeLoss evaluates the implicit-feedback objective
//
//	(Σ_u [x_u^T (Y^T Y) x_u + Σ_i ((c-1)(y_i·x_u) - 2c)(y_i·x_u)]
//	 + reg (Σ_u ‖x_u‖² + Σ_i ‖y_i‖²)) / (Σ c + users·items - nnz)
//
// The denominator counts every unobserved cell with baseline weight one plus
// the observed confidence mass. X and Y are not mutated.
func computeLoss[T constraints.Float](ctx context.Context, c *CSR, x, y *Matrix[T], reg float64, jobs int) (float64, error) {
	y64 := convert64(y)
	gram := gramMatrix(y64, 0, jobs)
	f := x.Cols()
	partials := make([]*lossPartial, jobs)
	for i := range partials {
		partials[i] = &lossPartial{
			r:  make([]float64, f),
			xu: make([]float64, f),
		}
	}
	if err := parallel.Parallel(ctx, c.Rows(), jobs, func(workerId, u int) error {
		part := partials[workerId]
		row := x.Row(u)
		for i, v := range row {
			part.xu[i] = float64(v)
		}
		for i := 0; i < f; i++ {
			part.r[i] = floats.Dot(gram.Row(i), part.xu)
		}
		cols, vals := c.Row(u)
		for p, i := range cols {
			conf := vals[p]
			yi := y64.Row(int(i))
			floats.MulConstAdd(yi, (conf-1)*floats.Dot(yi, part.xu)-2*conf, part.r)
			part.confidence += conf
		}
		part.loss += floats.Dot(part.r, part.xu)
		part.userNorm += floats.Dot(part.xu, part.xu)
		return nil
	}); err != nil {
		return 0, errors.Trace(err)
	}
	var itemNorm float64
	for i := 0; i < y64.Rows(); i++ {
		yi := y64.Row(i)
		itemNorm += floats.Dot(yi, yi)
	}
	var loss, confidence, userNorm float64
	for _, part := range partials {
		loss += part.loss
		confidence += part.confidence
		userNorm += part.userNorm
	}
	loss += reg * (userNorm + itemNorm)
	denominator := confidence + float64(c.Rows())*float64(c.Cols()) - float64(c.NNZ())
	if denominator == 0 {
		return 0, errors.New("loss normalization denominator is zero")
	}
	return loss / denominator, nil
}
