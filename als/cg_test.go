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

	"github.com/stretchr/testify/assert"
)

func TestSolveCGConvergesToDirect(t *testing.T) {
	// with enough iterations conjugate gradients reaches the exact solution
	ctx := context.Background()
	c, x, y := newTestProblem(12, 8, 4)
	direct := cloneMatrix(x)
	assert.NoError(t, SolveDirect(ctx, c, direct, y, 0.3, 1))
	assert.NoError(t, SolveCG(ctx, c, x, y, 0.3, 1, 50))
	for i := range x.data {
		assert.InDelta(t, direct.data[i], x.data[i], 1e-8)
	}
}

func TestSolveCGFixedPoint(t *testing.T) {
	// warm-starting at the exact solution leaves the factors unchanged because
	// the initial residual already vanishes
	ctx := context.Background()
	c, x, y := newTestProblem(12, 8, 4)
	assert.NoError(t, SolveDirect(ctx, c, x, y, 0.3, 1))
	solved := cloneMatrix(x)
	assert.NoError(t, SolveCG(ctx, c, x, y, 0.3, 1, DefaultCGSteps))
	for i := range x.data {
		assert.InDelta(t, solved.data[i], x.data[i], 1e-10)
	}
}

func TestSolveCGWarmStart(t *testing.T) {
	// a handful of steps from the current factors gets closer to the exact
	// solution than the starting point was
	ctx := context.Background()
	c, x, y := newTestProblem(12, 8, 4)
	direct := cloneMatrix(x)
	assert.NoError(t, SolveDirect(ctx, c, direct, y, 0.3, 1))
	var before float64
	for i := range x.data {
		before += (x.data[i] - direct.data[i]) * (x.data[i] - direct.data[i])
	}
	assert.NoError(t, SolveCG(ctx, c, x, y, 0.3, 1, DefaultCGSteps))
	var after float64
	for i := range x.data {
		after += (x.data[i] - direct.data[i]) * (x.data[i] - direct.data[i])
	}
	assert.Less(t, after, before)
}

func TestSolveCGInvalidSteps(t *testing.T) {
	ctx := context.Background()
	c, x, y := newTestProblem(4, 3, 2)
	assert.Error(t, SolveCG(ctx, c, x, y, 0.3, 1, 0))
	assert.Error(t, SolveCG(ctx, c, x, y, 0.3, 1, -1))
	assert.Error(t, SolveCG(ctx, c, x, y, -0.3, 1, DefaultCGSteps))
}
