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

import "fmt"

// Stages of the two-tier direct solve. SingularMatrixError.Status reports the
// deepest stage that failed.
const (
	StatusCholesky = iota + 1
	StatusLU
)

// SingularMatrixError reports that both the Cholesky factorization and the
// pivoted LU fallback failed for one user's system. The whole batch is
// aborted; the user factor matrix is left partially updated.
type SingularMatrixError struct {
	User   int
	Status int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular system for user %d (status %d)", e.User, e.Status)
}

// ShapeMismatchError reports inconsistent dimensions among the confidence
// matrix and the factor matrices, or a malformed compressed-row structure.
// It is raised before any work is dispatched.
type ShapeMismatchError struct {
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return "shape mismatch: " + e.Reason
}
