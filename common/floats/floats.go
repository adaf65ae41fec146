// Copyright 2020 gorse Project Authors
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

// Package floats provides vector primitives shared by the solvers. All
// functions are generic over float32 and float64 and monomorphized at
// build time.
package floats

import (
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// MatZero fills zeros in a matrix.
func MatZero[T constraints.Float](x [][]T) {
	for i := range x {
		for j := range x[i] {
			x[i][j] = 0
		}
	}
}

// Zero fills zeros in a slice.
func Zero[T constraints.Float](a []T) {
	for i := range a {
		a[i] = 0
	}
}

// SubTo subtracts one vector by another and saves the result in dst: dst = a - b
func SubTo[T constraints.Float](a, b, dst []T) {
	if len(dst) != len(b) || len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] - b[i]
	}
}

// Add two vectors: dst = dst + s
func Add[T constraints.Float](dst, s []T) {
	if len(dst) != len(s) {
		panic("floats: slice lengths do not match")
	}
	for i := range dst {
		dst[i] += s[i]
	}
}

// Sub one vector by another: dst = dst - s
func Sub[T constraints.Float](dst, s []T) {
	if len(dst) != len(s) {
		panic("floats: slice lengths do not match")
	}
	for i := range dst {
		dst[i] -= s[i]
	}
}

// MulTo multiplies two vectors element-wise and saves the result in c: c = a * b
func MulTo[T constraints.Float](a, b, c []T) {
	if len(a) != len(b) || len(a) != len(c) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		c[i] = a[i] * b[i]
	}
}

// MulConst multiplies a vector with a const: dst = dst * c
func MulConst[T constraints.Float](dst []T, c T) {
	for i := range dst {
		dst[i] *= c
	}
}

// MulConstTo multiplies a vector and a const, then saves the result in dst: dst = a * c
func MulConstTo[T constraints.Float](a []T, c T, dst []T) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] * c
	}
}

// MulConstAdd multiplies a vector and a const, then adds to dst: dst = dst + a * c
func MulConstAdd[T constraints.Float](a []T, c T, dst []T) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] += a[i] * c
	}
}

// MulConstAddTo multiplies a vector and a const, then adds a vector and saves
// the result in dst: dst = a * c + b
func MulConstAddTo[T constraints.Float](a []T, c T, b, dst []T) {
	if len(a) != len(b) || len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i]*c + b[i]
	}
}

// MulAddTo multiplies a vector and a vector, then adds to a vector: c += a * b
func MulAddTo[T constraints.Float](a, b, c []T) {
	if len(a) != len(b) || len(a) != len(c) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		c[i] += a[i] * b[i]
	}
}

// AddTo adds two vectors and saves the result in dst: dst = a + b
func AddTo[T constraints.Float](a, b, dst []T) {
	if len(a) != len(b) || len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

// AddConst adds a const to a vector: dst = dst + c
func AddConst[T constraints.Float](dst []T, c T) {
	for i := range dst {
		dst[i] += c
	}
}

// Div one vector by another: dst = dst / s
func Div[T constraints.Float](dst, s []T) {
	if len(dst) != len(s) {
		panic("floats: slice lengths do not match")
	}
	for i := range dst {
		dst[i] /= s[i]
	}
}

// DivTo divides one vector by another and saves the result in c: c = a / b
func DivTo[T constraints.Float](a, b, c []T) {
	if len(a) != len(b) || len(a) != len(c) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		c[i] = a[i] / b[i]
	}
}

// SqrtTo calculates the square roots of a vector and saves the result in b.
func SqrtTo[T constraints.Float](a, b []T) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		b[i] = ScalarSqrt(a[i])
	}
}

// Sqrt calculates the square roots of a vector in place.
func Sqrt[T constraints.Float](a []T) {
	for i := range a {
		a[i] = ScalarSqrt(a[i])
	}
}

// Dot two vectors.
func Dot[T constraints.Float](a, b []T) (ret T) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// Euclidean distance between two vectors.
func Euclidean[T constraints.Float](a, b []T) (ret T) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += (a[i] - b[i]) * (a[i] - b[i])
	}
	return ScalarSqrt(ret)
}

// ScalarSqrt is the square root in the vector's element type.
func ScalarSqrt[T constraints.Float](x T) T {
	switch v := any(x).(type) {
	case float32:
		return T(math32.Sqrt(v))
	default:
		return T(math.Sqrt(float64(x)))
	}
}
