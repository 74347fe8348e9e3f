// Copyright 2021 Airbus Defence and Space
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gridgeom

import (
	"fmt"
	"reflect"

	"gonum.org/v1/gonum/mat"
)

// Transform is a continuous mapping from a source space to a target space.
//
// Transform applies the mapping to a single point. It returns an error if the
// point is outside of the domain of the transform.
//
// Derivative returns the targetDimensions x sourceDimensions jacobian at the given
// point. A nil point requests a location independent jacobian, which only linear
// transforms are able to provide.
//
// Inverse returns the reverse mapping, or an error matching ErrNoninvertible.
//
// Implementations must be safe for concurrent use.
type Transform interface {
	SourceDimensions() int
	TargetDimensions() int
	Transform(src []float64) ([]float64, error)
	Derivative(pt []float64) (*mat.Dense, error)
	Inverse() (Transform, error)
}

// Linear is implemented by transforms whose jacobian does not depend on the
// location it is evaluated at.
type Linear interface {
	ConstantJacobian() (*mat.Dense, bool)
}

// ConstantJacobian returns the location independent jacobian of t, if t is able
// to provide one.
func ConstantJacobian(t Transform) (*mat.Dense, bool) {
	if l, ok := t.(Linear); ok {
		return l.ConstantJacobian()
	}
	return nil, false
}

// Transform2D is a Transform from a 2D space to a 2D space
type Transform2D interface {
	Transform
	Apply(x, y float64) (float64, float64, error)
}

// AsTransform2D returns t as a Transform2D, wrapping it if needed.
func AsTransform2D(t Transform) (Transform2D, error) {
	if t.SourceDimensions() != 2 {
		return nil, mismatched("transform source", t.SourceDimensions(), 2)
	}
	if t.TargetDimensions() != 2 {
		return nil, mismatched("transform target", t.TargetDimensions(), 2)
	}
	if t2, ok := t.(Transform2D); ok {
		return t2, nil
	}
	return transform2D{t}, nil
}

// transform2D adapts a 2D Transform that does not provide Apply
type transform2D struct {
	t Transform
}

func (t transform2D) SourceDimensions() int { return 2 }
func (t transform2D) TargetDimensions() int { return 2 }

func (t transform2D) Transform(src []float64) ([]float64, error) {
	return t.t.Transform(src)
}

func (t transform2D) Derivative(pt []float64) (*mat.Dense, error) {
	return t.t.Derivative(pt)
}

func (t transform2D) Inverse() (Transform, error) {
	return t.t.Inverse()
}

func (t transform2D) Apply(x, y float64) (float64, float64, error) {
	dst, err := t.t.Transform([]float64{x, y})
	if err != nil {
		return 0, 0, err
	}
	if len(dst) != 2 {
		return 0, 0, mismatched("transformed point", len(dst), 2)
	}
	return dst[0], dst[1], nil
}

func (t transform2D) ConstantJacobian() (*mat.Dense, bool) {
	return ConstantJacobian(t.t)
}

func (t transform2D) Equal(o Transform) bool {
	return transformsEqual(t.t, unwrap2D(o))
}

func unwrap2D(t Transform) Transform {
	if w, ok := t.(transform2D); ok {
		return w.t
	}
	return t
}

// transformsEqual compares transforms structurally when they know how to, and by
// identity otherwise.
func transformsEqual(a, b Transform) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	a, b = unwrap2D(a), unwrap2D(b)
	if eq, ok := a.(interface{ Equal(Transform) bool }); ok {
		return eq.Equal(b)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// transformKey returns a string uniquely identifying t, for the transforms that
// can provide one.
func transformKey(t Transform) (string, bool) {
	if t == nil {
		return "nil", true
	}
	if k, ok := unwrap2D(t).(interface{ Key() string }); ok {
		return k.Key(), true
	}
	return "", false
}

// evaluate applies t to src, wrapping failures in an EvaluationError.
func evaluate(t Transform, src []float64) ([]float64, error) {
	dst, err := t.Transform(src)
	if err != nil {
		return nil, &EvaluationError{Point: append([]float64(nil), src...), Err: err}
	}
	if len(dst) != t.TargetDimensions() {
		return nil, &EvaluationError{Point: append([]float64(nil), src...),
			Err: fmt.Errorf("transform returned %d coordinates: %w", len(dst), ErrMismatchedDimension)}
	}
	return dst, nil
}
