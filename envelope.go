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
	"math"
	"strconv"
	"strings"
)

// maxCornerDimension bounds the number of corners (2^d) evaluated when
// transforming an envelope through a non linear transform.
const maxCornerDimension = 16

// Envelope is an axis aligned box in world coordinates
type Envelope struct {
	min []float64
	max []float64
}

// NewEnvelope creates the envelope spanning [min[i],max[i]] on each axis
func NewEnvelope(min, max []float64) (Envelope, error) {
	if len(min) != len(max) {
		return Envelope{}, mismatched("envelope maximum", len(max), len(min))
	}
	if len(min) == 0 {
		return Envelope{}, fmt.Errorf("%w: envelope must have at least one dimension", ErrInvalidArgument)
	}
	for i := range min {
		if math.IsNaN(min[i]) || math.IsNaN(max[i]) {
			return Envelope{}, fmt.Errorf("%w: NaN envelope bound on axis %d", ErrInvalidArgument, i)
		}
		if max[i] < min[i] {
			return Envelope{}, fmt.Errorf("%w: envelope maximum %v lower than minimum %v on axis %d",
				ErrInvalidArgument, max[i], min[i], i)
		}
	}
	return Envelope{
		min: append([]float64(nil), min...),
		max: append([]float64(nil), max...),
	}, nil
}

// EnvelopeFromBounds creates a 2D envelope. Inverted bounds are normalized.
func EnvelopeFromBounds(b Bounds) Envelope {
	return Envelope{
		min: []float64{math.Min(b[0], b[2]), math.Min(b[1], b[3])},
		max: []float64{math.Max(b[0], b[2]), math.Max(b[1], b[3])},
	}
}

func (e Envelope) Dimension() int {
	return len(e.min)
}

func (e Envelope) Min(i int) float64 {
	return e.min[i]
}

func (e Envelope) Max(i int) float64 {
	return e.max[i]
}

// Length returns max(i)-min(i)
func (e Envelope) Length(i int) float64 {
	return e.max[i] - e.min[i]
}

// Center returns the median coordinate along axis i
func (e Envelope) Center(i int) float64 {
	return (e.min[i] + e.max[i]) / 2
}

// Bounds returns the extent of the envelope along the x and y axis
func (e Envelope) Bounds(x, y int) Bounds {
	return Bounds{e.min[x], e.min[y], e.max[x], e.max[y]}
}

// Equal returns true if both envelopes have exactly the same bounds
func (e Envelope) Equal(o Envelope) bool {
	return e.EqualApprox(o, 0)
}

// EqualApprox returns true if the bounds of both envelopes differ by at most tol
func (e Envelope) EqualApprox(o Envelope, tol float64) bool {
	if len(e.min) != len(o.min) {
		return false
	}
	for i := range e.min {
		if math.Abs(e.min[i]-o.min[i]) > tol || math.Abs(e.max[i]-o.max[i]) > tol {
			return false
		}
	}
	return true
}

func (e Envelope) String() string {
	parts := make([]string, len(e.min))
	for i := range e.min {
		parts[i] = strconv.FormatFloat(e.min[i], 'g', -1, 64) + ".." + strconv.FormatFloat(e.max[i], 'g', -1, 64)
	}
	return "Envelope[" + strings.Join(parts, ", ") + "]"
}

// TransformEnvelope returns the smallest envelope containing the image of e by t.
//
// Linear transforms are handled with interval arithmetic on their jacobian. Other
// transforms are evaluated on every corner of e, which is exact for transforms that
// are monotonic along each axis.
func TransformEnvelope(t Transform, e Envelope) (Envelope, error) {
	d := e.Dimension()
	if t.SourceDimensions() != d {
		return Envelope{}, mismatched("envelope", d, t.SourceDimensions())
	}
	if j, ok := ConstantJacobian(t); ok {
		o, err := evaluate(t, make([]float64, d))
		if err != nil {
			return Envelope{}, err
		}
		td := t.TargetDimensions()
		ret := Envelope{min: make([]float64, td), max: make([]float64, td)}
		for r := 0; r < td; r++ {
			lo, hi := o[r], o[r]
			for k := 0; k < d; k++ {
				switch coef := j.At(r, k); {
				case coef > 0:
					lo += coef * e.min[k]
					hi += coef * e.max[k]
				case coef < 0:
					lo += coef * e.max[k]
					hi += coef * e.min[k]
				}
			}
			ret.min[r], ret.max[r] = lo, hi
		}
		return ret, nil
	}
	if d > maxCornerDimension {
		return Envelope{}, fmt.Errorf("%w: cannot transform a %d-dimensional envelope corner by corner",
			ErrInvalidArgument, d)
	}
	var ret Envelope
	corner := make([]float64, d)
	for k := 0; k < 1<<d; k++ {
		for i := range corner {
			if k&(1<<i) == 0 {
				corner[i] = e.min[i]
			} else {
				corner[i] = e.max[i]
			}
		}
		p, err := evaluate(t, corner)
		if err != nil {
			return Envelope{}, err
		}
		for _, v := range p {
			if math.IsNaN(v) {
				return Envelope{}, &EvaluationError{Point: append([]float64(nil), corner...),
					Err: fmt.Errorf("transform returned NaN")}
			}
		}
		if k == 0 {
			ret = Envelope{min: append([]float64(nil), p...), max: append([]float64(nil), p...)}
			continue
		}
		for i, v := range p {
			ret.min[i] = math.Min(ret.min[i], v)
			ret.max[i] = math.Max(ret.max[i], v)
		}
	}
	return ret, nil
}
