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

	"gonum.org/v1/gonum/mat"
)

// NewAffineFromEnvelope creates the grid to world transform mapping the cells of
// extent onto env.
//
// The transform maps cell centers: cell index extent.Lower(i) is mapped to the
// center of the first cell, i.e. env.Min(i) plus half a cell. Grid coordinates
// extent.Lower(i)-0.5 and extent.Upper(i)-0.5 are mapped to the envelope bounds.
//
// Available options are:
//
// • Reverse to flip some world axes
//
// • SwapXY to exchange the first two world axes
func NewAffineFromEnvelope(extent GridExtent, env Envelope, opts ...AffineOption) (*Affine, error) {
	ao := affineOpts{}
	for _, o := range opts {
		o.setAffineOpt(&ao)
	}
	d := extent.Dimension()
	if env.Dimension() != d {
		return nil, mismatched("envelope", env.Dimension(), d)
	}
	if ao.reverse != nil && len(ao.reverse) != d {
		return nil, mismatched("reversed axes", len(ao.reverse), d)
	}
	if ao.swapXY && d < 2 {
		return nil, fmt.Errorf("%w: cannot swap axes of a %d-dimensional grid", ErrInvalidArgument, d)
	}
	m := mat.NewDense(d+1, d+1, nil)
	for i := 0; i < d; i++ {
		j := i
		if ao.swapXY && i <= 1 {
			j = 1 - i
		}
		n := extent.Length(i)
		if n == 0 {
			return nil, fmt.Errorf("%w: empty grid extent on axis %d", ErrInvalidArgument, i)
		}
		scale := env.Length(i) / float64(n)
		var offset float64
		if ao.reverse == nil || !ao.reverse[j] {
			offset = env.Min(i)
		} else {
			scale = -scale
			offset = env.Max(i)
		}
		offset -= scale * (float64(extent.Lower(i)) - 0.5)
		m.Set(j, i, scale)
		m.Set(j, d, offset)
	}
	m.Set(d, d, 1)
	return NewAffine(m)
}
