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
	"strings"
)

// GridExtent is the range of valid cell indices along each axis of a grid.
// Lower bounds are inclusive, upper bounds are exclusive.
//
// A GridExtent is immutable once created.
type GridExtent struct {
	lower []int
	upper []int
}

// NewGridExtent creates an extent spanning [lower[i],upper[i]) on each axis.
func NewGridExtent(lower, upper []int) (GridExtent, error) {
	if len(lower) != len(upper) {
		return GridExtent{}, mismatched("upper bounds", len(upper), len(lower))
	}
	if len(lower) == 0 {
		return GridExtent{}, fmt.Errorf("%w: grid extent must have at least one dimension", ErrInvalidArgument)
	}
	for i := range lower {
		if upper[i] < lower[i] {
			return GridExtent{}, fmt.Errorf("%w: upper bound %d lower than lower bound %d on axis %d",
				ErrInvalidArgument, upper[i], lower[i], i)
		}
	}
	return GridExtent{
		lower: append([]int(nil), lower...),
		upper: append([]int(nil), upper...),
	}, nil
}

// NewGridExtentFromSizes creates an extent starting at index 0 on every axis
func NewGridExtentFromSizes(sizes ...int) (GridExtent, error) {
	return NewGridExtent(make([]int, len(sizes)), sizes)
}

// Dimension returns the number of axes
func (e GridExtent) Dimension() int {
	return len(e.lower)
}

// Lower returns the first valid index on axis i
func (e GridExtent) Lower(i int) int {
	return e.lower[i]
}

// Upper returns the exclusive upper index on axis i
func (e GridExtent) Upper(i int) int {
	return e.upper[i]
}

// Length returns the number of cells along axis i
func (e GridExtent) Length(i int) int {
	return e.upper[i] - e.lower[i]
}

// Lows returns a copy of the lower bounds
func (e GridExtent) Lows() []int {
	return append([]int(nil), e.lower...)
}

// Highs returns a copy of the exclusive upper bounds
func (e GridExtent) Highs() []int {
	return append([]int(nil), e.upper...)
}

// ActiveAxes returns the axes spanning more than one cell
func (e GridExtent) ActiveAxes() []int {
	var axes []int
	for i := range e.lower {
		if e.Length(i) > 1 {
			axes = append(axes, i)
		}
	}
	return axes
}

// Equal returns true if both extents have the same bounds
func (e GridExtent) Equal(o GridExtent) bool {
	if len(e.lower) != len(o.lower) {
		return false
	}
	for i := range e.lower {
		if e.lower[i] != o.lower[i] || e.upper[i] != o.upper[i] {
			return false
		}
	}
	return true
}

func (e GridExtent) String() string {
	parts := make([]string, len(e.lower))
	for i := range e.lower {
		parts[i] = fmt.Sprintf("%d..%d", e.lower[i], e.upper[i])
	}
	return "GridExtent[" + strings.Join(parts, ", ") + "]"
}
