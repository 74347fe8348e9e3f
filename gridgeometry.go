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
)

// GridGeometry associates a grid extent with the transform mapping grid
// coordinates to world coordinates. Either of them may be unknown.
//
// A GridGeometry is immutable and may be shared between goroutines.
type GridGeometry struct {
	extent      *GridExtent
	gridToWorld Transform
}

// NewGridGeometry creates a grid geometry. A nil extent means the grid size is
// unknown, a nil transform means the grid is not georeferenced.
//
// When both are provided, the extent dimension must match the source and target
// dimensions of gridToWorld.
func NewGridGeometry(extent *GridExtent, gridToWorld Transform) (*GridGeometry, error) {
	if gridToWorld != nil {
		src, dst := gridToWorld.SourceDimensions(), gridToWorld.TargetDimensions()
		if src != dst {
			return nil, mismatched("transform target", dst, src)
		}
		if extent != nil && extent.Dimension() != src {
			return nil, mismatched("grid extent", extent.Dimension(), src)
		}
	}
	g := &GridGeometry{gridToWorld: gridToWorld}
	if extent != nil {
		e := *extent
		g.extent = &e
	}
	return g, nil
}

// NewGridGeometryFromEnvelope creates a grid geometry whose transform maps extent
// onto env. See NewAffineFromEnvelope for the available options.
func NewGridGeometryFromEnvelope(extent GridExtent, env Envelope, opts ...AffineOption) (*GridGeometry, error) {
	gt, err := NewAffineFromEnvelope(extent, env, opts...)
	if err != nil {
		return nil, err
	}
	return NewGridGeometry(&extent, gt)
}

// Dimension returns the number of grid (and world) dimensions
func (g *GridGeometry) Dimension() (int, error) {
	if g.gridToWorld != nil {
		return g.gridToWorld.SourceDimensions(), nil
	}
	if g.extent != nil {
		return g.extent.Dimension(), nil
	}
	return 0, fmt.Errorf("%w: unspecified dimension", ErrInvalidGridGeometry)
}

// HasGridRange returns true if the grid extent is known
func (g *GridGeometry) HasGridRange() bool {
	return g.extent != nil
}

// HasGridToWorld returns true if the grid to world transform is known
func (g *GridGeometry) HasGridToWorld() bool {
	return g.gridToWorld != nil
}

// GridRange returns the grid extent
func (g *GridGeometry) GridRange() (GridExtent, error) {
	if g.extent == nil {
		return GridExtent{}, fmt.Errorf("%w: unspecified image size", ErrInvalidGridGeometry)
	}
	return *g.extent, nil
}

// GridToWorld returns the transform mapping cell centers to world coordinates
func (g *GridGeometry) GridToWorld() (Transform, error) {
	if g.gridToWorld == nil {
		return nil, fmt.Errorf("%w: unspecified transform from grid to world coordinates", ErrInvalidGridGeometry)
	}
	return g.gridToWorld, nil
}

// Envelope returns the world envelope covering every cell of the grid, cell
// corners included.
func (g *GridGeometry) Envelope() (Envelope, error) {
	extent, err := g.GridRange()
	if err != nil {
		return Envelope{}, err
	}
	gt, err := g.GridToWorld()
	if err != nil {
		return Envelope{}, err
	}
	return gridEnvelope(extent, gt)
}

func gridEnvelope(extent GridExtent, gt Transform) (Envelope, error) {
	d := extent.Dimension()
	box := Envelope{min: make([]float64, d), max: make([]float64, d)}
	for i := 0; i < d; i++ {
		box.min[i] = float64(extent.Lower(i)) - 0.5
		box.max[i] = float64(extent.Upper(i)) - 0.5
	}
	env, err := TransformEnvelope(gt, box)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: transform %s: %w", ErrInvalidGridGeometry, extent, err)
	}
	return env, nil
}

// AreAxisInverted guesses, for each world axis, whether increasing grid
// coordinates map to decreasing world coordinates.
//
// It is a best effort heuristic: ok is false when the orientation cannot be
// determined, e.g. if the transform is unknown, not affine, or mixes axes.
//
// Available options are:
//
// • ErrLogger to be notified of the reason when ok is false
func (g *GridGeometry) AreAxisInverted(opts ...AxisInversionOption) (inverted []bool, ok bool) {
	bo := bestEffortOpts{}
	for _, o := range opts {
		o.setAxisInversionOpt(&bo)
	}
	if g.gridToWorld == nil {
		bo.report(fmt.Errorf("%w: unspecified transform from grid to world coordinates", ErrInvalidGridGeometry))
		return nil, false
	}
	j, ok := ConstantJacobian(g.gridToWorld)
	if !ok {
		bo.report(fmt.Errorf("axis orientation: %w", ErrNotAffine))
		return nil, false
	}
	r, c := j.Dims()
	if r != c {
		bo.report(mismatched("jacobian rows", r, c))
		return nil, false
	}
	inverted = make([]bool, r)
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			if k != i && j.At(i, k) != 0 {
				bo.report(fmt.Errorf("axis orientation: world axis %d depends on grid axis %d", i, k))
				return nil, false
			}
		}
		diag := j.At(i, i)
		if diag == 0 {
			bo.report(fmt.Errorf("axis orientation: null scale on axis %d", i))
			return nil, false
		}
		inverted[i] = diag < 0
	}
	return inverted, true
}

// Equal returns true if both geometries have the same extent and transform
func (g *GridGeometry) Equal(o *GridGeometry) bool {
	if g == nil || o == nil {
		return g == o
	}
	if (g.extent == nil) != (o.extent == nil) {
		return false
	}
	if g.extent != nil && !g.extent.Equal(*o.extent) {
		return false
	}
	return transformsEqual(g.gridToWorld, o.gridToWorld)
}

// Key returns a string identifying the geometry, such that structurally equal
// geometries share the same key. ok is false if the transform cannot be
// identified.
func (g *GridGeometry) Key() (key string, ok bool) {
	tk, ok := transformKey(g.gridToWorld)
	if !ok {
		return "", false
	}
	ek := "nil"
	if g.extent != nil {
		ek = g.extent.String()
	}
	return ek + "|" + tk, true
}

func (g *GridGeometry) String() string {
	ek, tk := "unknown extent", "unknown transform"
	if g.extent != nil {
		ek = g.extent.String()
	}
	if g.gridToWorld != nil {
		tk = fmt.Sprint(g.gridToWorld)
	}
	return "GridGeometry{" + ek + ", " + tk + "}"
}
