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
	"errors"
	"fmt"
)

// GridGeometry2D is a GridGeometry restricted to the two grid axes that span more
// than one cell. The other grid axes (e.g. a time or elevation axis of length 1)
// are ignored by the 2D methods.
//
// A GridGeometry2D is immutable and may be shared between goroutines.
type GridGeometry2D struct {
	GridGeometry
	gridDimX, gridDimY int
	axisDimX, axisDimY int
	gridToWorld2D      Transform2D
	worldToGrid2D      Transform2D
}

// NewGridGeometry2D creates a 2D grid geometry. See NewGridGeometry for the meaning
// of nil arguments.
//
// If gridToWorld is not 2D, the extent must have exactly two axes spanning more than
// one cell, and gridToWorld must be separable on those axes. The 2D transform must
// be invertible. Failures of these preconditions match ErrInvalidArgument.
func NewGridGeometry2D(extent *GridExtent, gridToWorld Transform) (*GridGeometry2D, error) {
	base, err := NewGridGeometry(extent, gridToWorld)
	if err != nil {
		return nil, err
	}
	g := &GridGeometry2D{
		GridGeometry: *base,
		gridDimX:     0,
		gridDimY:     1,
		axisDimX:     0,
		axisDimY:     1,
	}
	dim, err := base.Dimension()
	if err != nil {
		// neither extent nor transform: nothing to restrict
		return g, nil
	}
	if dim != 2 {
		if err := g.restrict(); err != nil {
			return nil, err
		}
	} else if gridToWorld != nil {
		if g.gridToWorld2D, err = AsTransform2D(gridToWorld); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}
	if g.gridToWorld2D == nil {
		return g, nil
	}
	inv, err := g.gridToWorld2D.Inverse()
	if err != nil {
		if !errors.Is(err, ErrNoninvertible) {
			err = fmt.Errorf("%w: %w", ErrNoninvertible, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if g.worldToGrid2D, err = AsTransform2D(inv); err != nil {
		return nil, fmt.Errorf("%w: inverse transform: %w", ErrInvalidArgument, err)
	}
	return g, nil
}

// restrict locates the two active grid axes and extracts the matching 2D transform
func (g *GridGeometry2D) restrict() error {
	if g.extent == nil {
		return fmt.Errorf("%w: no 2D transform available: unspecified image size", ErrInvalidArgument)
	}
	dims := g.extent.ActiveAxes()
	if len(dims) != 2 {
		return fmt.Errorf("%w: no 2D transform available: %d axes of %s span more than one cell",
			ErrInvalidArgument, len(dims), g.extent)
	}
	g.gridDimX, g.gridDimY = dims[0], dims[1]
	g.axisDimX, g.axisDimY = dims[0], dims[1]
	if g.gridToWorld == nil {
		return nil
	}
	sub, target, err := Separate(g.gridToWorld, dims, nil)
	if err != nil || len(target) != 2 {
		sub, target, err = Separate(g.gridToWorld, dims, dims)
	}
	if err != nil {
		return fmt.Errorf("%w: no 2D transform available: %w", ErrInvalidArgument, err)
	}
	if g.gridToWorld2D, err = AsTransform2D(sub); err != nil {
		return fmt.Errorf("%w: no 2D transform available: %w", ErrInvalidArgument, err)
	}
	g.axisDimX, g.axisDimY = target[0], target[1]
	return nil
}

// NewGridGeometry2DFromEnvelope creates a 2D grid geometry whose transform maps
// extent onto env. See NewAffineFromEnvelope for the available options.
func NewGridGeometry2DFromEnvelope(extent GridExtent, env Envelope, opts ...AffineOption) (*GridGeometry2D, error) {
	gt, err := NewAffineFromEnvelope(extent, env, opts...)
	if err != nil {
		return nil, err
	}
	return NewGridGeometry2D(&extent, gt)
}

// GridDimensionX returns the index of the grid axis used as x
func (g *GridGeometry2D) GridDimensionX() int {
	return g.gridDimX
}

// GridDimensionY returns the index of the grid axis used as y
func (g *GridGeometry2D) GridDimensionY() int {
	return g.gridDimY
}

// AxisDimensionX returns the index of the world axis produced from the x grid axis
func (g *GridGeometry2D) AxisDimensionX() int {
	return g.axisDimX
}

// AxisDimensionY returns the index of the world axis produced from the y grid axis
func (g *GridGeometry2D) AxisDimensionY() int {
	return g.axisDimY
}

// GridRange2D returns the cells spanned along the x and y grid axes
func (g *GridGeometry2D) GridRange2D() (GridRect, error) {
	extent, err := g.GridRange()
	if err != nil {
		return GridRect{}, err
	}
	return GridRect{
		X0: extent.Lower(g.gridDimX),
		Y0: extent.Lower(g.gridDimY),
		W:  extent.Length(g.gridDimX),
		H:  extent.Length(g.gridDimY),
	}, nil
}

// GridToWorld2D returns the 2D transform mapping cell centers to world coordinates
func (g *GridGeometry2D) GridToWorld2D() (Transform2D, error) {
	if g.gridToWorld2D == nil {
		return nil, fmt.Errorf("%w: no 2D transform from grid to world coordinates", ErrInvalidGridGeometry)
	}
	return g.gridToWorld2D, nil
}

// WorldToGrid2D returns the inverse of GridToWorld2D
func (g *GridGeometry2D) WorldToGrid2D() (Transform2D, error) {
	if g.worldToGrid2D == nil {
		return nil, fmt.Errorf("%w: no 2D transform from world to grid coordinates", ErrInvalidGridGeometry)
	}
	return g.worldToGrid2D, nil
}

func apply2D(t Transform2D, p Point) (Point, error) {
	if t == nil {
		return Point{}, &EvaluationError{Point: []float64{p.X, p.Y},
			Err: fmt.Errorf("%w: no 2D transform available", ErrInvalidGridGeometry)}
	}
	x, y, err := t.Apply(p.X, p.Y)
	if err != nil {
		return Point{}, &EvaluationError{Point: []float64{p.X, p.Y}, Err: err}
	}
	return Point{X: x, Y: y}, nil
}

// Transform converts grid coordinates to world coordinates. The returned error
// matches ErrCannotEvaluate on failure.
func (g *GridGeometry2D) Transform(p Point) (Point, error) {
	return apply2D(g.gridToWorld2D, p)
}

// InverseTransform converts world coordinates to grid coordinates. The returned
// error matches ErrCannotEvaluate on failure.
func (g *GridGeometry2D) InverseTransform(p Point) (Point, error) {
	return apply2D(g.worldToGrid2D, p)
}

// InverseTransformCell returns the index of the cell containing the world point p.
// Cell i spans grid coordinates [i-0.5,i+0.5). The returned cell is not checked
// against the grid range.
func (g *GridGeometry2D) InverseTransformCell(p Point) (x, y int, err error) {
	q, err := g.InverseTransform(p)
	if err != nil {
		return 0, 0, err
	}
	x, okx := cellIndex(q.X)
	y, oky := cellIndex(q.Y)
	if !okx || !oky {
		return 0, 0, &EvaluationError{Point: []float64{p.X, p.Y},
			Err: fmt.Errorf("grid coordinates %s out of range", q)}
	}
	return x, y, nil
}

// InverseTransformBounds returns a grid window for the world rectangle b. The
// grid envelope of b is rounded to cells floor(min-0.5) and ceil(max-0.5), the
// latter being the exclusive upper index. Use InverseTransformWindow to get the
// cells intersecting b.
//
// It is meant for prefetching hints: ok is false when the window cannot be
// computed.
//
// Available options are:
//
// • ErrLogger to be notified of the reason when ok is false
func (g *GridGeometry2D) InverseTransformBounds(b Bounds, opts ...InverseBoundsOption) (r GridRect, ok bool) {
	bo := bestEffortOpts{}
	for _, o := range opts {
		o.setInverseBoundsOpt(&bo)
	}
	if g.worldToGrid2D == nil {
		bo.report(fmt.Errorf("%w: no 2D transform from world to grid coordinates", ErrInvalidGridGeometry))
		return GridRect{}, false
	}
	genv, err := TransformEnvelope(g.worldToGrid2D, EnvelopeFromBounds(b))
	if err != nil {
		bo.report(fmt.Errorf("inverse transform %v: %w", b, err))
		return GridRect{}, false
	}
	r, ok = cellsCovering(genv.Min(0), genv.Min(1), genv.Max(0), genv.Max(1))
	if !ok {
		bo.report(fmt.Errorf("inverse transform %v: grid window %s out of range", b, genv))
	}
	return r, ok
}

// InverseTransformWindow returns the window of the cells intersecting the world
// rectangle b, cell i spanning grid coordinates [i-0.5,i+0.5). Cells only
// touching b on their lower edge are excluded. The window is not clipped to the
// grid range.
func (g *GridGeometry2D) InverseTransformWindow(b Bounds) (GridRect, error) {
	if g.worldToGrid2D == nil {
		return GridRect{}, fmt.Errorf("%w: no 2D transform from world to grid coordinates", ErrInvalidGridGeometry)
	}
	genv, err := TransformEnvelope(g.worldToGrid2D, EnvelopeFromBounds(b))
	if err != nil {
		return GridRect{}, fmt.Errorf("inverse transform %v: %w", b, err)
	}
	x0, x1, okx := cellSpan(genv.Min(0), genv.Max(0))
	y0, y1, oky := cellSpan(genv.Min(1), genv.Max(1))
	if !okx || !oky {
		return GridRect{}, fmt.Errorf("inverse transform %v: %w: grid window %s out of range",
			b, ErrCannotEvaluate, genv)
	}
	return GridRect{X0: x0, Y0: y0, W: x1 - x0, H: y1 - y0}, nil
}

func cellsCovering(minx, miny, maxx, maxy float64) (GridRect, bool) {
	x0, x1, okx := outwardCells(minx, maxx)
	y0, y1, oky := outwardCells(miny, maxy)
	if !okx || !oky {
		return GridRect{}, false
	}
	return GridRect{X0: x0, Y0: y0, W: x1 - x0, H: y1 - y0}, true
}

// Equal returns true if both geometries have the same extent, transform and
// 2D axes.
func (g *GridGeometry2D) Equal(o *GridGeometry2D) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.GridGeometry.Equal(&o.GridGeometry) &&
		g.gridDimX == o.gridDimX && g.gridDimY == o.gridDimY &&
		g.axisDimX == o.axisDimX && g.axisDimY == o.axisDimY
}

// Key returns a string identifying the geometry, see GridGeometry.Key
func (g *GridGeometry2D) Key() (string, bool) {
	k, ok := g.GridGeometry.Key()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s|2d(%d,%d;%d,%d)", k, g.gridDimX, g.gridDimY, g.axisDimX, g.axisDimY), true
}

func (g *GridGeometry2D) String() string {
	return fmt.Sprintf("GridGeometry2D{%s, grid axes (%d,%d), world axes (%d,%d)}",
		g.GridGeometry.String(), g.gridDimX, g.gridDimY, g.axisDimX, g.axisDimY)
}
