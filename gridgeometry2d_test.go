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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoInverse = errors.New("no inverse")

type noInverse struct {
	cubic
}

func (noInverse) Inverse() (Transform, error) {
	return nil, errNoInverse
}

func unitGeometry2D(t *testing.T, sizes ...int) (*GridGeometry2D, error) {
	t.Helper()
	extent, err := NewGridExtentFromSizes(sizes...)
	require.NoError(t, err)
	max := make([]float64, len(sizes))
	for i, s := range sizes {
		max[i] = float64(s)
	}
	return NewGridGeometry2DFromEnvelope(extent, mustEnvelope(t, make([]float64, len(sizes)), max))
}

func TestGridGeometry2DAxisDetection(t *testing.T) {
	g, err := unitGeometry2D(t, 100, 50, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, g.GridDimensionX())
	assert.Equal(t, 1, g.GridDimensionY())
	assert.Equal(t, 0, g.AxisDimensionX())
	assert.Equal(t, 1, g.AxisDimensionY())
	p, err := g.Transform(Point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Point{0.5, 0.5}, p)

	g, err = unitGeometry2D(t, 1, 80, 40)
	require.NoError(t, err)
	assert.Equal(t, 1, g.GridDimensionX())
	assert.Equal(t, 2, g.GridDimensionY())
	assert.Equal(t, 1, g.AxisDimensionX())
	assert.Equal(t, 2, g.AxisDimensionY())
	r, err := g.GridRange2D()
	require.NoError(t, err)
	assert.Equal(t, GridRect{X0: 0, Y0: 0, W: 80, H: 40}, r)

	_, err = unitGeometry2D(t, 10, 10, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = unitGeometry2D(t, 10, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// 2D grids are used as is, even with a single row
	g, err = unitGeometry2D(t, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, g.GridDimensionY())
}

func TestGridGeometry2DPinnedSeparation(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(10, 20, 1)
	a := affine3D(t,
		2, 0, 0, 1,
		0, 3, 0, 2,
		0.5, 0, 1, 3,
	)
	g, err := NewGridGeometry2D(&extent, a)
	require.NoError(t, err)
	assert.Equal(t, 0, g.AxisDimensionX())
	assert.Equal(t, 1, g.AxisDimensionY())
	p, err := g.Transform(Point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Point{1, 2}, p)

	// the world axis depending on both x and z cannot be isolated
	b := affine3D(t,
		2, 0, 1, 1,
		0, 3, 0, 2,
		0, 0, 1, 3,
	)
	_, err = NewGridGeometry2D(&extent, b)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrNotSeparable)
}

func TestGridGeometry2DSwapped3D(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(1, 10, 20)
	env := mustEnvelope(t, []float64{0, 0, 0}, []float64{1, 100, 400})
	g, err := NewGridGeometry2DFromEnvelope(extent, env, SwapXY())
	require.NoError(t, err)
	assert.Equal(t, 1, g.GridDimensionX())
	assert.Equal(t, 2, g.GridDimensionY())
	assert.Equal(t, 0, g.AxisDimensionX())
	assert.Equal(t, 2, g.AxisDimensionY())

	p, err := g.Transform(Point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Point{5, 10}, p)

	b, err := g.Bounds()
	require.NoError(t, err)
	assert.Equal(t, Bounds{0, 0, 100, 400}, b)
}

func TestGridGeometry2DNoninvertible(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(4, 4)
	singular, _ := NewAffine2D(1, 2, 0, 2, 4, 0)
	_, err := NewGridGeometry2D(&extent, singular)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrNoninvertible)

	_, err = NewGridGeometry2D(&extent, noInverse{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrNoninvertible)
	assert.ErrorIs(t, err, errNoInverse)

	// a singular 3D transform whose 2D part is regular is accepted
	e3, _ := NewGridExtentFromSizes(4, 4, 1)
	a := affine3D(t,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 0,
	)
	_, err = NewGridGeometry2D(&e3, a)
	assert.NoError(t, err)
}

func TestGridGeometry2DMissingParts(t *testing.T) {
	g, err := NewGridGeometry2D(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.GridDimensionX())
	assert.Equal(t, 1, g.GridDimensionY())
	_, err = g.GridToWorld2D()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	_, err = g.WorldToGrid2D()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	_, err = g.GridRange2D()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	_, err = g.InverseTransform(Point{1, 2})
	assert.ErrorIs(t, err, ErrCannotEvaluate)
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)

	var reported error
	_, ok := g.InverseTransformBounds(Bounds{0, 0, 1, 1}, ErrLogger(func(err error) { reported = err }))
	assert.False(t, ok)
	assert.ErrorIs(t, reported, ErrInvalidGridGeometry)

	extent, _ := NewGridExtent([]int{5, 10}, []int{15, 30})
	g, err = NewGridGeometry2D(&extent, nil)
	require.NoError(t, err)
	r, err := g.GridRange2D()
	require.NoError(t, err)
	assert.Equal(t, GridRect{X0: 5, Y0: 10, W: 10, H: 20}, r)

	e3, _ := NewGridExtentFromSizes(1, 80, 40)
	g, err = NewGridGeometry2D(&e3, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.GridDimensionX())
	assert.Equal(t, 2, g.GridDimensionY())

	_, err = NewGridGeometry2D(nil, IdentityAffine(3))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGridGeometry2DPoints(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(4, 4)
	g, err := NewGridGeometry2DFromEnvelope(extent, EnvelopeFromBounds(Bounds{0, 0, 8, 8}))
	require.NoError(t, err)

	p, err := g.Transform(Point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Point{1, 1}, p)
	p, err = g.Transform(Point{4, 4})
	require.NoError(t, err)
	assert.Equal(t, Point{9, 9}, p)

	q, err := g.InverseTransform(Point{3, 5})
	require.NoError(t, err)
	assert.Equal(t, Point{1, 2}, q)

	x, y, err := g.InverseTransformCell(Point{3, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
	// cell 0 spans world [0,2)
	x, y, err = g.InverseTransformCell(Point{0, 1.99})
	require.NoError(t, err)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	x, _, err = g.InverseTransformCell(Point{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, x)
}

func TestGridGeometry2DEvaluationFailure(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(4, 4)
	g, err := NewGridGeometry2D(&extent, cubic{limit: 1})
	require.NoError(t, err)

	_, err = g.Transform(Point{3, 4})
	assert.ErrorIs(t, err, ErrCannotEvaluate)
	assert.ErrorIs(t, err, errOutOfDomain)
	assert.Contains(t, err.Error(), "POINT(3 4)")

	_, err = g.InverseTransform(Point{27, 4})
	assert.ErrorIs(t, err, ErrCannotEvaluate)
	assert.Contains(t, err.Error(), "POINT(27 4)")

	var reported []error
	_, ok := g.InverseTransformBounds(Bounds{0, 0, 27, 1}, ErrLogger(func(err error) {
		reported = append(reported, err)
	}))
	assert.False(t, ok)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrCannotEvaluate)
}

func TestInverseTransformBoundsOutward(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(100, 100)
	a, _ := NewAffine2D(2, 0, 0, 0, 2, 0)
	g, err := NewGridGeometry2D(&extent, a)
	require.NoError(t, err)

	r, ok := g.InverseTransformBounds(Bounds{10, 10, 20, 20})
	require.True(t, ok)
	// floor(10/2-0.5) .. ceil(20/2-0.5)
	assert.Equal(t, GridRect{X0: 4, Y0: 4, W: 6, H: 6}, r)

	r, ok = g.InverseTransformBounds(Bounds{10.5, 11, 19, 19.5})
	require.True(t, ok)
	assert.Equal(t, GridRect{X0: 4, Y0: 5, W: 5, H: 5}, r)

	// inverted bounds are normalized
	r2, ok := g.InverseTransformBounds(Bounds{19, 19.5, 10.5, 11})
	require.True(t, ok)
	assert.Equal(t, r, r2)
}

func TestInverseTransformWindow(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(10, 10)
	g, err := NewGridGeometry2DFromEnvelope(extent, EnvelopeFromBounds(Bounds{0, 0, 10, 10}))
	require.NoError(t, err)

	for _, tc := range []struct {
		b    Bounds
		want GridRect
	}{
		{Bounds{0, 0, 10, 10}, GridRect{X0: 0, Y0: 0, W: 10, H: 10}},
		{Bounds{2.2, 2.2, 2.8, 2.8}, GridRect{X0: 2, Y0: 2, W: 1, H: 1}},
		{Bounds{2, 2, 3, 3}, GridRect{X0: 2, Y0: 2, W: 1, H: 1}},
		{Bounds{1.9, 2, 3.1, 3}, GridRect{X0: 1, Y0: 2, W: 3, H: 1}},
		{Bounds{3, 4, 3, 4}, GridRect{X0: 3, Y0: 4, W: 1, H: 1}},
		{Bounds{-5, 8, 4, 15}, GridRect{X0: -5, Y0: 8, W: 9, H: 7}},
	} {
		r, err := g.InverseTransformWindow(tc.b)
		require.NoError(t, err, "%v", tc.b)
		assert.Equal(t, tc.want, r, "%v", tc.b)
	}

	// the window holds the cell of every point of the area
	r, err := g.InverseTransformWindow(Bounds{2.2, 2.2, 2.8, 2.8})
	require.NoError(t, err)
	x, y, err := g.InverseTransformCell(Point{2.5, 2.5})
	require.NoError(t, err)
	assert.Equal(t, GridRect{X0: x, Y0: y, W: 1, H: 1}, r)

	nogt, _ := NewGridGeometry2D(&extent, nil)
	_, err = nogt.InverseTransformWindow(Bounds{0, 0, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)

	g, err = NewGridGeometry2D(&extent, cubic{limit: 1})
	require.NoError(t, err)
	_, err = g.InverseTransformWindow(Bounds{0, 0, 27, 1})
	assert.ErrorIs(t, err, ErrCannotEvaluate)
}

func TestInverseTransformBoundsRotated(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(100, 100)
	// 90° rotation: x' = -y, y' = x
	a, _ := NewAffine2D(0, -1, 0, 1, 0, 0)
	g, err := NewGridGeometry2D(&extent, a)
	require.NoError(t, err)
	r, ok := g.InverseTransformBounds(Bounds{-20, 10, -10, 30})
	require.True(t, ok)
	// grid x = y' in [10,30], grid y = -x' in [10,20]
	assert.Equal(t, GridRect{X0: 9, Y0: 9, W: 21, H: 11}, r)
}

func TestGridGeometry2DEqual(t *testing.T) {
	extent, _ := NewGridExtentFromSizes(4, 4)
	env := EnvelopeFromBounds(Bounds{0, 0, 8, 8})
	a, _ := NewGridGeometry2DFromEnvelope(extent, env)
	b, _ := NewGridGeometry2DFromEnvelope(extent, env)
	c, _ := NewGridGeometry2DFromEnvelope(extent, env, SwapXY())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	ka, ok := a.Key()
	require.True(t, ok)
	kb, _ := b.Key()
	assert.Equal(t, ka, kb)
	assert.Contains(t, ka, "|2d(0,1;0,1)")
	assert.Contains(t, a.String(), "grid axes (0,1)")
}
