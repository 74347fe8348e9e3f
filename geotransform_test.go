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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoTransform(t *testing.T) {
	gt := [6]float64{100, 10, 0, 500, 0, -10}
	g, err := NewGridGeometry2DFromGeoTransform(20, 30, gt)
	require.NoError(t, err)

	p, err := g.Transform(Point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Point{105, 495}, p)

	bnds, err := g.Bounds()
	require.NoError(t, err)
	assert.Equal(t, Bounds{100, 200, 300, 500}, bnds)

	back, err := g.GeoTransform()
	require.NoError(t, err)
	assert.Equal(t, gt, back)

	inv, ok := g.AreAxisInverted()
	require.True(t, ok)
	assert.Equal(t, []bool{false, true}, inv)

	q, err := g.InverseTransform(Point{100, 500})
	require.NoError(t, err)
	assert.InDelta(t, -0.5, q.X, 1e-9)
	assert.InDelta(t, -0.5, q.Y, 1e-9)

	r, ok := g.InverseTransformBounds(bnds)
	require.True(t, ok)
	full, err := g.GridRange2D()
	require.NoError(t, err)
	assert.Equal(t, full, r.Intersect(full))
}

func TestGeoTransformFromEnvelope(t *testing.T) {
	extent, _ := NewGridExtent([]int{10, 20}, []int{30, 50})
	g, err := NewGridGeometry2DFromEnvelope(extent, EnvelopeFromBounds(Bounds{0, 0, 200, 300}), Reverse(false, true))
	require.NoError(t, err)
	gt, err := g.GeoTransform()
	require.NoError(t, err)
	// origin is the top left corner of cell (10,20)
	assert.Equal(t, [6]float64{0, 10, 0, 300, 0, -10}, gt)
}

func TestGeoTransformErrors(t *testing.T) {
	_, err := NewGridGeometry2DFromGeoTransform(-1, 10, [6]float64{0, 1, 0, 0, 0, 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewGridGeometry2DFromGeoTransform(10, 10, [6]float64{0, 1, 2, 0, 2, 4})
	assert.ErrorIs(t, err, ErrNoninvertible)

	extent, _ := NewGridExtentFromSizes(4, 4)
	g, err := NewGridGeometry2D(&extent, cubic{})
	require.NoError(t, err)
	_, err = g.GeoTransform()
	assert.ErrorIs(t, err, ErrNotAffine)

	g, _ = NewGridGeometry2D(&extent, nil)
	_, err = g.GeoTransform()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	_, err = g.Bounds()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
}
