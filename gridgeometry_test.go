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
	"gonum.org/v1/gonum/mat"
)

// dropZ projects 3D points on the xy plane
type dropZ struct{}

func (dropZ) SourceDimensions() int { return 3 }
func (dropZ) TargetDimensions() int { return 2 }
func (dropZ) Transform(src []float64) ([]float64, error) {
	return src[:2], nil
}
func (dropZ) Derivative(pt []float64) (*mat.Dense, error) {
	return mat.NewDense(2, 3, []float64{1, 0, 0, 0, 1, 0}), nil
}
func (dropZ) Inverse() (Transform, error) {
	return nil, ErrNoninvertible
}

func TestNewGridGeometryDimensions(t *testing.T) {
	e3 := mustExtent(t, []int{0, 0, 0}, []int{4, 4, 4})
	_, err := NewGridGeometry(&e3, IdentityAffine(2))
	assert.ErrorIs(t, err, ErrMismatchedDimension)

	_, err = NewGridGeometry(&e3, dropZ{})
	assert.ErrorIs(t, err, ErrMismatchedDimension)
	_, err = NewGridGeometry(nil, dropZ{})
	assert.ErrorIs(t, err, ErrMismatchedDimension)

	g, err := NewGridGeometry(&e3, IdentityAffine(3))
	require.NoError(t, err)
	d, err := g.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 3, d)
}

func TestGridGeometryMissingParts(t *testing.T) {
	g, err := NewGridGeometry(nil, nil)
	require.NoError(t, err)
	assert.False(t, g.HasGridRange())
	assert.False(t, g.HasGridToWorld())
	_, err = g.Dimension()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	_, err = g.GridRange()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	assert.Contains(t, err.Error(), "unspecified image size")
	_, err = g.GridToWorld()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	_, err = g.Envelope()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)

	e := mustExtent(t, []int{0, 0}, []int{4, 4})
	g, err = NewGridGeometry(&e, nil)
	require.NoError(t, err)
	assert.True(t, g.HasGridRange())
	d, err := g.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 2, d)
	_, err = g.Envelope()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)

	g, err = NewGridGeometry(nil, IdentityAffine(2))
	require.NoError(t, err)
	assert.True(t, g.HasGridToWorld())
	_, err = g.GridRange()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
}

func TestGridGeometryEnvelope(t *testing.T) {
	extent := mustExtent(t, []int{0, 0}, []int{4, 4})
	env := mustEnvelope(t, []float64{0, 0}, []float64{8, 8})

	g, err := NewGridGeometryFromEnvelope(extent, env)
	require.NoError(t, err)
	got, err := g.Envelope()
	require.NoError(t, err)
	assert.True(t, env.Equal(got), "got %v", got)

	g, err = NewGridGeometryFromEnvelope(extent, env, Reverse(false, true))
	require.NoError(t, err)
	got, err = g.Envelope()
	require.NoError(t, err)
	assert.True(t, env.Equal(got), "got %v", got)

	extent = mustExtent(t, []int{-5, 100, 0}, []int{95, 150, 1})
	env = mustEnvelope(t, []float64{-180, -90, 0}, []float64{180, 90, 10})
	g, err = NewGridGeometryFromEnvelope(extent, env)
	require.NoError(t, err)
	got, err = g.Envelope()
	require.NoError(t, err)
	assert.True(t, env.EqualApprox(got, 1e-9), "got %v", got)
}

func TestGridGeometryEnvelopeFailure(t *testing.T) {
	extent := mustExtent(t, []int{0, 0}, []int{2, 2})
	g, err := NewGridGeometry(&extent, cubic{limit: 1})
	require.NoError(t, err)
	_, err = g.Envelope()
	assert.ErrorIs(t, err, ErrInvalidGridGeometry)
	assert.ErrorIs(t, err, ErrCannotEvaluate)
	assert.ErrorIs(t, err, errOutOfDomain)
}

func TestAreAxisInverted(t *testing.T) {
	extent := mustExtent(t, []int{0, 0}, []int{4, 4})
	env := mustEnvelope(t, []float64{0, 0}, []float64{8, 8})

	g, err := NewGridGeometryFromEnvelope(extent, env, Reverse(false, true))
	require.NoError(t, err)
	inv, ok := g.AreAxisInverted()
	require.True(t, ok)
	assert.Equal(t, []bool{false, true}, inv)

	var reported []error
	logger := ErrLogger(func(err error) { reported = append(reported, err) })

	g, _ = NewGridGeometry(&extent, cubic{})
	_, ok = g.AreAxisInverted(logger)
	assert.False(t, ok)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrNotAffine)

	rot, _ := NewAffine2D(0, -1, 0, 1, 0, 0)
	g, _ = NewGridGeometry(&extent, rot)
	_, ok = g.AreAxisInverted(logger)
	assert.False(t, ok)
	assert.Len(t, reported, 2)

	g, _ = NewGridGeometry(&extent, nil)
	_, ok = g.AreAxisInverted(logger)
	assert.False(t, ok)
	require.Len(t, reported, 3)
	assert.ErrorIs(t, reported[2], ErrInvalidGridGeometry)

	// no logger: failures are silent
	_, ok = g.AreAxisInverted()
	assert.False(t, ok)
	assert.Len(t, reported, 3)
}

func TestGridGeometryEqual(t *testing.T) {
	extent := mustExtent(t, []int{0, 0}, []int{4, 4})
	env := mustEnvelope(t, []float64{0, 0}, []float64{8, 8})

	a, _ := NewGridGeometryFromEnvelope(extent, env)
	b, _ := NewGridGeometryFromEnvelope(extent, env)
	c, _ := NewGridGeometryFromEnvelope(extent, env, Reverse(true, false))
	d, _ := NewGridGeometry(&extent, nil)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))

	ka, ok := a.Key()
	require.True(t, ok)
	kb, _ := b.Key()
	kc, _ := c.Key()
	assert.Equal(t, ka, kb)
	assert.NotEqual(t, ka, kc)
	assert.Equal(t, "GridExtent[0..4, 0..4]|Affine[[2 0 1] [0 2 1] [0 0 1]]", ka)

	kd, ok := d.Key()
	require.True(t, ok)
	assert.Equal(t, "GridExtent[0..4, 0..4]|nil", kd)

	// transforms without a key cannot be interned
	e, _ := NewGridGeometry(&extent, cubic{})
	_, ok = e.Key()
	assert.False(t, ok)
	f, _ := NewGridGeometry(&extent, cubic{})
	assert.True(t, e.Equal(f))
}
