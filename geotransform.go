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

// NewGridGeometry2DFromGeoTransform creates the geometry of a sizeX x sizeY raster
// georeferenced with the GDAL affine transformation coefficients
//
//	Xgeo = gt[0] + Xpixel*gt[1] + Yline*gt[2]
//	Ygeo = gt[3] + Xpixel*gt[4] + Yline*gt[5]
//
// GDAL coefficients address pixel corners, they are shifted by half a pixel to
// obtain the cell center transform.
func NewGridGeometry2DFromGeoTransform(sizeX, sizeY int, gt [6]float64) (*GridGeometry2D, error) {
	extent, err := NewGridExtentFromSizes(sizeX, sizeY)
	if err != nil {
		return nil, err
	}
	a, err := NewAffine2D(
		gt[1], gt[2], gt[0]+0.5*gt[1]+0.5*gt[2],
		gt[4], gt[5], gt[3]+0.5*gt[4]+0.5*gt[5],
	)
	if err != nil {
		return nil, fmt.Errorf("geotransform: %w", err)
	}
	return NewGridGeometry2D(&extent, a)
}

// GeoTransform returns the GDAL affine transformation coefficients of the 2D
// transform, relative to the first cell of the grid range. It fails with
// ErrNotAffine if the transform is not linear.
func (g *GridGeometry2D) GeoTransform() ([6]float64, error) {
	t, err := g.GridToWorld2D()
	if err != nil {
		return [6]float64{}, err
	}
	j, ok := ConstantJacobian(t)
	if !ok {
		return [6]float64{}, fmt.Errorf("geotransform: %w", ErrNotAffine)
	}
	ox, oy, err := t.Apply(0, 0)
	if err != nil {
		return [6]float64{}, fmt.Errorf("geotransform: %w", &EvaluationError{Point: []float64{0, 0}, Err: err})
	}
	lx, ly := 0, 0
	if r, err := g.GridRange2D(); err == nil {
		lx, ly = r.X0, r.Y0
	}
	// pixel corner 0,0 is grid coordinate lower-0.5
	cx, cy := float64(lx)-0.5, float64(ly)-0.5
	a, b := j.At(0, 0), j.At(0, 1)
	d, e := j.At(1, 0), j.At(1, 1)
	return [6]float64{ox + a*cx + b*cy, a, b, oy + d*cx + e*cy, d, e}, nil
}

// Bounds returns the world bounding box of the grid along the x and y world axes,
// in the order
//
//	[MinX, MinY, MaxX, MaxY]
func (g *GridGeometry2D) Bounds() (Bounds, error) {
	env, err := g.Envelope()
	if err != nil {
		return Bounds{}, fmt.Errorf("bounds: %w", err)
	}
	return env.Bounds(g.axisDimX, g.axisDimY), nil
}
