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
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Affine is an N-dimensional affine transform, stored as a (N+1)x(N+1) homogeneous
// matrix whose last row is [0 ... 0 1].
//
// An Affine is immutable and safe for concurrent use.
type Affine struct {
	m   *mat.Dense
	dim int
}

var (
	_ Transform2D = (*Affine)(nil)
	_ Linear      = (*Affine)(nil)
)

// NewAffine creates an affine transform from its homogeneous matrix. The matrix is
// copied.
func NewAffine(m mat.Matrix) (*Affine, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: affine matrix must be square, got %dx%d", ErrInvalidArgument, r, c)
	}
	if r < 2 {
		return nil, fmt.Errorf("%w: affine matrix must be at least 2x2", ErrInvalidArgument)
	}
	d := r - 1
	for j := 0; j < d; j++ {
		if m.At(d, j) != 0 {
			return nil, fmt.Errorf("%w: last row must be [0 ... 0 1]", ErrNotAffine)
		}
	}
	if m.At(d, d) != 1 {
		return nil, fmt.Errorf("%w: last row must be [0 ... 0 1]", ErrNotAffine)
	}
	for i := 0; i < d; i++ {
		for j := 0; j <= d; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non finite coefficient at [%d,%d]", ErrInvalidArgument, i, j)
			}
		}
	}
	return &Affine{m: mat.DenseCopyOf(m), dim: d}, nil
}

// NewAffine2D creates the 2D transform
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
func NewAffine2D(a, b, c, d, e, f float64) (*Affine, error) {
	return NewAffine(mat.NewDense(3, 3, []float64{
		a, b, c,
		d, e, f,
		0, 0, 1,
	}))
}

// IdentityAffine returns the identity transform of the given dimension
func IdentityAffine(dim int) *Affine {
	m := mat.NewDense(dim+1, dim+1, nil)
	for i := 0; i <= dim; i++ {
		m.Set(i, i, 1)
	}
	return &Affine{m: m, dim: dim}
}

// SourceDimensions implements Transform
func (a *Affine) SourceDimensions() int {
	return a.dim
}

// TargetDimensions implements Transform
func (a *Affine) TargetDimensions() int {
	return a.dim
}

// At returns the homogeneous matrix coefficient at row i, column j
func (a *Affine) At(i, j int) float64 {
	return a.m.At(i, j)
}

// Matrix returns a copy of the homogeneous matrix
func (a *Affine) Matrix() *mat.Dense {
	return mat.DenseCopyOf(a.m)
}

// Transform implements Transform
func (a *Affine) Transform(src []float64) ([]float64, error) {
	if len(src) != a.dim {
		return nil, mismatched("point", len(src), a.dim)
	}
	dst := make([]float64, a.dim)
	for i := 0; i < a.dim; i++ {
		row := a.m.RawRowView(i)
		v := row[a.dim]
		for j := 0; j < a.dim; j++ {
			if row[j] != 0 {
				v += row[j] * src[j]
			}
		}
		dst[i] = v
	}
	return dst, nil
}

// Apply implements Transform2D. It fails if the transform is not 2D.
func (a *Affine) Apply(x, y float64) (float64, float64, error) {
	if a.dim != 2 {
		return 0, 0, mismatched("transform", a.dim, 2)
	}
	r0, r1 := a.m.RawRowView(0), a.m.RawRowView(1)
	return r0[0]*x + r0[1]*y + r0[2], r1[0]*x + r1[1]*y + r1[2], nil
}

// Derivative implements Transform. The jacobian of an affine transform is its
// linear part, whatever the point.
func (a *Affine) Derivative(pt []float64) (*mat.Dense, error) {
	if pt != nil && len(pt) != a.dim {
		return nil, mismatched("point", len(pt), a.dim)
	}
	j, _ := a.ConstantJacobian()
	return j, nil
}

// ConstantJacobian implements Linear
func (a *Affine) ConstantJacobian() (*mat.Dense, bool) {
	return mat.DenseCopyOf(a.m.Slice(0, a.dim, 0, a.dim)), true
}

// Inverse implements Transform
func (a *Affine) Inverse() (Transform, error) {
	inv, err := a.InverseAffine()
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// InverseAffine returns the inverse transform, or an error matching ErrNoninvertible
// if the linear part is singular. Ill-conditioned but regular transforms are
// inverted.
func (a *Affine) InverseAffine() (*Affine, error) {
	lin := a.m.Slice(0, a.dim, 0, a.dim)
	det := mat.Det(lin)
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, fmt.Errorf("%w: determinant is %v", ErrNoninvertible, det)
	}
	var ilin mat.Dense
	if err := ilin.Inverse(lin); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) || math.IsNaN(float64(cond)) {
			return nil, fmt.Errorf("%w: %v", ErrNoninvertible, err)
		}
	}
	for _, v := range ilin.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: inverse is not finite", ErrNoninvertible)
		}
	}
	m := mat.NewDense(a.dim+1, a.dim+1, nil)
	for i := 0; i < a.dim; i++ {
		off := 0.0
		for j := 0; j < a.dim; j++ {
			c := ilin.At(i, j)
			m.Set(i, j, c)
			if t := a.m.At(j, a.dim); c != 0 && t != 0 {
				off -= c * t
			}
		}
		m.Set(i, a.dim, off)
	}
	m.Set(a.dim, a.dim, 1)
	return &Affine{m: m, dim: a.dim}, nil
}

// IsIdentity returns true if the transform leaves every point unchanged
func (a *Affine) IsIdentity() bool {
	return mat.Equal(a.m, IdentityAffine(a.dim).m)
}

// Equal returns true if o is an affine transform with the same coefficients
func (a *Affine) Equal(o Transform) bool {
	oa, ok := unwrap2D(o).(*Affine)
	if !ok || oa == nil {
		return false
	}
	return a.dim == oa.dim && mat.Equal(a.m, oa.m)
}

// EqualApprox returns true if both transforms have the same dimension and their
// coefficients differ by at most tol
func (a *Affine) EqualApprox(o *Affine, tol float64) bool {
	return a.dim == o.dim && mat.EqualApprox(a.m, o.m, tol)
}

// Key returns an exact textual representation of the coefficients
func (a *Affine) Key() string {
	return a.String()
}

func (a *Affine) String() string {
	sb := strings.Builder{}
	sb.WriteString("Affine[")
	for i := 0; i <= a.dim; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('[')
		for j := 0; j <= a.dim; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(a.m.At(i, j), 'g', -1, 64))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
