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

// Separable is implemented by transforms that know how to restrict themselves to a
// subset of their source dimensions. It is the extension point used by Separate for
// transforms other than Affine.
//
// SubTransform returns the transform operating on the sourceDims coordinates only,
// along with the target dimensions it produces. If targetDims is non nil, the
// returned transform must produce exactly those target dimensions.
type Separable interface {
	SubTransform(sourceDims, targetDims []int) (Transform, []int, error)
}

// Separate extracts from t the sub-transform operating on the sourceDims
// coordinates. Dimension indices must be sorted in increasing order.
//
// If targetDims is nil, the target dimensions are the ones depending on at least
// one of the source dimensions. Otherwise the returned transform is pinned to the
// given target dimensions.
//
// It returns an error matching ErrNotSeparable if some retained target dimension
// depends on a source dimension that is not retained.
func Separate(t Transform, sourceDims, targetDims []int) (Transform, []int, error) {
	if err := checkDims(sourceDims, t.SourceDimensions()); err != nil {
		return nil, nil, fmt.Errorf("source dimensions: %w", err)
	}
	if targetDims != nil {
		if err := checkDims(targetDims, t.TargetDimensions()); err != nil {
			return nil, nil, fmt.Errorf("target dimensions: %w", err)
		}
	}
	switch tt := unwrap2D(t).(type) {
	case *Affine:
		return separateAffine(tt, sourceDims, targetDims)
	case Separable:
		return tt.SubTransform(sourceDims, targetDims)
	}
	if len(sourceDims) == t.SourceDimensions() && targetDims == nil {
		all := make([]int, t.TargetDimensions())
		for i := range all {
			all[i] = i
		}
		return t, all, nil
	}
	return nil, nil, fmt.Errorf("%w: %T does not support dimension filtering", ErrNotSeparable, t)
}

func checkDims(dims []int, n int) error {
	if len(dims) == 0 {
		return fmt.Errorf("%w: no dimension selected", ErrInvalidArgument)
	}
	for i, d := range dims {
		if d < 0 || d >= n {
			return fmt.Errorf("%w: dimension %d out of range [0,%d)", ErrInvalidArgument, d, n)
		}
		if i > 0 && d <= dims[i-1] {
			return fmt.Errorf("%w: dimensions must be sorted and unique", ErrInvalidArgument)
		}
	}
	return nil
}

func contains(dims []int, d int) bool {
	for _, v := range dims {
		if v == d {
			return true
		}
	}
	return false
}

func separateAffine(a *Affine, sourceDims, targetDims []int) (Transform, []int, error) {
	if targetDims == nil {
		for r := 0; r < a.dim; r++ {
			for _, c := range sourceDims {
				if a.m.At(r, c) != 0 {
					targetDims = append(targetDims, r)
					break
				}
			}
		}
	}
	if len(targetDims) != len(sourceDims) {
		return nil, targetDims, fmt.Errorf("%w: %d source dimensions map to %d target dimensions: %w",
			ErrNotSeparable, len(sourceDims), len(targetDims), ErrMismatchedDimension)
	}
	for _, r := range targetDims {
		for c := 0; c < a.dim; c++ {
			if !contains(sourceDims, c) && a.m.At(r, c) != 0 {
				return nil, nil, fmt.Errorf("%w: target dimension %d depends on source dimension %d",
					ErrNotSeparable, r, c)
			}
		}
	}
	n := len(sourceDims)
	m := mat.NewDense(n+1, n+1, nil)
	for i, r := range targetDims {
		for j, c := range sourceDims {
			m.Set(i, j, a.m.At(r, c))
		}
		m.Set(i, n, a.m.At(r, a.dim))
	}
	m.Set(n, n, 1)
	sub, err := NewAffine(m)
	if err != nil {
		return nil, nil, err
	}
	return sub, append([]int(nil), targetDims...), nil
}
