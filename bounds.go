package gridgeom

import (
	"fmt"
	"math"
)

// Bounds represents an envelope in the order minx,miny,maxx,maxy
type Bounds [4]float64

func (b Bounds) MinX() float64 {
	return b[0]
}

func (b Bounds) MinY() float64 {
	return b[1]
}

func (b Bounds) MaxX() float64 {
	return b[2]
}

func (b Bounds) MaxY() float64 {
	return b[3]
}

func (b Bounds) Width() float64 {
	return b[2] - b[0]
}

func (b Bounds) Height() float64 {
	return b[3] - b[1]
}

// Union returns the union of these bounds with other ones
func (b Bounds) Union(other Bounds) Bounds {
	return [4]float64{
		math.Min(b.MinX(), other.MinX()),
		math.Min(b.MinY(), other.MinY()),
		math.Max(b.MaxX(), other.MaxX()),
		math.Max(b.MaxY(), other.MaxY()),
	}
}

// Intersects returns whether both bounds share at least one point
func (b Bounds) Intersects(other Bounds) bool {
	return b.MinX() <= other.MaxX() && other.MinX() <= b.MaxX() &&
		b.MinY() <= other.MaxY() && other.MinY() <= b.MaxY()
}

// Point is a 2D coordinate, either in grid or in world space
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return formatPoint([]float64{p.X, p.Y})
}

// GridRect is a window of grid cells, starting at cell X0,Y0 and spanning W,H cells.
type GridRect struct {
	X0, Y0 int
	W, H   int
}

// X1 returns the exclusive upper x index
func (r GridRect) X1() int {
	return r.X0 + r.W
}

// Y1 returns the exclusive upper y index
func (r GridRect) Y1() int {
	return r.Y0 + r.H
}

// Empty returns true if the window does not contain any cell
func (r GridRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the cells shared by both windows. The result is Empty if
// they are disjoint.
func (r GridRect) Intersect(other GridRect) GridRect {
	x0, y0 := max(r.X0, other.X0), max(r.Y0, other.Y0)
	x1, y1 := min(r.X1(), other.X1()), min(r.Y1(), other.Y1())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return GridRect{X0: x0, Y0: y0, W: x1 - x0, H: y1 - y0}
}

func (r GridRect) String() string {
	return fmt.Sprintf("GridRect(x0: %d, y0: %d, w: %d, h: %d)", r.X0, r.Y0, r.W, r.H)
}

// outwardCells returns floor(min-0.5) and ceil(max-0.5) as cell indices
func outwardCells(min, max float64) (lo, hi int, ok bool) {
	lo, okl := toIndex(math.Floor(min - 0.5))
	hi, okh := toIndex(math.Ceil(max - 0.5))
	return lo, hi, okl && okh
}

// cellIndex returns the index of the cell containing grid coordinate v
func cellIndex(v float64) (int, bool) {
	return toIndex(math.Floor(v + 0.5))
}

// cellSpan returns the cells [lo,hi) intersecting the grid coordinate range
// [min,max]. A range reduced to a point yields the cell containing it.
func cellSpan(min, max float64) (lo, hi int, ok bool) {
	lo, okl := cellIndex(min)
	hi, okh := toIndex(math.Ceil(max + 0.5))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi, okl && okh
}

func toIndex(f float64) (int, bool) {
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
