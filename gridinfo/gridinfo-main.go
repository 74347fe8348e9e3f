package main

import (
	"fmt"
	"io"
	"os"

	"github.com/airbusgeo/gridgeom"
	"github.com/spf13/cobra"
)

// request is a parsed command line
type request struct {
	lower, upper []int
	min, max     []float64
	reverse      []bool
	swap         bool

	size []int
	gt   []float64

	point     []float64
	bounds    []float64
	blockSize []int
}

// extentBounds returns the grid extent bounds. --size counts cells from --lower.
func (r request) extentBounds() (lower, upper []int, err error) {
	switch {
	case r.upper != nil && r.size != nil:
		return nil, nil, fmt.Errorf("--upper and --size are mutually exclusive")
	case r.upper == nil && r.size == nil:
		return nil, nil, fmt.Errorf("one of --upper, --size or --geotransform is required")
	}
	n := len(r.upper) + len(r.size)
	lower = r.lower
	if lower == nil {
		lower = make([]int, n)
	}
	if len(lower) != n {
		return nil, nil, fmt.Errorf("--lower has %d values, expected %d", len(lower), n)
	}
	if r.upper != nil {
		return lower, r.upper, nil
	}
	upper = make([]int, n)
	for i := range upper {
		upper[i] = lower[i] + r.size[i]
	}
	return lower, upper, nil
}

func (r request) geometry() (*gridgeom.GridGeometry, error) {
	if r.gt != nil {
		if len(r.size) != 2 {
			return nil, fmt.Errorf("--geotransform requires a 2D --size")
		}
		var gt [6]float64
		copy(gt[:], r.gt)
		g, err := gridgeom.NewGridGeometry2DFromGeoTransform(r.size[0], r.size[1], gt)
		if err != nil {
			return nil, err
		}
		return &g.GridGeometry, nil
	}
	lower, upper, err := r.extentBounds()
	if err != nil {
		return nil, err
	}
	extent, err := gridgeom.NewGridExtent(lower, upper)
	if err != nil {
		return nil, fmt.Errorf("grid extent: %w", err)
	}
	if r.min == nil && r.max == nil {
		return gridgeom.NewGridGeometry(&extent, nil)
	}
	env, err := gridgeom.NewEnvelope(r.min, r.max)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	var opts []gridgeom.AffineOption
	if r.reverse != nil {
		opts = append(opts, gridgeom.Reverse(r.reverse...))
	}
	if r.swap {
		opts = append(opts, gridgeom.SwapXY())
	}
	return gridgeom.NewGridGeometryFromEnvelope(extent, env, opts...)
}

func describe(w io.Writer, r request) error {
	g, err := r.geometry()
	if err != nil {
		return err
	}
	warn := gridgeom.ErrLogger(func(err error) {
		fmt.Fprintf(w, "warning: %v\n", err)
	})
	dim, _ := g.Dimension()
	fmt.Fprintf(w, "dimension: %d\n", dim)
	if extent, err := g.GridRange(); err == nil {
		fmt.Fprintf(w, "grid range: %s\n", extent)
	}
	gt, gtErr := g.GridToWorld()
	if gtErr != nil {
		fmt.Fprintln(w, "grid to world: unknown")
	} else {
		fmt.Fprintf(w, "grid to world: %v\n", gt)
		if env, err := g.Envelope(); err == nil {
			fmt.Fprintf(w, "envelope: %s\n", env)
		} else {
			fmt.Fprintf(w, "warning: %v\n", err)
		}
		if inv, ok := g.AreAxisInverted(warn); ok {
			fmt.Fprintf(w, "axis inversion: %v\n", inv)
		}
	}

	var extent *gridgeom.GridExtent
	if e, err := g.GridRange(); err == nil {
		extent = &e
	}
	var tr gridgeom.Transform
	if gtErr == nil {
		tr = gt
	}
	g2, err := gridgeom.NewGridGeometry2D(extent, tr)
	if err != nil {
		fmt.Fprintf(w, "no 2D restriction: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "2D grid axes: %d,%d\n", g2.GridDimensionX(), g2.GridDimensionY())
	fmt.Fprintf(w, "2D world axes: %d,%d\n", g2.AxisDimensionX(), g2.AxisDimensionY())
	if gdal, err := g2.GeoTransform(); err == nil {
		fmt.Fprintf(w, "geotransform: %v\n", gdal)
	}
	if r.point != nil {
		p := gridgeom.Point{X: r.point[0], Y: r.point[1]}
		q, err := g2.InverseTransform(p)
		if err != nil {
			return err
		}
		x, y, err := g2.InverseTransformCell(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "point %s: grid %s, cell %d,%d\n", p, q, x, y)
	}
	if r.bounds != nil {
		var b gridgeom.Bounds
		copy(b[:], r.bounds)
		rect, ok := g2.InverseTransformBounds(b, warn)
		if !ok {
			fmt.Fprintf(w, "bounds %v: no result\n", b)
			return nil
		}
		fmt.Fprintf(w, "bounds %v: %s\n", b, rect)
		win, err := g2.InverseTransformWindow(b)
		if err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			return nil
		}
		if full, err := g2.GridRange2D(); err == nil {
			win = win.Intersect(full)
		}
		fmt.Fprintf(w, "pixels: %s\n", win)
		if r.blockSize != nil {
			describeBlocks(w, win, r.blockSize[0], r.blockSize[1])
		}
	}
	return nil
}

func describeBlocks(w io.Writer, win gridgeom.GridRect, bw, bh int) {
	cx, cy := gridgeom.BlockCount(win, bw, bh)
	fmt.Fprintf(w, "blocks: %dx%d\n", cx, cy)
	for bl, ok := gridgeom.FirstBlock(win, bw, bh); ok; bl, ok = bl.Next() {
		fmt.Fprintf(w, "block %d,%d: %s\n", bl.BlockX, bl.BlockY, bl.GridRect)
	}
}

func expectLen(flag string, n int, got int) error {
	if got != 0 && got != n {
		return fmt.Errorf("--%s: expected %d comma separated values, got %d", flag, n, got)
	}
	return nil
}

// check validates the number of values of the fixed size lists
func (r request) check() error {
	if err := expectLen("geotransform", 6, len(r.gt)); err != nil {
		return err
	}
	if err := expectLen("point", 2, len(r.point)); err != nil {
		return err
	}
	if err := expectLen("bounds", 4, len(r.bounds)); err != nil {
		return err
	}
	if err := expectLen("blocksize", 2, len(r.blockSize)); err != nil {
		return err
	}
	if r.blockSize != nil && (r.blockSize[0] <= 0 || r.blockSize[1] <= 0) {
		return fmt.Errorf("--blocksize: block sizes must be strictly positive")
	}
	return nil
}

func newInfoCommand() *cobra.Command {
	r := &request{}
	cmd := &cobra.Command{
		Use:   "gridinfo [flags]",
		Short: "describe the grid geometry of a raster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.check(); err != nil {
				return err
			}
			return describe(cmd.OutOrStdout(), *r)
		},
	}
	cmd.Flags().IntSliceVar(&r.lower, "lower", nil, "grid lower bounds, e.g. 0,0 (defaults to zeros)")
	cmd.Flags().IntSliceVar(&r.upper, "upper", nil, "grid exclusive upper bounds, e.g. 4,4")
	cmd.Flags().IntSliceVarP(&r.size, "size", "s", nil, "grid size, counted from --lower, e.g. 100,50")
	cmd.Flags().Float64SliceVar(&r.min, "min", nil, "world envelope minimum, e.g. 0,0")
	cmd.Flags().Float64SliceVar(&r.max, "max", nil, "world envelope maximum, e.g. 8,8")
	cmd.Flags().BoolSliceVarP(&r.reverse, "reverse", "r", nil, "per axis reversal flags, e.g. false,true")
	cmd.Flags().BoolVar(&r.swap, "swap", false, "swap the first two axes")
	cmd.Flags().Float64SliceVarP(&r.gt, "geotransform", "g", nil, "GDAL geotransform x0,a,b,y0,d,e (requires --size)")
	cmd.Flags().Float64SliceVarP(&r.point, "point", "p", nil, "world point x,y to convert to grid coordinates")
	cmd.Flags().Float64SliceVarP(&r.bounds, "bounds", "b", nil, "world bounds minx,miny,maxx,maxy to convert to a pixel window")
	cmd.Flags().IntSliceVar(&r.blockSize, "blocksize", nil, "raster block size x,y, to list the blocks touched by --bounds")
	return cmd
}

func main() {
	err := newInfoCommand().Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
