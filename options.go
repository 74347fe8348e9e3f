package gridgeom

type affineOpts struct {
	reverse []bool
	swapXY  bool
}

// AffineOption is an option that can be passed to NewAffineFromEnvelope,
// NewGridGeometryFromEnvelope and NewGridGeometry2DFromEnvelope
//
// Available AffineOptions are:
//
// • Reverse
//
// • SwapXY
type AffineOption interface {
	setAffineOpt(o *affineOpts)
}

// AxisInversionOption is an option that can be passed to GridGeometry.AreAxisInverted
//
// Available AxisInversionOptions are:
//
// • ErrLogger
type AxisInversionOption interface {
	setAxisInversionOpt(o *bestEffortOpts)
}

// InverseBoundsOption is an option that can be passed to GridGeometry2D.InverseTransformBounds
//
// Available InverseBoundsOptions are:
//
// • ErrLogger
type InverseBoundsOption interface {
	setInverseBoundsOpt(o *bestEffortOpts)
}

type reverseOpt struct {
	flags []bool
}

// Reverse flips the world axes for which flags[j] is true, i.e. the corresponding
// output row gets a negative scale anchored on the envelope maximum. A typical
// north-up raster uses Reverse(false, true).
//
// The number of flags must match the grid dimension.
func Reverse(flags ...bool) AffineOption {
	return reverseOpt{append([]bool(nil), flags...)}
}

func (ro reverseOpt) setAffineOpt(o *affineOpts) {
	o.reverse = ro.flags
}

type swapXYOpt struct{}

// SwapXY maps the first grid axis to the second world axis and vice versa.
// It requires a dimension of at least 2.
func SwapXY() AffineOption {
	return swapXYOpt{}
}

func (swapXYOpt) setAffineOpt(o *affineOpts) {
	o.swapXY = true
}
