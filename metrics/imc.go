package metrics

import (
	"errors"
	"math"

	strongmotion "github.com/smcore/go-strongmotion"
	"github.com/smcore/go-strongmotion/rotate"
)

var errNoMetricFn = errors.New("rotd/gmrotd combination requires a metric function")

// IMC identifies one of component-combination rules.
type IMC string

const (
	IMCChannels                IMC = "channels"
	IMCGreaterOfTwoHorizontals IMC = "greater_of_two_horizontals"
	IMCGeometricMean           IMC = "geometric_mean"
	IMCArithmeticMean          IMC = "arithmetic_mean"
	IMCQuadraticMean           IMC = "quadratic_mean"
	IMCRotD                    IMC = "rotd"
	IMCGMRotD                  IMC = "gmrotd"
	IMCRadialTransverse        IMC = "radial_transverse"
)

// defaultOrthogonalToleranceDeg is the default tolerance (in degrees from 90)
// within which two horizontals are accepted as orthogonal for
// radial_transverse when the caller does not configure one explicitly:
// reject anything non-orthogonal unless told otherwise.
const defaultOrthogonalToleranceDeg = 0.0

// Combine reduces a scalar per-channel metric (PGA, PGV, PGD, or a
// peak computed upstream, e.g. max |SA_theta|) across the horizontals
// h1, h2 according to imc. rotdPercentile is used only for rotd/gmrotd.
// metricFn computes the scalar peak metric from a time series, used to
// re-derive rotd/gmrotd across rotation angles; it is nil for the
// algebraic combinations (mean family, greater-of-two), which operate
// directly on the already-computed per-channel scalars h1Val, h2Val.
func Combine(imc IMC, h1, h2 []float64, h1Val, h2Val float64, rotdPercentile float64, metricFn func([]float64) float64, orientation *OrientationCheck) (float64, error) {
	switch imc {
	case IMCGreaterOfTwoHorizontals:
		return math.Max(math.Abs(h1Val), math.Abs(h2Val)), nil
	case IMCGeometricMean:
		return math.Sqrt(math.Abs(h1Val) * math.Abs(h2Val)), nil
	case IMCArithmeticMean:
		return (h1Val + h2Val) / 2, nil
	case IMCQuadraticMean:
		return math.Sqrt((h1Val*h1Val + h2Val*h2Val) / 2), nil
	case IMCRotD:
		if metricFn == nil {
			return 0, strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "metrics.Combine", errNoMetricFn)
		}
		return rotate.RotD(h1, h2, rotdPercentile, metricFn), nil
	case IMCGMRotD:
		if metricFn == nil {
			return 0, strongmotion.NewClassifiedError(strongmotion.ClassStepInternal, "metrics.Combine", errNoMetricFn)
		}
		return rotate.GMRotD(h1, h2, rotdPercentile, metricFn), nil
	case IMCRadialTransverse:
		if orientation == nil || !orientation.withinTolerance() {
			return 0, strongmotion.NewClassifiedError(strongmotion.ClassValidation, "metrics.Combine", strongmotion.ErrNonOrthogonal)
		}
		radial := rotate.Rotate(h1, h2, orientation.RadialAngleRad())
		if metricFn != nil {
			return metricFn(radial), nil
		}
		return peakAbs(radial), nil
	default:
		return 0, strongmotion.NewClassifiedError(strongmotion.ClassValidation, "metrics.Combine", strongmotion.ErrInvalidEnum)
	}
}

// OrientationCheck captures the two horizontals' recorded azimuths and
// the great-circle azimuth from station to epicenter, needed to reject
// non-orthogonal inputs to radial_transverse: source readers deliver
// azimuths that are not exactly 90 degrees apart (e.g. 88/180), and
// this implementation rejects them unless a tolerance is explicitly
// configured.
type OrientationCheck struct {
	H1AzimuthDeg        float64
	H2AzimuthDeg        float64
	BackAzimuthDeg      float64 // station-to-epicenter azimuth, for the radial direction
	ToleranceDeg        float64 // 0 means "reject anything not exactly orthogonal"
	ToleranceConfigured bool
}

func (o *OrientationCheck) withinTolerance() bool {
	diff := math.Abs(angleDiff(o.H1AzimuthDeg, o.H2AzimuthDeg))
	offBy90 := math.Abs(diff - 90)
	if !o.ToleranceConfigured {
		return offBy90 <= defaultOrthogonalToleranceDeg
	}
	return offBy90 <= o.ToleranceDeg
}

// RadialAngleRad returns the rotation angle (radians) that projects H1
// onto the radial (station-to-source) direction.
func (o *OrientationCheck) RadialAngleRad() float64 {
	return (o.BackAzimuthDeg - o.H1AzimuthDeg) * math.Pi / 180
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(b-a+540, 360) - 180
	return d
}
