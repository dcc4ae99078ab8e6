package rotate

import "math"

// SDOFResult holds the three time-domain sequences the recursive
// solver produces.
type SDOFResult struct {
	RelativeDisplacement []float64
	RelativeVelocity     []float64
	AbsoluteAcceleration []float64
	Dt                   float64 // sample interval actually used (may differ from input if resampled)
}

// SA returns max_t |absolute acceleration| — the spectral acceleration
// at the oscillator's period and damping.
func (r SDOFResult) SA() float64 {
	maxAbs := 0.0
	for _, v := range r.AbsoluteAcceleration {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// SDOF solves the single-degree-of-freedom oscillator response to
// ground acceleration a sampled at dt, for natural period T and
// damping fraction d, using the exact piecewise-linear-forcing
// recursive solution (Nigam & Jennings), with
// w = 2*pi/T, wd = w*sqrt(1-d^2), e = exp(-d*w*dt), sine = e*sin(wd*dt),
// cosine = e*cos(wd*dt).
//
// If dt is coarse relative to T per a literal criterion
// (floor(10*dt/T - 0.01) + 1 > 1), the input is resampled to a finer
// grid before solving and the result is reported at that finer rate.
func SDOF(a []float64, dt, T, d float64) SDOFResult {
	if needsResample(dt, T) {
		factor := resampleFactor(dt, T)
		a = upsampleLinear(a, factor)
		dt = dt / float64(factor)
	}

	w := 2 * math.Pi / T
	wd := w * math.Sqrt(1-d*d)
	e := math.Exp(-d * w * dt)
	sine := e * math.Sin(wd*dt)
	cosine := e * math.Cos(wd*dt)

	sqrt1d2 := math.Sqrt(1 - d*d)
	w2 := w * w

	// Displacement recurrence coefficients.
	A := cosine + (d/sqrt1d2)*sine
	B := sine / wd
	C := (1/w2)*(2*d/(w*dt)) +
		(1/w2)*(((1-2*d*d)/(wd*dt)-d/w)*sine-(1+2*d/(w*dt))*cosine)
	D := (1/w2)*(1-2*d/(w*dt)) +
		(1/w2)*((2*d*d-1)/(wd*dt)*sine+(2*d/(w*dt))*cosine)

	// Velocity recurrence coefficients.
	Ap := -(w / sqrt1d2) * sine
	Bp := cosine - (d/sqrt1d2)*sine
	Cp := -1/(w2*dt) +
		(1/w2)*((w/sqrt1d2+d/(dt*sqrt1d2))*sine+(1/dt)*cosine)
	Dp := 1/(w2*dt) -
		(1/(w2*dt))*((d/sqrt1d2)*sine+cosine)

	n := len(a)
	disp := make([]float64, n)
	vel := make([]float64, n)
	absAccel := make([]float64, n)

	for i := 1; i < n; i++ {
		p0, p1 := -a[i-1], -a[i]
		u0, v0 := disp[i-1], vel[i-1]

		u1 := A*u0 + B*v0 + C*p0 + D*p1
		v1 := Ap*u0 + Bp*v0 + Cp*p0 + Dp*p1

		disp[i] = u1
		vel[i] = v1
		absAccel[i] = -2*d*w*v1 - w2*u1
	}

	return SDOFResult{RelativeDisplacement: disp, RelativeVelocity: vel, AbsoluteAcceleration: absAccel, Dt: dt}
}

// needsResample applies the literal criterion:
// floor(10*dt/T - 0.01) + 1 > 1.
func needsResample(dt, T float64) bool {
	return math.Floor(10*dt/T-0.01)+1 > 1
}

// resampleFactor picks an integer upsample factor large enough that
// the criterion no longer triggers.
func resampleFactor(dt, T float64) int {
	factor := 1
	for needsResample(dt/float64(factor), T) {
		factor++
		if factor > 50 {
			break
		}
	}
	return factor
}

func upsampleLinear(x []float64, factor int) []float64 {
	if factor <= 1 {
		return x
	}
	n := len(x)
	out := make([]float64, (n-1)*factor+1)
	for i := 0; i < n-1; i++ {
		for k := 0; k < factor; k++ {
			frac := float64(k) / float64(factor)
			out[i*factor+k] = x[i]*(1-frac) + x[i+1]*frac
		}
	}
	out[len(out)-1] = x[n-1]
	return out
}
