package curve

// BasisFunc is a blending polynomial weighting a single control point's
// contribution at segment parameter u. Values of u outside [0,1] are extrapolated.
type BasisFunc func(u float32) float32

// Level is the polynomial degree of a curve's segments.
type Level int

const (
	Quadratic Level = 2
	Cubic     Level = 3
)

func (l Level) String() string {
	switch l {
	case Quadratic:
		return "quadratic"
	case Cubic:
		return "cubic"
	}
	return "Level(invalid)"
}

func (l Level) valid() bool { return l == Quadratic || l == Cubic }

// Bernstein polynomials.

var (
	bezierQuadratic = []BasisFunc{
		func(u float32) float32 { return (1 - u) * (1 - u) },
		func(u float32) float32 { return 2 * u * (1 - u) },
		func(u float32) float32 { return u * u },
	}
	bezierQuadraticDer = []BasisFunc{
		func(u float32) float32 { return -2 + 2*u },
		func(u float32) float32 { return 2 - 4*u },
		func(u float32) float32 { return 2 * u },
	}
	bezierCubic = []BasisFunc{
		func(u float32) float32 { return (1 - u) * (1 - u) * (1 - u) },
		func(u float32) float32 { return 3 * (1 - u) * (1 - u) * u },
		func(u float32) float32 { return 3 * (1 - u) * u * u },
		func(u float32) float32 { return u * u * u },
	}
	bezierCubicDer = []BasisFunc{
		func(u float32) float32 { return -3*u*u + 6*u - 3 },
		func(u float32) float32 { return 9*u*u - 12*u + 3 },
		func(u float32) float32 { return -9*u*u + 6*u },
		func(u float32) float32 { return 3 * u * u },
	}
)

// Uniform B-spline blending matrix rows.

var (
	bsplineQuadratic = []BasisFunc{
		func(u float32) float32 { return 0.5 * (1 - u) * (1 - u) },
		func(u float32) float32 { return 0.5 + u*(1-u) },
		func(u float32) float32 { return 0.5 * u * u },
	}
	bsplineQuadraticDer = []BasisFunc{
		func(u float32) float32 { return -1 + u },
		func(u float32) float32 { return 1 - 2*u },
		func(u float32) float32 { return u },
	}
	bsplineCubic = []BasisFunc{
		func(u float32) float32 { return (1 - 3*u + 3*u*u - u*u*u) / 6 },
		func(u float32) float32 { return (4 - 6*u*u + 3*u*u*u) / 6 },
		func(u float32) float32 { return (1 + 3*u + 3*u*u - 3*u*u*u) / 6 },
		func(u float32) float32 { return u * u * u / 6 },
	}
	bsplineCubicDer = []BasisFunc{
		func(u float32) float32 { return (-3 + 6*u - 3*u*u) / 6 },
		func(u float32) float32 { return (-12*u + 9*u*u) / 6 },
		func(u float32) float32 { return (3 + 6*u - 9*u*u) / 6 },
		func(u float32) float32 { return 3 * u * u / 6 },
	}
)
