package kde

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

type Kernel interface {
	NormalReferenceConstant() float64
	// Shape is the kernel density at u, CumShape its cumulative distribution.
	Shape(u float64) float64
	CumShape(u float64) float64
}

type GuassianKernel struct {
	l2Norm                  float64
	kernelVar               float64
	order                   int
	normalReferenceConstant float64
}

func NewGuassianKernel() *GuassianKernel {
	return &GuassianKernel{
		l2Norm:                  1.0 / (2.0 * math.Sqrt(math.Pi)),
		kernelVar:               1.0,
		order:                   2,
		normalReferenceConstant: 0,
	}
}

func (k *GuassianKernel) Shape(u float64) float64 {
	return 0.3989422804014327 * math.Exp(-u*u/2.0)
}

func (k *GuassianKernel) CumShape(u float64) float64 {
	return distuv.UnitNormal.CDF(u)
}

func (k *GuassianKernel) NormalReferenceConstant() float64 {
	nu := k.order
	if k.normalReferenceConstant == 0 {
		numerator := math.Pow(math.Pi, 0.5) * math.Pow(factorial(nu), 3) * k.l2Norm
		denom := 2.0 * float64(nu) * factorial(2*nu) * math.Pow(k.Moments(nu), 2)
		C := 2 * math.Pow(numerator/denom, 1.0/float64(2*nu+1))
		k.normalReferenceConstant = C
	}
	return k.normalReferenceConstant
}

func (k *GuassianKernel) Moments(n int) float64 {
	if n == 1 {
		return 0
	}
	if n == 2 {
		return k.kernelVar
	}
	return 1.0
}
