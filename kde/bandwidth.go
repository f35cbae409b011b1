package kde

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type BandWidth interface {
	BandWidth(sorted []float64, weights []float64) float64
}

// NormalReferenceBandWidth is Scott's rule scaled by the kernel's normal
// reference constant, with the robust A = min(std, IQR/1.349) spread.
type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGuassianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandWidth) BandWidth(sorted []float64, weights []float64) float64 {
	C := bw.kernel.NormalReferenceConstant()
	A := selectSigma(sorted, weights)
	n := len(sorted)
	return C * A * math.Pow(float64(n), -0.2)
}

func selectSigma(sorted []float64, weights []float64) float64 {
	if len(sorted) < 2 {
		return 0
	}

	q75 := stat.Quantile(0.75, stat.Empirical, sorted, weights)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, weights)
	iqr := (q75 - q25) / normalIQR

	stdDev := stat.StdDev(sorted, weights)

	if iqr > 0 {
		if stdDev < iqr {
			return stdDev
		}
		return iqr
	}
	return stdDev
}
