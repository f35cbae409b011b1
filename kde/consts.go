package kde

const (
	// KdeDefaultCut extends the support search past the extreme samples,
	// in units of bandwidth, so the kernel mass goes to zero.
	KdeDefaultCut = 4.0

	KdeDefaultBwAdjust = 1.0

	KdeQuantileMaxIter   = 100
	KdeQuantileTolerance = 1e-10

	// IQR of the standard normal distribution
	normalIQR = 1.349
)
