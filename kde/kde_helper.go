package kde

import (
	"context"
	"fmt"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/utils"
	"go.uber.org/zap"
)

// CalculateQuantileValues smooths a predictive sample set with a KDE and
// returns its quantiles at the given levels, in level order.
func CalculateQuantileValues(ctx context.Context, samples []float64,
	levels []float64, bwAdjust float64) (res []*model.QuantileValue, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("CalculateQuantileValues recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.Int("sampleCnt", len(samples)))
			res, err = nil, fmt.Errorf("kde panic %v: %w", r, common.ErrorInvalidInput)
		}
	}()

	k, err := NewKDEUnivariate(samples, nil, bwAdjust)
	if err != nil {
		logger.Error("NewKDEUnivariate failed", zap.Error(err))
		return nil, err
	}

	res = make([]*model.QuantileValue, 0, len(levels))
	for _, level := range levels {
		quantile, err := k.Quantile(level)
		if err != nil {
			logger.Error("kde Quantile failed", zap.Error(err), zap.Float64("level", level))
			return nil, err
		}
		res = append(res, quantile)
	}

	return res, nil
}
