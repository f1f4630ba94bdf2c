package trails

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

/* Kalman filter props, shared by every trail forecast */
// dt is one tick; the noise figures follow the filter library's reference
// tuning for pixel-space tracking.
const (
	forecastDt       = 1.0
	forecastUx       = 1.0
	forecastUy       = 1.0
	forecastStdDevA  = 2.0
	forecastStdDevMx = 0.1
	forecastStdDevMy = 0.1
)

// forecaster wraps a 2D Kalman filter predicting where a trail's blob should
// show up next tick. The forecast is advisory: recorded trail kinematics are
// EMA-based and never read the filter state.
type forecaster struct {
	kf        *kalman_filter.Kalman2D
	predicted Point
}

func newForecaster(start Point) *forecaster {
	kf := kalman_filter.NewKalman2D(forecastDt, forecastUx, forecastUy, forecastStdDevA, forecastStdDevMx, forecastStdDevMy, kalman_filter.WithState2D(start.X, start.Y))
	return &forecaster{
		kf:        kf,
		predicted: start,
	}
}

// predictNext executes the filter's first step (no re-evaluation of the state
// vector based on Kalman gain) and caches the predicted position.
func (f *forecaster) predictNext() Point {
	f.kf.Predict()
	stateX, stateY := f.kf.GetState()
	f.predicted.X = stateX
	f.predicted.Y = stateY
	return f.predicted
}

// correct executes the filter's second step against a matched blob centroid.
func (f *forecaster) correct(measurement Point) error {
	err := f.kf.Update(measurement.X, measurement.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update trail forecast")
	}
	return nil
}
