package scoring

import (
	"math"

	"github.com/yourusername/hoopcast/internal/models"
)

// Predict calls a winner from the two scores. A gap below the threshold is
// no call; a gap exactly equal to the threshold is a confident call. A tie
// is never confident, whatever the threshold, including zero.
func Predict(homeScore, awayScore, threshold float64) models.Prediction {
	if homeScore == awayScore {
		return models.NoConfidentPrediction
	}
	if math.Abs(homeScore-awayScore) < threshold {
		return models.NoConfidentPrediction
	}
	if homeScore > awayScore {
		return models.PredictHome
	}
	return models.PredictAway
}
