package scoring

import (
	"context"

	"github.com/yourusername/hoopcast/internal/models"
)

// WeightStore persists scoring weights between runs. A run loads weights
// once at start and, when refinement is enabled, saves the refined set
// exactly once after the run completes.
type WeightStore interface {
	LoadWeights(ctx context.Context) (*models.ScoringWeights, error)
	SaveWeights(ctx context.Context, weights *models.ScoringWeights) error
}
