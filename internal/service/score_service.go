package service

import (
	"math"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
)

// PointRange is the fixed per-criterion scale. Every criterion kind is
// converted onto 0..PointRange before weighting.
const PointRange = 10.0

// ScoredPoint is one reviewer's rating for one criterion.
type ScoredPoint struct {
	Weight float64
	Kind   string
	Points float64
}

// ScoreService converts heterogeneous per-criterion ratings into weighted
// points and aggregates them per submission. Pure, no I/O.
type ScoreService interface {
	WeightedPoints(point ScoredPoint) float64
	MaxPoints(criteria []model.Criterion) float64
	MeanPoints(reviews [][]ScoredPoint) (float64, bool)
}

type scoreService struct{}

func NewScoreService() ScoreService {
	return &scoreService{}
}

// WeightedPoints maps a raw rating onto the 0..PointRange scale and applies
// the criterion weight.
func (s *scoreService) WeightedPoints(point ScoredPoint) float64 {
	switch point.Kind {
	case model.KindPoint:
		return point.Points * point.Weight
	case model.KindGrade:
		// School grades, 1 is best. Out-of-range grades score zero.
		switch int64(math.Round(point.Points)) {
		case 1:
			return PointRange * point.Weight
		case 2:
			return PointRange * 0.8 * point.Weight
		case 3:
			return PointRange * 0.6 * point.Weight
		case 4:
			return PointRange * 0.5 * point.Weight
		default:
			return 0
		}
	case model.KindPercentage:
		return point.Points / 100.0 * PointRange * point.Weight
	case model.KindTrueFalse:
		if int64(math.Round(point.Points)) == 1 {
			return PointRange * point.Weight
		}
		return 0
	default:
		return 0
	}
}

// MaxPoints is the theoretical maximum over the submission's criteria
// snapshot. It does not depend on which reviews closed without error.
func (s *scoreService) MaxPoints(criteria []model.Criterion) float64 {
	var max float64
	for _, criterion := range criteria {
		max += PointRange * criterion.Weight
	}
	return max
}

// MeanPoints averages the weighted per-review sums. The second return value
// is false when there is no review to average over.
func (s *scoreService) MeanPoints(reviews [][]ScoredPoint) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	var mean float64
	for _, points := range reviews {
		var reviewPoints float64
		for _, point := range points {
			reviewPoints += s.WeightedPoints(point)
		}
		mean += reviewPoints
	}
	return mean / float64(len(reviews)), true
}
