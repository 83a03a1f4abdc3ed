package service

import (
	"errors"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// errClosedConcurrently signals that another request finished the close
// first. The losing transaction rolls back and the caller treats it as done.
var errClosedConcurrently = errors.New("submission closed concurrently")

// SubmissionCloserService finalizes a submission once its deadline has
// passed. There is no scheduler; every read path that touches a submission,
// a review or a todo list calls CloseIfExpired first.
type SubmissionCloserService interface {
	CloseIfExpired(submissionID uint) error
}

type submissionCloserService struct {
	db       *gorm.DB
	scoreSvc ScoreService
}

func NewSubmissionCloserService(db *gorm.DB, scoreSvc ScoreService) SubmissionCloserService {
	return &submissionCloserService{db: db, scoreSvc: scoreSvc}
}

// CloseIfExpired is an idempotent no-op unless the submission is past its
// deadline and not yet processed. The whole close runs in one transaction;
// the final update re-checks reviews_done so concurrent callers cannot
// close twice.
func (s *submissionCloserService) CloseIfExpired(submissionID uint) error {
	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var submission model.Submission
		err := tx.Where("id = ? AND reviews_done = ? AND deadline < ?", submissionID, false, now).
			First(&submission).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already closed, still open, or missing. Nothing to do.
			return nil
		}
		if err != nil {
			return dberr.Wrap(dberr.ReadFailed, "submission read failed", err)
		}

		if !submission.Locked {
			if err := tx.Model(&model.Submission{}).Where("id = ?", submissionID).
				Update("locked", true).Error; err != nil {
				return dberr.Wrap(dberr.UpdateFailed, "submission lock failed", err)
			}
		}

		scored, err := s.closeReviews(tx, submissionID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"reviews_done": true}
		if mean, ok := s.scoreSvc.MeanPoints(scored); ok {
			criteria, err := snapshotCriteria(tx, submissionID)
			if err != nil {
				return dberr.Wrap(dberr.ReadFailed, "criteria snapshot read failed", err)
			}
			updates["mean_points"] = mean
			updates["max_points"] = s.scoreSvc.MaxPoints(criteria)
		} else {
			// Zero reviews survived: the submission cannot be graded. This
			// is a domain outcome, not a failure.
			updates["error"] = true
		}

		res := tx.Model(&model.Submission{}).
			Where("id = ? AND reviews_done = ?", submissionID, false).
			Updates(updates)
		if res.Error != nil {
			return dberr.Wrap(dberr.UpdateFailed, "submission close update failed", res.Error)
		}
		if res.RowsAffected == 0 {
			return errClosedConcurrently
		}

		log.Info().Uint("submissionID", submissionID).Bool("graded", updates["error"] == nil).
			Msg("Closed submission")
		return nil
	})
	if errors.Is(err, errClosedConcurrently) {
		return nil
	}
	return err
}

// closeReviews locks every review of the submission, marks reviews without
// recorded points as errored, and returns the scored points of the
// surviving reviews.
func (s *submissionCloserService) closeReviews(tx *gorm.DB, submissionID uint) ([][]ScoredPoint, error) {
	var reviews []model.Review
	if err := tx.Where("submission_id = ?", submissionID).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "review read failed", err)
	}

	var scored [][]ScoredPoint
	for _, review := range reviews {
		var pointCount int64
		if err := tx.Model(&model.ReviewPoint{}).Where("review_id = ?", review.ID).
			Count(&pointCount).Error; err != nil {
			return nil, dberr.Wrap(dberr.ReadFailed, "review point count failed", err)
		}
		reviewErr := pointCount == 0

		err := tx.Model(&model.Review{}).Where("id = ?", review.ID).
			Updates(map[string]interface{}{"done": true, "locked": true, "error": reviewErr}).Error
		if err != nil {
			return nil, dberr.Wrap(dberr.UpdateFailed, "review close failed", err)
		}
		if reviewErr {
			continue
		}

		var rows []struct {
			Weight float64
			Kind   string
			Points float64
		}
		err = tx.Table("review_points rp").
			Select("c.weight AS weight, c.kind AS kind, rp.points AS points").
			Joins("JOIN criteria c ON c.id = rp.criterion_id").
			Where("rp.review_id = ?", review.ID).
			Scan(&rows).Error
		if err != nil {
			return nil, dberr.Wrap(dberr.ReadFailed, "review point read failed", err)
		}
		points := make([]ScoredPoint, 0, len(rows))
		for _, row := range rows {
			points = append(points, ScoredPoint{Weight: row.Weight, Kind: row.Kind, Points: row.Points})
		}
		scored = append(scored, points)
	}
	return scored, nil
}

// snapshotCriteria loads the criteria snapshot of a submission inside the
// given transaction.
func snapshotCriteria(tx *gorm.DB, submissionID uint) ([]model.Criterion, error) {
	var criteria []model.Criterion
	err := tx.Model(&model.Criterion{}).
		Joins("JOIN submission_criteria sc ON sc.criterion_id = criteria.id").
		Where("sc.submission_id = ?", submissionID).
		Order("criteria.id ASC").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}
