package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReviewService owns the reviewer-facing side of the state machine: a
// reviewer may (re)submit their review until the deadline locks it.
type ReviewService interface {
	UpdateReview(reviewID, reviewerID uint, req dto.ReviewUpdateDTO) error
	GetReview(reviewID uint, forceNames bool) (*dto.FullReviewDTO, error)
	IsOwner(reviewID, studentID uint) (bool, error)
	IsSubmissionOwner(reviewID, studentID uint) (bool, error)
}

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	submissionRepo repository.SubmissionRepository
	workshopRepo   repository.WorkshopRepository
	userRepo       repository.UserRepository
	closer         SubmissionCloserService
	db             *gorm.DB
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	submissionRepo repository.SubmissionRepository,
	workshopRepo repository.WorkshopRepository,
	userRepo repository.UserRepository,
	closer SubmissionCloserService,
	db *gorm.DB,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		submissionRepo: submissionRepo,
		workshopRepo:   workshopRepo,
		userRepo:       userRepo,
		closer:         closer,
		db:             db,
	}
}

// UpdateReview replaces the review's feedback and points. The supplied
// point set must cover the submission's criteria snapshot exactly; points
// are clamped to [0, weight*PointRange]. All-or-nothing.
func (s *reviewService) UpdateReview(reviewID, reviewerID uint, req dto.ReviewUpdateDTO) error {
	review, err := s.reviewRepo.FindByIDAndReviewer(reviewID, reviewerID)
	if err != nil {
		return dberr.Wrap(dberr.NotFound, fmt.Sprintf("review %d not found for reviewer %d", reviewID, reviewerID), err)
	}
	if time.Now().After(review.Deadline) {
		return dberr.New(dberr.PastDeadline, fmt.Sprintf("review %d deadline passed", reviewID))
	}

	criteria, err := s.submissionRepo.CriteriaForSubmission(review.SubmissionID)
	if err != nil {
		return dberr.Wrap(dberr.ReadFailed, "criteria snapshot read failed", err)
	}
	criteriaByID := make(map[uint]model.Criterion, len(criteria))
	for _, criterion := range criteria {
		criteriaByID[criterion.ID] = criterion
	}
	if len(req.Points) != len(criteria) {
		return dberr.New(dberr.Mismatch, "point set does not match criteria snapshot")
	}
	seen := make(map[uint]bool, len(req.Points))
	for _, point := range req.Points {
		if _, ok := criteriaByID[point.ID]; !ok || seen[point.ID] {
			return dberr.New(dberr.Mismatch, fmt.Sprintf("criterion %d not part of criteria snapshot", point.ID))
		}
		seen[point.ID] = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&model.ReviewPoint{}).Error; err != nil {
			return dberr.Wrap(dberr.DeleteFailed, "review point delete failed", err)
		}
		if len(req.Points) > 0 {
			points := make([]model.ReviewPoint, 0, len(req.Points))
			for _, point := range req.Points {
				value := clampPoints(point.Points, criteriaByID[point.ID].Weight)
				points = append(points, model.ReviewPoint{
					ReviewID:    reviewID,
					CriterionID: point.ID,
					Points:      &value,
				})
			}
			if err := tx.Create(&points).Error; err != nil {
				return dberr.Wrap(dberr.CreateFailed, "review point insert failed", err)
			}
		}
		err := tx.Model(&model.Review{}).Where("id = ?", reviewID).
			Updates(map[string]interface{}{"feedback": req.Feedback, "done": true}).Error
		if err != nil {
			return dberr.Wrap(dberr.UpdateFailed, "review update failed", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("reviewID", reviewID).Msg("Review update rolled back")
		return err
	}

	log.Info().Uint("reviewID", reviewID).Uint("reviewerID", reviewerID).Msg("Review submitted")
	return nil
}

func clampPoints(points, weight float64) float64 {
	if points < 0 {
		return 0
	}
	if max := weight * PointRange; points > max {
		return max
	}
	return points
}

// GetReview returns one review. Points are only included once the review is
// done and closed without error. With forceNames the reviewer identity is
// always included, otherwise the workshop's anonymous flag decides.
func (s *reviewService) GetReview(reviewID uint, forceNames bool) (*dto.FullReviewDTO, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, dberr.Wrap(dberr.NotFound, fmt.Sprintf("review %d not found", reviewID), err)
	}
	if err := s.closer.CloseIfExpired(review.SubmissionID); err != nil {
		return nil, err
	}
	// The close may have flipped done/error, re-read.
	review, err = s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "review read failed", err)
	}

	withNames := forceNames
	if !withNames {
		workshop, err := s.workshopRepo.FindByID(review.WorkshopID)
		if err != nil {
			return nil, dberr.Wrap(dberr.ReadFailed, "workshop read failed", err)
		}
		withNames = !workshop.Anonymous
	}

	resp := dto.FullReviewDTO{
		ID:           review.ID,
		Feedback:     review.Feedback,
		NotSubmitted: &review.Error,
		Points:       []dto.ReviewPointDTO{},
	}
	if review.Done && !review.Error {
		rows, err := s.reviewRepo.PointRows(reviewID)
		if err != nil {
			return nil, dberr.Wrap(dberr.ReadFailed, "review point read failed", err)
		}
		if err := copier.Copy(&resp.Points, &rows); err != nil {
			return nil, fmt.Errorf("error preparing review points: %w", err)
		}
	}
	if withNames && review.ReviewerID != nil {
		if reviewer, err := s.userRepo.FindByID(*review.ReviewerID); err == nil {
			resp.Firstname = &reviewer.Firstname
			resp.Lastname = &reviewer.Lastname
		}
	}
	return &resp, nil
}

func (s *reviewService) IsOwner(reviewID, studentID uint) (bool, error) {
	_, err := s.reviewRepo.FindByIDAndReviewer(reviewID, studentID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *reviewService) IsSubmissionOwner(reviewID, studentID uint) (bool, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.submissionRepo.IsOwner(review.SubmissionID, studentID)
}
