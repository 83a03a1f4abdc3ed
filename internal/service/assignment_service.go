package service

import (
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxReviewersPerSubmission caps how many peers review one submission.
const maxReviewersPerSubmission = 3

// ReviewAssignmentService picks the reviewers for a freshly created
// submission and creates their pending reviews. It runs inside the
// submission-creation transaction, so any failure rolls back the whole
// submission.
type ReviewAssignmentService interface {
	AssignReviewers(tx *gorm.DB, workshopID, submissionID, studentID uint, deadline time.Time) ([]model.Review, error)
}

type reviewAssignmentService struct{}

func NewReviewAssignmentService() ReviewAssignmentService {
	return &reviewAssignmentService{}
}

type reviewerCandidate struct {
	UserID     uint  `gorm:"column:user_id"`
	ReviewLoad int64 `gorm:"column:review_load"`
}

// AssignReviewers selects up to three student members of the workshop,
// excluding the submitter, ordered by their total review count descending
// with ascending user id as tie break. The count is not scoped to the
// workshop.
//
// TODO: ordering by review count descending picks the most-burdened
// reviewers; confirm with product whether this should be ascending.
func (s *reviewAssignmentService) AssignReviewers(tx *gorm.DB, workshopID, submissionID, studentID uint, deadline time.Time) ([]model.Review, error) {
	var candidates []reviewerCandidate
	err := tx.Table("workshop_members wm").
		Select("wm.user_id AS user_id, COUNT(r.id) AS review_load").
		Joins("LEFT JOIN reviews r ON r.reviewer_id = wm.user_id AND r.deleted_at IS NULL").
		Where("wm.workshop_id = ? AND wm.role = ? AND wm.user_id <> ?", workshopID, model.RoleStudent, studentID).
		Group("wm.user_id").
		Order("review_load DESC, wm.user_id ASC").
		Limit(maxReviewersPerSubmission).
		Scan(&candidates).Error
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "reviewer candidate query failed", err)
	}

	if len(candidates) == 0 {
		// No eligible peers. The submission will close with error=true once
		// its deadline passes.
		log.Warn().Uint("workshopID", workshopID).Uint("submissionID", submissionID).
			Msg("No reviewer candidates found for submission")
		return nil, nil
	}

	reviews := make([]model.Review, 0, len(candidates))
	for _, candidate := range candidates {
		reviewerID := candidate.UserID
		reviews = append(reviews, model.Review{
			Feedback:     "",
			ReviewerID:   &reviewerID,
			SubmissionID: submissionID,
			WorkshopID:   workshopID,
			Deadline:     deadline,
			Done:         false,
			Locked:       false,
			Error:        false,
		})
	}
	if err := tx.Create(&reviews).Error; err != nil {
		return nil, dberr.Wrap(dberr.CreateFailed, "review insert failed", err)
	}

	log.Info().Uint("submissionID", submissionID).Int("reviewers", len(reviews)).
		Time("deadline", deadline).Msg("Assigned reviewers to submission")
	return reviews, nil
}
