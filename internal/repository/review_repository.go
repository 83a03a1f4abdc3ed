package repository

import (
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"gorm.io/gorm"
)

// PointRow joins one review-point row with its criterion data.
type PointRow struct {
	CriterionID uint
	Title       string
	Content     string
	Weight      float64
	Kind        string
	Points      float64
}

// TodoReviewRow carries the context a student needs for one open review.
type TodoReviewRow struct {
	ID              uint
	Done            bool
	Deadline        time.Time
	SubmissionID    uint
	SubmissionTitle string
	Firstname       *string
	Lastname        *string
	WorkshopID      uint
	WorkshopName    string
	Anonymous       bool
}

// MissingReviewRow identifies a review that closed without any points.
type MissingReviewRow struct {
	ID        uint
	Firstname *string
	Lastname  *string
}

type ReviewRepository interface {
	FindByID(id uint) (*model.Review, error)
	FindByIDAndReviewer(id, reviewerID uint) (*model.Review, error)
	FindBySubmission(submissionID uint) ([]model.Review, error)
	IsReviewer(submissionID, studentID uint) (bool, error)
	PointRows(reviewID uint) ([]PointRow, error)
	OpenReviewRows(studentID uint) ([]TodoReviewRow, error)
	ErroredReviewRows(submissionID uint) ([]MissingReviewRow, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByIDAndReviewer(id, reviewerID uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Where("id = ? AND reviewer_id = ?", id, reviewerID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindBySubmission(submissionID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.Where("submission_id = ?", submissionID).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) IsReviewer(submissionID, studentID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("submission_id = ? AND reviewer_id = ?", submissionID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) PointRows(reviewID uint) ([]PointRow, error) {
	var rows []PointRow
	err := r.db.Table("review_points rp").
		Select("rp.criterion_id AS criterion_id, c.title AS title, c.content AS content, c.weight AS weight, c.kind AS kind, rp.points AS points").
		Joins("JOIN criteria c ON c.id = rp.criterion_id").
		Where("rp.review_id = ?", reviewID).
		Order("rp.criterion_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OpenReviewRows lists every not-yet-locked review assigned to the student,
// joined with submission and workshop context. The reviewee user is joined
// optionally since the account may be gone.
func (r *reviewRepository) OpenReviewRows(studentID uint) ([]TodoReviewRow, error) {
	var rows []TodoReviewRow
	err := r.db.Table("reviews r").
		Select(`r.id AS id, r.done AS done, r.deadline AS deadline,
			s.id AS submission_id, s.title AS submission_title,
			u.firstname AS firstname, u.lastname AS lastname,
			w.id AS workshop_id, w.title AS workshop_name, w.anonymous AS anonymous`).
		Joins("JOIN submissions s ON s.id = r.submission_id").
		Joins("JOIN workshops w ON w.id = s.workshop_id").
		Joins("LEFT JOIN users u ON u.id = s.student_id AND u.deleted_at IS NULL").
		Where("r.reviewer_id = ? AND r.locked = ?", studentID, false).
		Where("r.deleted_at IS NULL AND s.deleted_at IS NULL AND w.deleted_at IS NULL").
		Order("r.deadline ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewRepository) ErroredReviewRows(submissionID uint) ([]MissingReviewRow, error) {
	var rows []MissingReviewRow
	err := r.db.Table("reviews r").
		Select("r.id AS id, u.firstname AS firstname, u.lastname AS lastname").
		Joins("LEFT JOIN users u ON u.id = r.reviewer_id AND u.deleted_at IS NULL").
		Where("r.submission_id = ? AND r.error = ?", submissionID, true).
		Where("r.deleted_at IS NULL").
		Order("r.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
