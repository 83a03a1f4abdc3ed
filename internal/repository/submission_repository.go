package repository

import (
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	FindByID(id uint) (*model.Submission, error)
	FindByWorkshopAndStudent(workshopID, studentID uint) ([]model.Submission, error)
	CriteriaForSubmission(submissionID uint) ([]model.Criterion, error)
	Lock(submissionID uint) error
	IsOwner(submissionID, studentID uint) (bool, error)
	ExpiredIDsForReviewer(reviewerID uint, now time.Time) ([]uint, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByWorkshopAndStudent(workshopID, studentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("workshop_id = ? AND student_id = ?", workshopID, studentID).
		Order("date ASC").Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// CriteriaForSubmission resolves the criteria snapshot taken at creation time.
func (r *submissionRepository) CriteriaForSubmission(submissionID uint) ([]model.Criterion, error) {
	var criteria []model.Criterion
	err := r.db.Model(&model.Criterion{}).
		Joins("JOIN submission_criteria sc ON sc.criterion_id = criteria.id").
		Where("sc.submission_id = ?", submissionID).
		Order("criteria.id ASC").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}

func (r *submissionRepository) Lock(submissionID uint) error {
	return r.db.Model(&model.Submission{}).Where("id = ?", submissionID).Update("locked", true).Error
}

func (r *submissionRepository) IsOwner(submissionID, studentID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Submission{}).
		Where("id = ? AND student_id = ?", submissionID, studentID).
		Count(&count).Error
	return count > 0, err
}

// ExpiredIDsForReviewer lists submissions the reviewer is assigned to that
// are past their deadline but not yet closed.
func (r *submissionRepository) ExpiredIDsForReviewer(reviewerID uint, now time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Table("reviews r").
		Joins("JOIN submissions s ON s.id = r.submission_id").
		Where("r.reviewer_id = ? AND r.locked = ?", reviewerID, false).
		Where("s.reviews_done = ? AND s.deadline < ?", false, now).
		Where("r.deleted_at IS NULL AND s.deleted_at IS NULL").
		Distinct().
		Pluck("s.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
