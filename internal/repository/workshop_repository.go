package repository

import (
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"gorm.io/gorm"
)

type WorkshopRepository interface {
	Create(workshop *model.Workshop) error
	FindByID(id uint) (*model.Workshop, error)
	FindByIDWithCriteria(id uint) (*model.Workshop, error)
	CriteriaByWorkshop(workshopID uint) ([]model.Criterion, error)
	IsMember(workshopID, userID uint, role string) (bool, error)
	SubmittableWorkshops(studentID uint, now time.Time) ([]model.Workshop, error)
}

type workshopRepository struct {
	db *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) WorkshopRepository {
	return &workshopRepository{db: db}
}

func (r *workshopRepository) Create(workshop *model.Workshop) error {
	// GORM creates associated criteria and member rows in one go.
	return r.db.Create(workshop).Error
}

func (r *workshopRepository) FindByID(id uint) (*model.Workshop, error) {
	var workshop model.Workshop
	if err := r.db.First(&workshop, id).Error; err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (r *workshopRepository) FindByIDWithCriteria(id uint) (*model.Workshop, error) {
	var workshop model.Workshop
	if err := r.db.Preload("Criteria").First(&workshop, id).Error; err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (r *workshopRepository) CriteriaByWorkshop(workshopID uint) ([]model.Criterion, error) {
	var criteria []model.Criterion
	if err := r.db.Where("workshop_id = ?", workshopID).Order("id ASC").Find(&criteria).Error; err != nil {
		return nil, err
	}
	return criteria, nil
}

func (r *workshopRepository) IsMember(workshopID, userID uint, role string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WorkshopMember{}).
		Where("workshop_id = ? AND user_id = ? AND role = ?", workshopID, userID, role).
		Count(&count).Error
	return count > 0, err
}

// SubmittableWorkshops lists workshops the student belongs to that are still
// open for submission and where they have not submitted yet.
func (r *workshopRepository) SubmittableWorkshops(studentID uint, now time.Time) ([]model.Workshop, error) {
	var workshops []model.Workshop
	err := r.db.
		Joins("JOIN workshop_members wm ON wm.workshop_id = workshops.id").
		Where("wm.user_id = ? AND wm.role = ?", studentID, model.RoleStudent).
		Where("workshops.end_date >= ?", now).
		Where("NOT EXISTS (SELECT 1 FROM submissions s WHERE s.workshop_id = workshops.id AND s.student_id = ? AND s.deleted_at IS NULL)", studentID).
		Find(&workshops).Error
	if err != nil {
		return nil, err
	}
	return workshops, nil
}
