package model

import (
	"time"

	"gorm.io/gorm"
)

type Submission struct {
	ID          uint                  `gorm:"primarykey" json:"id"`
	Title       string                `json:"title" gorm:"not null"`
	Comment     string                `json:"comment" gorm:"type:text"`
	StudentID   *uint                 `json:"student_id,omitempty" gorm:"index"`
	WorkshopID  uint                  `json:"workshop_id" gorm:"not null;index"`
	Date        time.Time             `json:"date" gorm:"not null"`
	Deadline    time.Time             `json:"deadline" gorm:"not null;index"`
	Locked      bool                  `json:"locked" gorm:"not null;default:false"`
	ReviewsDone bool                  `json:"reviews_done" gorm:"not null;default:false"`
	Error       bool                  `json:"error" gorm:"not null;default:false"`
	MeanPoints  *float64              `json:"mean_points,omitempty"`
	MaxPoints   *float64              `json:"max_points,omitempty"`
	Criteria    []SubmissionCriterion `json:"criteria,omitempty" gorm:"foreignKey:SubmissionID"`
	Reviews     []Review              `json:"reviews,omitempty" gorm:"foreignKey:SubmissionID"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	DeletedAt   gorm.DeletedAt        `gorm:"index" json:"-"`
}

// SubmissionCriterion snapshots one workshop criterion onto a submission at
// creation time. The snapshot decouples a submission's rubric from later
// edits to the workshop's criteria list.
func (SubmissionCriterion) TableName() string { return "submission_criteria" }

type SubmissionCriterion struct {
	SubmissionID uint `gorm:"primaryKey" json:"submission_id"`
	CriterionID  uint `gorm:"primaryKey" json:"criterion_id"`
}
