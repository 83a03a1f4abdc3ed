package model

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Feedback     string         `json:"feedback" gorm:"type:text"`
	ReviewerID   *uint          `json:"reviewer_id,omitempty" gorm:"index"`
	SubmissionID uint           `json:"submission_id" gorm:"not null;index"`
	WorkshopID   uint           `json:"workshop_id" gorm:"not null;index"`
	Deadline     time.Time      `json:"deadline" gorm:"not null"`
	Done         bool           `json:"done" gorm:"not null;default:false"`
	Locked       bool           `json:"locked" gorm:"not null;default:false"`
	Error        bool           `json:"error" gorm:"not null;default:false"`
	Points       []ReviewPoint  `json:"points,omitempty" gorm:"foreignKey:ReviewID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReviewPoint holds the points a reviewer gave for one snapshot criterion.
// Points stays nil until the reviewer submits.
type ReviewPoint struct {
	ReviewID    uint     `gorm:"primaryKey" json:"review_id"`
	CriterionID uint     `gorm:"primaryKey" json:"criterion_id"`
	Points      *float64 `json:"points"`
}
