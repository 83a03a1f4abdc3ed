package model

import (
	"time"

	"gorm.io/gorm"
)

type Workshop struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	Title          string            `json:"title" gorm:"not null"`
	Content        string            `json:"content" gorm:"type:text"`
	End            time.Time         `json:"end" gorm:"column:end_date;not null"`
	ReviewTimespan int64             `json:"review_timespan" gorm:"not null"` // minutes
	Anonymous      bool              `json:"anonymous" gorm:"not null;default:false"`
	Criteria       []Criterion       `json:"criteria,omitempty" gorm:"foreignKey:WorkshopID"`
	Members        []WorkshopMember  `json:"members,omitempty" gorm:"foreignKey:WorkshopID"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

// ReviewDeadline computes the shared review deadline for a submission
// created at the given date.
func (w *Workshop) ReviewDeadline(date time.Time) time.Time {
	return date.Add(time.Duration(w.ReviewTimespan) * time.Minute)
}

// WorkshopMember relates a user to a workshop with the role they hold in it.
type WorkshopMember struct {
	WorkshopID uint   `gorm:"primaryKey" json:"workshop_id"`
	UserID     uint   `gorm:"primaryKey" json:"user_id"`
	Role       string `json:"role" gorm:"not null;index"`
}
