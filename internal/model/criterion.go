package model

import (
	"time"

	"gorm.io/gorm"
)

// Criterion kinds. Each kind has its own conversion rule onto the fixed
// 0-10 point range, see service.ScoreService.
const (
	KindPoint      = "point"
	KindGrade      = "grade"
	KindPercentage = "percentage"
	KindTrueFalse  = "truefalse"
)

// TableName pins the irregular plural that gorm's pluralizer misses.
func (Criterion) TableName() string { return "criteria" }

type Criterion struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	WorkshopID uint           `json:"workshop_id" gorm:"not null;index"`
	Title      string         `json:"title" gorm:"not null"`
	Content    string         `json:"content" gorm:"type:text"`
	Weight     float64        `json:"weight" gorm:"not null"`
	Kind       string         `json:"type" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
