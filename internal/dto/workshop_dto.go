package dto

import "time"

type CriterionCreateDTO struct {
	Title   string  `json:"title" binding:"required"`
	Content string  `json:"content"`
	Weight  float64 `json:"weight" binding:"min=0"`
	Kind    string  `json:"type" binding:"required,oneof=point grade percentage truefalse"`
}

type WorkshopCreateDTO struct {
	Title          string               `json:"title" binding:"required"`
	Content        string               `json:"content"`
	End            time.Time            `json:"end" binding:"required"`
	ReviewTimespan int64                `json:"reviewTimespan" binding:"required,min=1"` // minutes
	Anonymous      bool                 `json:"anonymous"`
	Students       []uint               `json:"students" binding:"required"`
	Teachers       []uint               `json:"teachers"`
	Criteria       []CriterionCreateDTO `json:"criteria" binding:"dive"`
}

type WorkshopCreatedDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type CriterionDTO struct {
	ID      uint    `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Weight  float64 `json:"weight"`
	Kind    string  `json:"type"`
}
