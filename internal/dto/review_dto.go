package dto

type UpdatePointsDTO struct {
	ID     uint    `json:"id" binding:"required"`
	Points float64 `json:"points"`
}

type ReviewUpdateDTO struct {
	Feedback string            `json:"feedback"`
	Points   []UpdatePointsDTO `json:"points" binding:"required,dive"`
}

// ReviewPointDTO is one graded criterion inside a full review.
type ReviewPointDTO struct {
	CriterionID uint    `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Weight      float64 `json:"weight"`
	Kind        string  `json:"type"`
	Points      float64 `json:"points"`
}

type FullReviewDTO struct {
	ID           uint             `json:"id"`
	Firstname    *string          `json:"firstname,omitempty"`
	Lastname     *string          `json:"lastname,omitempty"`
	Feedback     string           `json:"feedback"`
	NotSubmitted *bool            `json:"notSubmitted,omitempty"`
	Points       []ReviewPointDTO `json:"points"`
}

type MissingReviewDTO struct {
	ID        uint    `json:"id"`
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
}
