package dto

import "time"

type SubmissionCreateDTO struct {
	Title   string `json:"title" binding:"required"`
	Comment string `json:"comment"`
}

type SubmissionCreatedDTO struct {
	ID        uint      `json:"id"`
	Deadline  time.Time `json:"deadline"`
	Reviewers int       `json:"reviewers"`
}

// OwnSubmissionDTO is the submission as its author (or a teacher) sees it.
type OwnSubmissionDTO struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Comment        string             `json:"comment"`
	Locked         bool               `json:"locked"`
	Date           time.Time          `json:"date"`
	ReviewsDone    bool               `json:"reviewsDone"`
	NoReviews      bool               `json:"noReviews"`
	Points         *float64           `json:"points,omitempty"`
	MaxPoints      *float64           `json:"maxPoints,omitempty"`
	Firstname      *string            `json:"firstname,omitempty"`
	Lastname       *string            `json:"lastname,omitempty"`
	Reviews        []FullReviewDTO    `json:"reviews"`
	MissingReviews []MissingReviewDTO `json:"missingReviews,omitempty"`
}

// PeerSubmissionDTO is the trimmed view a reviewer gets. Fetching it locks
// the submission against further edits by its author.
type PeerSubmissionDTO struct {
	ID       uint           `json:"id"`
	Title    string         `json:"title"`
	Comment  string         `json:"comment"`
	Criteria []CriterionDTO `json:"criteria"`
}

// WorkshopSubmissionDTO is the listing entry for a student's submissions in
// one workshop.
type WorkshopSubmissionDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Locked      *bool     `json:"locked,omitempty"`
	StudentID   *uint     `json:"studentid,omitempty"`
	ReviewsDone bool      `json:"reviewsDone"`
	NoReviews   bool      `json:"noReviews"`
	Points      *float64  `json:"points,omitempty"`
	MaxPoints   *float64  `json:"maxPoints,omitempty"`
}
