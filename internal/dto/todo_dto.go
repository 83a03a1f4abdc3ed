package dto

import "time"

type TodoReviewDTO struct {
	ID           uint      `json:"id"`
	Done         bool      `json:"done"`
	Deadline     time.Time `json:"deadline"`
	Title        string    `json:"title"`
	Firstname    *string   `json:"firstname,omitempty"`
	Lastname     *string   `json:"lastname,omitempty"`
	Submission   uint      `json:"submission"`
	WorkshopName string    `json:"workshopName"`
}

type TodoSubmissionDTO struct {
	ID           uint   `json:"id"`
	WorkshopName string `json:"workshopName"`
}

// TodoDTO is the unresolved work of one student: reviews they still have to
// write and workshops they have not submitted to yet.
type TodoDTO struct {
	Reviews     []TodoReviewDTO     `json:"reviews"`
	Submissions []TodoSubmissionDTO `json:"submissions"`
}
