package service

import (
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// TodoService projects a student's unresolved work. Querying it is also
// the main trigger for the lazy close transition: every expired submission
// the student reviews gets closed before the projection is read.
type TodoService interface {
	GetTodo(studentID uint) (*dto.TodoDTO, error)
}

type todoService struct {
	submissionRepo repository.SubmissionRepository
	reviewRepo     repository.ReviewRepository
	workshopRepo   repository.WorkshopRepository
	closer         SubmissionCloserService
}

func NewTodoService(
	submissionRepo repository.SubmissionRepository,
	reviewRepo repository.ReviewRepository,
	workshopRepo repository.WorkshopRepository,
	closer SubmissionCloserService,
) TodoService {
	return &todoService{
		submissionRepo: submissionRepo,
		reviewRepo:     reviewRepo,
		workshopRepo:   workshopRepo,
		closer:         closer,
	}
}

func (s *todoService) GetTodo(studentID uint) (*dto.TodoDTO, error) {
	now := time.Now()

	// Resolve expired work first so the projection below is current.
	expired, err := s.submissionRepo.ExpiredIDsForReviewer(studentID, now)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "expired submission query failed", err)
	}
	for _, submissionID := range expired {
		if err := s.closer.CloseIfExpired(submissionID); err != nil {
			return nil, dberr.Wrap(dberr.UpdateFailed, "could not process finished submissions", err)
		}
	}
	if len(expired) > 0 {
		log.Info().Uint("studentID", studentID).Int("closed", len(expired)).
			Msg("Closed expired submissions on todo read")
	}

	rows, err := s.reviewRepo.OpenReviewRows(studentID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "open review query failed", err)
	}
	reviews := make([]dto.TodoReviewDTO, 0, len(rows))
	for _, row := range rows {
		entry := dto.TodoReviewDTO{
			ID:           row.ID,
			Done:         row.Done,
			Deadline:     row.Deadline,
			Title:        row.SubmissionTitle,
			Submission:   row.SubmissionID,
			WorkshopName: row.WorkshopName,
		}
		if !row.Anonymous {
			entry.Firstname = row.Firstname
			entry.Lastname = row.Lastname
		}
		reviews = append(reviews, entry)
	}

	workshops, err := s.workshopRepo.SubmittableWorkshops(studentID, now)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "submittable workshop query failed", err)
	}
	submissions := make([]dto.TodoSubmissionDTO, 0, len(workshops))
	for _, workshop := range workshops {
		submissions = append(submissions, dto.TodoSubmissionDTO{ID: workshop.ID, WorkshopName: workshop.Title})
	}

	return &dto.TodoDTO{Reviews: reviews, Submissions: submissions}, nil
}
