package service

import (
	"fmt"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService owns submission creation (criteria snapshot plus
// reviewer assignment, all-or-nothing) and the submission read views. Every
// read goes through the lazy close transition first.
type SubmissionService interface {
	Create(workshopID, studentID uint, req dto.SubmissionCreateDTO) (*dto.SubmissionCreatedDTO, error)
	GetOwnSubmission(submissionID uint) (*dto.OwnSubmissionDTO, error)
	GetTeacherSubmission(submissionID uint) (*dto.OwnSubmissionDTO, error)
	GetPeerSubmission(submissionID uint) (*dto.PeerSubmissionDTO, error)
	GetWorkshopSubmissions(workshopID, studentID uint, teacherView bool) ([]dto.WorkshopSubmissionDTO, error)
	IsOwner(submissionID, studentID uint) (bool, error)
	IsReviewer(submissionID, studentID uint) (bool, error)
}

type submissionService struct {
	workshopRepo   repository.WorkshopRepository
	submissionRepo repository.SubmissionRepository
	reviewRepo     repository.ReviewRepository
	userRepo       repository.UserRepository
	assigner       ReviewAssignmentService
	closer         SubmissionCloserService
	db             *gorm.DB
}

func NewSubmissionService(
	workshopRepo repository.WorkshopRepository,
	submissionRepo repository.SubmissionRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	assigner ReviewAssignmentService,
	closer SubmissionCloserService,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		workshopRepo:   workshopRepo,
		submissionRepo: submissionRepo,
		reviewRepo:     reviewRepo,
		userRepo:       userRepo,
		assigner:       assigner,
		closer:         closer,
		db:             db,
	}
}

// Create inserts the submission, snapshots the workshop's criteria onto it
// and assigns reviewers, in one transaction. No submission is ever
// persisted without its snapshot and reviews.
func (s *submissionService) Create(workshopID, studentID uint, req dto.SubmissionCreateDTO) (*dto.SubmissionCreatedDTO, error) {
	member, err := s.workshopRepo.IsMember(workshopID, studentID, model.RoleStudent)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "membership check failed", err)
	}
	if !member {
		return nil, dberr.New(dberr.NotFound, fmt.Sprintf("student %d not in workshop %d", studentID, workshopID))
	}
	workshop, err := s.workshopRepo.FindByID(workshopID)
	if err != nil {
		return nil, dberr.Wrap(dberr.NotFound, fmt.Sprintf("workshop %d not found", workshopID), err)
	}

	now := time.Now()
	deadline := workshop.ReviewDeadline(now)
	studentRef := studentID
	submission := model.Submission{
		Title:      req.Title,
		Comment:    req.Comment,
		StudentID:  &studentRef,
		WorkshopID: workshopID,
		Date:       now,
		Deadline:   deadline,
	}

	var reviewers int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return dberr.Wrap(dberr.CreateFailed, "submission insert failed", err)
		}

		// Criteria snapshot. An empty criteria list is allowed, the
		// submission just can never be point-graded.
		var criteria []model.Criterion
		if err := tx.Where("workshop_id = ?", workshopID).Find(&criteria).Error; err != nil {
			return dberr.Wrap(dberr.ReadFailed, "workshop criteria read failed", err)
		}
		if len(criteria) > 0 {
			snapshot := make([]model.SubmissionCriterion, 0, len(criteria))
			for _, criterion := range criteria {
				snapshot = append(snapshot, model.SubmissionCriterion{
					SubmissionID: submission.ID,
					CriterionID:  criterion.ID,
				})
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return dberr.Wrap(dberr.CreateFailed, "criteria snapshot insert failed", err)
			}
		}

		reviews, err := s.assigner.AssignReviewers(tx, workshopID, submission.ID, studentID, deadline)
		if err != nil {
			return err
		}
		reviewers = len(reviews)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("workshopID", workshopID).Uint("studentID", studentID).
			Msg("Submission creation rolled back")
		return nil, err
	}

	log.Info().Uint("submissionID", submission.ID).Int("reviewers", reviewers).Msg("Created submission")
	return &dto.SubmissionCreatedDTO{ID: submission.ID, Deadline: deadline, Reviewers: reviewers}, nil
}

func (s *submissionService) GetOwnSubmission(submissionID uint) (*dto.OwnSubmissionDTO, error) {
	return s.getFullSubmission(submissionID, false)
}

func (s *submissionService) GetTeacherSubmission(submissionID uint) (*dto.OwnSubmissionDTO, error) {
	return s.getFullSubmission(submissionID, true)
}

func (s *submissionService) getFullSubmission(submissionID uint, teacherView bool) (*dto.OwnSubmissionDTO, error) {
	if err := s.closer.CloseIfExpired(submissionID); err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		return nil, dberr.Wrap(dberr.NotFound, fmt.Sprintf("submission %d not found", submissionID), err)
	}
	workshop, err := s.workshopRepo.FindByID(submission.WorkshopID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "workshop read failed", err)
	}

	var resp dto.OwnSubmissionDTO
	if err := copier.Copy(&resp, submission); err != nil {
		return nil, fmt.Errorf("error preparing submission response: %w", err)
	}
	resp.ReviewsDone = submission.ReviewsDone
	resp.NoReviews = submission.MeanPoints == nil
	resp.Points = submission.MeanPoints
	resp.MaxPoints = submission.MaxPoints

	// Author identity. The account may have been removed in the meantime.
	if submission.StudentID != nil {
		if student, err := s.userRepo.FindByID(*submission.StudentID); err == nil {
			resp.Firstname = &student.Firstname
			resp.Lastname = &student.Lastname
		}
	}

	resp.Reviews = []dto.FullReviewDTO{}
	if submission.ReviewsDone {
		withNames := teacherView || !workshop.Anonymous
		reviews, err := s.fullReviews(submissionID, withNames)
		if err != nil {
			return nil, err
		}
		resp.Reviews = reviews

		if teacherView {
			rows, err := s.reviewRepo.ErroredReviewRows(submissionID)
			if err != nil {
				return nil, dberr.Wrap(dberr.ReadFailed, "missing review read failed", err)
			}
			missing := make([]dto.MissingReviewDTO, 0, len(rows))
			for _, row := range rows {
				missing = append(missing, dto.MissingReviewDTO{ID: row.ID, Firstname: row.Firstname, Lastname: row.Lastname})
			}
			resp.MissingReviews = missing
		}
	}
	return &resp, nil
}

// fullReviews assembles the non-error reviews of a closed submission.
func (s *submissionService) fullReviews(submissionID uint, withNames bool) ([]dto.FullReviewDTO, error) {
	reviews, err := s.reviewRepo.FindBySubmission(submissionID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "review read failed", err)
	}

	full := make([]dto.FullReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		if review.Error {
			continue
		}
		rows, err := s.reviewRepo.PointRows(review.ID)
		if err != nil {
			return nil, dberr.Wrap(dberr.ReadFailed, "review point read failed", err)
		}
		var points []dto.ReviewPointDTO
		if err := copier.Copy(&points, &rows); err != nil {
			return nil, fmt.Errorf("error preparing review points: %w", err)
		}

		reviewDTO := dto.FullReviewDTO{ID: review.ID, Feedback: review.Feedback, Points: points}
		if withNames && review.ReviewerID != nil {
			if reviewer, err := s.userRepo.FindByID(*review.ReviewerID); err == nil {
				reviewDTO.Firstname = &reviewer.Firstname
				reviewDTO.Lastname = &reviewer.Lastname
			}
		}
		full = append(full, reviewDTO)
	}
	return full, nil
}

// GetPeerSubmission returns the reviewer's view of a submission and locks
// it, so the author can no longer edit while reviews are being written.
func (s *submissionService) GetPeerSubmission(submissionID uint) (*dto.PeerSubmissionDTO, error) {
	if err := s.closer.CloseIfExpired(submissionID); err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		return nil, dberr.Wrap(dberr.NotFound, fmt.Sprintf("submission %d not found", submissionID), err)
	}
	if err := s.submissionRepo.Lock(submissionID); err != nil {
		return nil, dberr.Wrap(dberr.UpdateFailed, "submission lock failed", err)
	}

	criteria, err := s.submissionRepo.CriteriaForSubmission(submissionID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "criteria snapshot read failed", err)
	}
	var criteriaDTO []dto.CriterionDTO
	if err := copier.Copy(&criteriaDTO, &criteria); err != nil {
		return nil, fmt.Errorf("error preparing criteria response: %w", err)
	}

	return &dto.PeerSubmissionDTO{
		ID:       submission.ID,
		Title:    submission.Title,
		Comment:  submission.Comment,
		Criteria: criteriaDTO,
	}, nil
}

// GetWorkshopSubmissions lists one student's submissions in a workshop,
// closing expired ones first so points are up to date.
func (s *submissionService) GetWorkshopSubmissions(workshopID, studentID uint, teacherView bool) ([]dto.WorkshopSubmissionDTO, error) {
	submissions, err := s.submissionRepo.FindByWorkshopAndStudent(workshopID, studentID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "submission read failed", err)
	}
	for _, submission := range submissions {
		if err := s.closer.CloseIfExpired(submission.ID); err != nil {
			return nil, err
		}
	}
	submissions, err = s.submissionRepo.FindByWorkshopAndStudent(workshopID, studentID)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "submission read failed", err)
	}

	result := make([]dto.WorkshopSubmissionDTO, 0, len(submissions))
	for _, submission := range submissions {
		entry := dto.WorkshopSubmissionDTO{
			ID:          submission.ID,
			Title:       submission.Title,
			Date:        submission.Date,
			ReviewsDone: submission.ReviewsDone,
			NoReviews:   submission.MeanPoints == nil,
			Points:      submission.MeanPoints,
			MaxPoints:   submission.MaxPoints,
		}
		if teacherView {
			sid := studentID
			entry.StudentID = &sid
		} else {
			locked := submission.Locked
			entry.Locked = &locked
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *submissionService) IsOwner(submissionID, studentID uint) (bool, error) {
	return s.submissionRepo.IsOwner(submissionID, studentID)
}

func (s *submissionService) IsReviewer(submissionID, studentID uint) (bool, error) {
	return s.reviewRepo.IsReviewer(submissionID, studentID)
}
