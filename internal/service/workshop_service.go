package service

import (
	"fmt"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// WorkshopService covers the teacher-side setup the review engine needs:
// a workshop with grading criteria and a member list.
type WorkshopService interface {
	CreateWorkshop(req dto.WorkshopCreateDTO) (*dto.WorkshopCreatedDTO, error)
}

type workshopService struct {
	workshopRepo repository.WorkshopRepository
	userRepo     repository.UserRepository
}

func NewWorkshopService(workshopRepo repository.WorkshopRepository, userRepo repository.UserRepository) WorkshopService {
	return &workshopService{workshopRepo: workshopRepo, userRepo: userRepo}
}

func (s *workshopService) CreateWorkshop(req dto.WorkshopCreateDTO) (*dto.WorkshopCreatedDTO, error) {
	memberIDs := append(append([]uint{}, req.Students...), req.Teachers...)
	users, err := s.userRepo.FindByIDs(memberIDs)
	if err != nil {
		return nil, dberr.Wrap(dberr.ReadFailed, "member lookup failed", err)
	}
	if len(users) != len(memberIDs) {
		return nil, dberr.New(dberr.NotFound, fmt.Sprintf("%d of %d members not found", len(memberIDs)-len(users), len(memberIDs)))
	}

	members := make([]model.WorkshopMember, 0, len(memberIDs))
	for _, id := range req.Students {
		members = append(members, model.WorkshopMember{UserID: id, Role: model.RoleStudent})
	}
	for _, id := range req.Teachers {
		members = append(members, model.WorkshopMember{UserID: id, Role: model.RoleTeacher})
	}

	criteria := make([]model.Criterion, 0, len(req.Criteria))
	for _, criterion := range req.Criteria {
		criteria = append(criteria, model.Criterion{
			Title:   criterion.Title,
			Content: criterion.Content,
			Weight:  criterion.Weight,
			Kind:    criterion.Kind,
		})
	}

	workshop := model.Workshop{
		Title:          req.Title,
		Content:        req.Content,
		End:            req.End,
		ReviewTimespan: req.ReviewTimespan,
		Anonymous:      req.Anonymous,
		Criteria:       criteria,
		Members:        members,
	}
	if err := s.workshopRepo.Create(&workshop); err != nil {
		return nil, dberr.Wrap(dberr.CreateFailed, "workshop insert failed", err)
	}

	log.Info().Uint("workshopID", workshop.ID).Int("members", len(members)).
		Int("criteria", len(criteria)).Msg("Created workshop")
	return &dto.WorkshopCreatedDTO{ID: workshop.ID, Title: workshop.Title}, nil
}
