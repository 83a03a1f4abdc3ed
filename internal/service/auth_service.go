package service

import (
	"fmt"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/config"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

type AuthService interface {
	Login(username, password string) (*dto.LoginResponseDTO, error)
	CreateUser(req dto.UserCreateDTO) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, jwtSecret: []byte(cfg.JWTSecret)}
}

func (s *authService) Login(username, password string) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, dberr.Wrap(dberr.NotFound, "invalid credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, dberr.New(dberr.NotFound, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("token signing failed: %w", err)
	}

	log.Info().Uint("userID", user.ID).Str("role", user.Role).Msg("User logged in")
	return &dto.LoginResponseDTO{
		Token:     token,
		ID:        user.ID,
		Username:  user.Username,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Role:      user.Role,
	}, nil
}

func (s *authService) CreateUser(req dto.UserCreateDTO) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}
	user := model.User{
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  string(hash),
		Role:      req.Role,
		Unit:      req.Unit,
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, dberr.Wrap(dberr.CreateFailed, "user insert failed", err)
	}
	return &user, nil
}
