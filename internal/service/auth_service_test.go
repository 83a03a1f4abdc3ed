package service

import (
	"testing"

	"github.com/IPRP/Peer-Review-Platform-Backend/config"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

func newAuthService(t *testing.T) (AuthService, *config.Config) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewAuthService(repository.NewUserRepository(db), cfg), cfg
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, cfg := newAuthService(t)

	_, err := svc.CreateUser(dto.UserCreateDTO{
		Username:  "alice",
		Firstname: "Alice",
		Lastname:  "Doe",
		Password:  "correct horse",
		Role:      model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	resp, err := svc.Login("alice", "correct horse")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Username != "alice" || resp.Role != model.RoleStudent {
		t.Errorf("login response = %+v", resp)
	}

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not validate: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("token claims have unexpected type")
	}
	if claims["role"] != model.RoleStudent {
		t.Errorf("token role = %v, want %s", claims["role"], model.RoleStudent)
	}
	if uint(claims["sub"].(float64)) != resp.ID {
		t.Errorf("token sub = %v, want %d", claims["sub"], resp.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.CreateUser(dto.UserCreateDTO{
		Username:  "bob",
		Firstname: "Bob",
		Lastname:  "Doe",
		Password:  "hunter22222",
		Role:      model.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "bob", "wrong"},
		{"unknown user", "nobody", "hunter22222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(tt.username, tt.password)
			if !dberr.IsKind(err, dberr.NotFound) {
				t.Errorf("Login error = %v, want kind %s", err, dberr.NotFound)
			}
		})
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.CreateUser(dto.UserCreateDTO{
		Username:  "carol",
		Firstname: "Carol",
		Lastname:  "Doe",
		Password:  "plaintext-pw",
		Role:      model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Password == "plaintext-pw" {
		t.Error("password stored in plaintext")
	}
}
