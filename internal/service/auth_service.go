package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the login gate. It hands out Principals and never issues
// session tokens itself.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (Principal, error)
	// Resolve re-reads username so a presented token maps to the user's
	// current role.
	Resolve(ctx context.Context, username string) (Principal, error)
	CreateUser(ctx context.Context, operator Principal, req dto.CreateUserRequest) (*dto.UserResponse, error)
	// EnsureUser creates username or resets its password and role. It is
	// meant for local bootstrap commands and has no authorization check.
	EnsureUser(ctx context.Context, username, password string, role model.Role) (*dto.UserResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	cost      int
	dummyHash []byte
}

// NewAuthService hashes a throwaway password once so that logins for unknown
// usernames pay the same bcrypt cost as real ones.
func NewAuthService(repo repository.UserRepository, bcryptCost int) (AuthService, error) {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &authService{repo: repo, cost: bcryptCost, dummyHash: dummy}, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, storeErr("authenticate", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		log.Warn().Str("username", username).Msg("auth: failed login")
		return Principal{}, &AuthError{}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("auth: failed login")
		return Principal{}, &AuthError{}
	}
	if !user.Role.Valid() {
		log.Error().Str("username", username).Str("role", string(user.Role)).Msg("auth: stored role is not recognised")
		return Principal{}, &AuthError{}
	}

	log.Info().Str("username", username).Str("role", string(user.Role)).Msg("auth: login")
	return principalFor(user), nil
}

func (s *authService) Resolve(ctx context.Context, username string) (Principal, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, &AuthError{}
		}
		return Principal{}, storeErr("resolve user", err)
	}
	if !user.Role.Valid() {
		return Principal{}, &AuthError{}
	}
	return principalFor(user), nil
}

func (s *authService) CreateUser(ctx context.Context, operator Principal, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := operator.require("create users"); err != nil {
		return nil, err
	}
	if err := validateCredentials(req.Username, req.Password, model.Role(req.Role)); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Role:         model.Role(req.Role),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, &ValidationError{Field: "username", Reason: "already taken"}
		}
		return nil, storeErr("create user", err)
	}
	log.Info().Str("username", user.Username).Str("role", string(user.Role)).
		Str("operator", operator.Username()).Msg("auth: user created")
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) EnsureUser(ctx context.Context, username, password string, role model.Role) (*dto.UserResponse, error) {
	if err := validateCredentials(username, password, role); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)

	user, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{Username: username, PasswordHash: hash, Role: role}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, storeErr("create user", err)
		}
	case err != nil:
		return nil, storeErr("find user", err)
	default:
		user.PasswordHash = hash
		user.Role = role
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, storeErr("update user", err)
		}
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateCredentials(username, password string, role model.Role) error {
	switch {
	case strings.TrimSpace(username) == "":
		return &ValidationError{Field: "username", Reason: "required"}
	case len(password) < 8:
		return &ValidationError{Field: "password", Reason: "at least 8 characters"}
	case len(password) > 72:
		return &ValidationError{Field: "password", Reason: "at most 72 bytes"}
	case !role.Valid():
		return &ValidationError{Field: "role", Reason: "must be goods_receiving, sales or admin"}
	}
	return nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID.String(), Username: u.Username, Role: string(u.Role)}
}
