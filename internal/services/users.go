package services

import (
	"context"
	"strings"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

// UserStore is the account table.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
	DeleteDriver(ctx context.Context, id uint) error
}

// Credentials is a login or account creation payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Authenticate checks the password and returns the caller identity.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, in Credentials) (*models.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.InvalidInput("email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	role := models.NormalizeRole(u.Role)
	if role == "" {
		return nil, apperr.Unauthorized("account has no usable role")
	}
	return &models.Identity{ID: u.ID, Email: u.Email, Role: role}, nil
}

func (s *UserService) ListDrivers(ctx context.Context) ([]models.User, error) {
	out, err := s.users.ListByRole(ctx, models.RoleDriver)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

func (s *UserService) CreateDriver(ctx context.Context, in Credentials) (*models.User, error) {
	return s.create(ctx, in, models.RoleDriver)
}

func (s *UserService) DeleteDriver(ctx context.Context, id uint) error {
	if id == 0 {
		return apperr.InvalidInput("driver id is required")
	}
	if err := s.users.DeleteDriver(ctx, id); err != nil {
		return err
	}
	logrus.WithField("driver_id", id).Info("Driver deleted")
	return nil
}

// EnsureAdmin creates the bootstrap administrator unless the email is
// already taken. Empty credentials disable the bootstrap.
func (s *UserService) EnsureAdmin(ctx context.Context, in Credentials) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil
	}
	_, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	if _, err := s.create(ctx, in, models.RoleAdmin); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil
		}
		return err
	}
	logrus.WithField("email", in.Email).Info("Bootstrap admin created")
	return nil
}

func (s *UserService) create(ctx context.Context, in Credentials, role string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.InvalidInput("a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, apperr.InvalidInput("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "could not hash password")
	}
	u := &models.User{Email: email, Password: string(hash), Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
