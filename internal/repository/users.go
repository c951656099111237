package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err, "could not load user")
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err, "could not load user")
	}
	return &u, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).Where("rol = ?", role).Order("id").Find(&out).Error; err != nil {
		return nil, apperr.Internal(err, "could not list users")
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("email already in use")
		}
		return apperr.Internal(err, "could not create user")
	}
	return nil
}

// DeleteDriver removes a driver account together with its location history
// and clears it from any customer or route that pointed at it.
func (r *UserRepository) DeleteDriver(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("id = ? AND rol = ?", id, models.RoleDriver).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("driver not found")
			}
			return apperr.Internal(err, "could not load driver")
		}
		if err := tx.Where("transportista_id = ?", id).Delete(&models.LocationPing{}).Error; err != nil {
			return apperr.Internal(err, "could not delete driver locations")
		}
		if err := tx.Model(&models.Customer{}).Where("transportista_id = ?", id).
			Update("transportista_id", nil).Error; err != nil {
			return apperr.Internal(err, "could not clear driver assignments")
		}
		if err := tx.Model(&models.Route{}).Where("transportista_id = ?", id).
			Update("transportista_id", nil).Error; err != nil {
			return apperr.Internal(err, "could not clear driver routes")
		}
		if err := tx.Delete(&u).Error; err != nil {
			return apperr.Internal(err, "could not delete driver")
		}
		return nil
	})
}
