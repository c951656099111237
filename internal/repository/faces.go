package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

// FaceRepository stores reference samples and verification attempts.
type FaceRepository struct {
	db *gorm.DB
}

func NewFaceRepository(db *gorm.DB) *FaceRepository {
	return &FaceRepository{db: db}
}

func (r *FaceRepository) SampleByCustomer(ctx context.Context, customerID uint) (*models.FaceSample, error) {
	var s models.FaceSample
	err := r.db.WithContext(ctx).Where("cliente_id = ?", customerID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("face not registered")
		}
		return nil, apperr.Internal(err, "could not load face sample")
	}
	return &s, nil
}

// CreateSample inserts a sample; the unique index on cliente_id turns a
// concurrent second registration into a Conflict.
func (r *FaceRepository) CreateSample(ctx context.Context, s *models.FaceSample) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("customer already has a registered face")
		}
		return apperr.Internal(err, "could not save face sample")
	}
	return nil
}

func (r *FaceRepository) CreateAttempt(ctx context.Context, a *models.VerificationAttempt) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return apperr.Internal(err, "could not record verification")
	}
	return nil
}

// Attempts returns a customer's verifications, newest first.
func (r *FaceRepository) Attempts(ctx context.Context, customerID uint, limit int) ([]models.VerificationRecord, error) {
	var out []models.VerificationRecord
	err := r.db.WithContext(ctx).
		Table("verificaciones_faciales AS vf").
		Select("vf.*, c.nombre AS cliente_nombre, u.email AS transportista_email").
		Joins("JOIN clientes c ON vf.cliente_id = c.id").
		Joins("JOIN usuarios u ON vf.transportista_id = u.id").
		Where("vf.cliente_id = ?", customerID).
		Order("vf.fecha_verificacion DESC, vf.id DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not load verification history")
	}
	return out, nil
}
