package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

const pingOrder = "recorded_at DESC, id DESC"

// LocationRepository is the append-only ping log.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, p *models.LocationPing) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Internal(err, "could not save location")
	}
	return nil
}

// History returns a driver's most recent pings, newest first.
func (r *LocationRepository) History(ctx context.Context, driverID uint, limit int) ([]models.LocationPing, error) {
	var out []models.LocationPing
	err := r.db.WithContext(ctx).
		Where("transportista_id = ?", driverID).
		Order(pingOrder).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not load location history")
	}
	return out, nil
}

// Recent returns the newest pings across all drivers with the driver email.
func (r *LocationRepository) Recent(ctx context.Context, limit int) ([]models.DriverPing, error) {
	var out []models.DriverPing
	err := r.joined(ctx).
		Order("ut.recorded_at DESC, ut.id DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not load recent locations")
	}
	return out, nil
}

// PingedDriverIDs lists every driver that has ever reported a location.
func (r *LocationRepository) PingedDriverIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.LocationPing{}).
		Distinct("transportista_id").
		Pluck("transportista_id", &ids).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not list tracked drivers")
	}
	return ids, nil
}

// Since returns the pings of the given drivers recorded at or after since.
func (r *LocationRepository) Since(ctx context.Context, driverIDs []uint, since time.Time) ([]models.DriverPing, error) {
	if len(driverIDs) == 0 {
		return nil, nil
	}
	var out []models.DriverPing
	err := r.joined(ctx).
		Where("ut.transportista_id IN ? AND ut.recorded_at >= ?", driverIDs, since).
		Order("ut.transportista_id, ut.recorded_at DESC, ut.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not load assigned locations")
	}
	return out, nil
}

func (r *LocationRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("ubicaciones_transportista AS ut").
		Select("ut.*, u.email AS transportista_email").
		Joins("JOIN usuarios u ON ut.transportista_id = u.id")
}
