package repository

import (
	"context"

	"gorm.io/gorm"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// List returns every route with its stops in delivery order.
func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	var out []models.Route
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("orden_entrega") }).
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not list routes")
	}
	return out, nil
}
