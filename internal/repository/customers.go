package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

// CustomerRepository persists customers and their orders.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return apperr.Internal(err, "could not create customer")
	}
	return nil
}

// List returns every customer with the assigned driver's email.
func (r *CustomerRepository) List(ctx context.Context) ([]models.CustomerView, error) {
	var out []models.CustomerView
	err := r.db.WithContext(ctx).
		Table("clientes AS c").
		Select("c.*, u.email AS transportista_email").
		Joins("LEFT JOIN usuarios u ON c.transportista_id = u.id").
		Order("c.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not list customers")
	}
	return out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, apperr.Internal(err, "could not load customer")
	}
	return &c, nil
}

// Update writes the given columns. Callers pass only allow-listed columns.
func (r *CustomerRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return apperr.Internal(res.Error, "could not update customer")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("customer not found")
	}
	return nil
}

// MarkDelivered moves a customer to delivered unless it already is.
// It reports whether this call performed the transition.
func (r *CustomerRepository) MarkDelivered(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ? AND estado <> ?", id, models.StatusDelivered).
		Update("estado", models.StatusDelivered)
	if res.Error != nil {
		return false, apperr.Internal(res.Error, "could not update delivery status")
	}
	return res.RowsAffected > 0, nil
}

func (r *CustomerRepository) AssignDriver(ctx context.Context, id, driverID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).
		Update("transportista_id", driverID)
	if res.Error != nil {
		return apperr.Internal(res.Error, "could not assign driver")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("customer not found")
	}
	return nil
}

func (r *CustomerRepository) SetPhoto(ctx context.Context, id uint, ref *string) error {
	return r.Update(ctx, id, map[string]interface{}{"foto_id": ref})
}

func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return apperr.Internal(res.Error, "could not delete customer")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("customer not found")
	}
	return nil
}

// OpenOrdersForOwner returns the undelivered orders owned by a customer login.
func (r *CustomerRepository) OpenOrdersForOwner(ctx context.Context, ownerID uint) ([]models.Customer, error) {
	var out []models.Customer
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado <> ?", ownerID, models.StatusDelivered).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "could not load customer orders")
	}
	return out, nil
}
