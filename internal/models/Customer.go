package models

import "time"

// Customer is a delivery recipient together with their order.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Address   string         `gorm:"column:direccion;size:255;not null" json:"direccion"`
	Contact   string         `gorm:"column:contacto;size:50;not null" json:"contacto"`
	Order     string         `gorm:"column:pedido;type:text;not null" json:"pedido"`
	PhotoID   *string        `gorm:"column:foto_id;size:255" json:"fotoId"`
	Latitude  *float64       `gorm:"column:latitud" json:"latitud"`
	Longitude *float64       `gorm:"column:longitud" json:"longitud"`
	Status    DeliveryStatus `gorm:"column:estado;size:20;not null;default:pendiente;index" json:"estado"`

	DriverID *uint `gorm:"column:transportista_id;index" json:"transportista_id"`
	Driver   *User `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// OwnerUserID links the order to a customer login, when one exists.
	OwnerUserID *uint `gorm:"column:usuario_id;index" json:"usuario_id,omitempty"`
	Owner       *User `gorm:"foreignKey:OwnerUserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "clientes" }

// Open reports whether the order still awaits delivery.
func (c Customer) Open() bool { return c.Status != StatusDelivered }

// CustomerView is a customer joined with the assigned driver's email.
type CustomerView struct {
	Customer
	DriverEmail *string `gorm:"column:transportista_email" json:"transportista_email"`
}
