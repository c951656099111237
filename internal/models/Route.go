package models

import "time"

// Route is a planned delivery run for one driver.
// Stops are ordered by Sequence.
type Route struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Description string     `gorm:"column:descripcion;type:text" json:"descripcion"`
	DriverID    *uint      `gorm:"column:transportista_id;index" json:"transportista_id"`
	Driver      *User      `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Status      string     `gorm:"column:estado;size:20;not null;default:activa" json:"estado"` // activa, completada, cancelada
	StartedAt   time.Time  `gorm:"column:fecha_inicio;autoCreateTime" json:"fecha_inicio"`
	FinishedAt  *time.Time `gorm:"column:fecha_fin" json:"fecha_fin"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Stops []RouteStop `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"detalles"`
}

func (Route) TableName() string { return "rutas" }

// RouteStop is one customer drop-off on a route.
type RouteStop struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RouteID     uint       `gorm:"column:ruta_id;not null;index" json:"ruta_id"`
	CustomerID  uint       `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Sequence    int        `gorm:"column:orden_entrega;not null" json:"orden_entrega"`
	Status      string     `gorm:"column:estado;size:20;not null;default:pendiente" json:"estado"`
	DeliveredAt *time.Time `gorm:"column:fecha_entrega" json:"fecha_entrega"`
	Notes       string     `gorm:"column:observaciones;type:text" json:"observaciones"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (RouteStop) TableName() string { return "detalles_ruta" }
