package models

import "time"

// LocationPing is one GPS report from a driver. Rows are append-only.
type LocationPing struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DriverID   uint      `gorm:"column:transportista_id;not null;index:idx_pings_driver_time,priority:1" json:"transportista_id"`
	Driver     *User     `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Latitude   float64   `gorm:"column:latitud;not null" json:"latitud"`
	Longitude  float64   `gorm:"column:longitud;not null" json:"longitud"`
	Speed      float64   `gorm:"column:velocidad;not null;default:0" json:"velocidad"`
	Heading    string    `gorm:"column:direccion;size:255" json:"direccion"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index;index:idx_pings_driver_time,priority:2" json:"timestamp"`
}

func (LocationPing) TableName() string { return "ubicaciones_transportista" }

// NewerThan orders pings by timestamp, then insertion id.
func (p LocationPing) NewerThan(o LocationPing) bool {
	if !p.RecordedAt.Equal(o.RecordedAt) {
		return p.RecordedAt.After(o.RecordedAt)
	}
	return p.ID > o.ID
}

// DriverPing is a ping joined with the driver's email.
type DriverPing struct {
	LocationPing
	DriverEmail string `gorm:"column:transportista_email" json:"transportista_email"`
}
