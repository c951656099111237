package models

import "time"

const (
	OutcomePassed = "exitoso"
	OutcomeFailed = "fallido"
)

// VerificationAttempt records a hand-off check performed by a driver.
type VerificationAttempt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	DriverID   uint      `gorm:"column:transportista_id;not null;index" json:"transportista_id"`
	Driver     *User     `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Confidence float64   `gorm:"column:confianza;not null" json:"confianza"`
	Passed     bool      `gorm:"column:verificado;not null" json:"verified"`
	Notes      string    `gorm:"column:observaciones;type:text" json:"observaciones"`
	VerifiedAt time.Time `gorm:"column:fecha_verificacion;not null;index" json:"fecha_verificacion"`
}

func (VerificationAttempt) TableName() string { return "verificaciones_faciales" }

func (v VerificationAttempt) Outcome() string {
	if v.Passed {
		return OutcomePassed
	}
	return OutcomeFailed
}

// VerificationRecord is an attempt joined with display identities.
type VerificationRecord struct {
	VerificationAttempt
	CustomerName string `gorm:"column:cliente_nombre" json:"cliente_nombre"`
	DriverEmail  string `gorm:"column:transportista_email" json:"transportista_email"`
	Result       string `gorm:"-" json:"resultado"`
}
