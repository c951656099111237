package models

import "time"

// FaceSample is the single reference image kept per customer.
type FaceSample struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"column:cliente_id;uniqueIndex;not null" json:"cliente_id"`
	Customer     *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Image        string    `gorm:"column:imagen_rostro;type:text;not null" json:"-"` // base64
	Confidence   float64   `gorm:"column:confianza_deteccion;not null" json:"confianza"`
	RegisteredAt time.Time `gorm:"column:fecha_registro;autoCreateTime" json:"fecha_registro"`
}

func (FaceSample) TableName() string { return "rostros_clientes" }
