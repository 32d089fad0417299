package model

import "time"

// Cliente is a registered customer. Correo is unique; Edad is never negative.
type Cliente struct {
	RUT            string `gorm:"column:rut_clie;primaryKey;size:12"`
	Nombre         string `gorm:"not null"`
	Correo         string `gorm:"uniqueIndex;not null"`
	ContrasenaHash string `gorm:"not null"`
	Direccion      string
	Edad           int `gorm:"not null;check:edad >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Cliente) TableName() string { return "clientes" }
