package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un material.
const (
	MaterialStatusActive   = "active"
	MaterialStatusInactive = "inactive"
	MaterialStatusCanceled = "canceled"
)

// Material representa un artículo del catálogo (materia prima o producto).
type Material struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Code        string
	EAN         string
	Price       decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Shelf representa un estante/ubicación física de almacenamiento.
type Shelf struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
}
