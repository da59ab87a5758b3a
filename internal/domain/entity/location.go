package entity

import "time"

// Location ubicación física (pasillo, estante, bin) dentro de una bodega.
type Location struct {
	ID          string
	OrgID       string
	WarehouseID string
	Code        string
	Name        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
