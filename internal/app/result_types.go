package app

import "erp-core/internal/core"

// SeedResult is returned by SeedChart.
type SeedResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
}

// MovementListResult is returned by ListMovements.
type MovementListResult struct {
	Product   *core.Product        `json:"product"`
	Movements []core.StockMovement `json:"movements"`
}
