package dto

import "github.com/noah-isme/tutorbook-api/internal/repository"

// DebugOverviewResponse summarises store contents for diagnostics.
type DebugOverviewResponse struct {
	Driver string                 `json:"driver"`
	Counts repository.TableCounts `json:"counts"`
}
