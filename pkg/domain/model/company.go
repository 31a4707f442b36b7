package model

import (
	"strings"
	"time"
)

// Company represents a listed company tracked by the system.
// Companies are created by ingestion and read-only to the query pipeline.
type Company struct {
	Symbol    string // Unique key, stored upper-case
	Name      string
	Sector    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeSymbol converts a company symbol to its canonical upper-case form
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// DisplayName returns the company name, falling back to the symbol
func (c *Company) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Symbol
}

// SectorOrUnknown returns the sector, treating empty as "Unknown"
func (c *Company) SectorOrUnknown() string {
	if c.Sector == "" {
		return "Unknown"
	}
	return c.Sector
}
