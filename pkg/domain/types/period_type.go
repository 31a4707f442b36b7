package types

// PeriodType represents the reporting period of a financial metric
type PeriodType string

const (
	PeriodQuarterly PeriodType = "quarterly"
	PeriodAnnual    PeriodType = "annual"
	PeriodTTM       PeriodType = "ttm"
	PeriodCurrent   PeriodType = "current"
)

// IsValid checks if the period type is valid
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodQuarterly, PeriodAnnual, PeriodTTM, PeriodCurrent:
		return true
	default:
		return false
	}
}

// Normalize returns the period type, treating empty as PeriodCurrent
func (p PeriodType) Normalize() PeriodType {
	if p == "" {
		return PeriodCurrent
	}
	return p
}

// String returns the string representation of the period type
func (p PeriodType) String() string {
	return string(p)
}
