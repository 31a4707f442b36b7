package types

// Severity represents the severity level of an identified red flag
type Severity string

const (
	SeverityHigh    Severity = "High"
	SeverityMedium  Severity = "Medium"
	SeverityLow     Severity = "Low"
	SeverityUnknown Severity = "Unknown"
)

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityUnknown:
		return true
	default:
		return false
	}
}

// Normalize returns the severity, treating empty as SeverityUnknown
func (s Severity) Normalize() Severity {
	if s == "" {
		return SeverityUnknown
	}
	return s
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}
