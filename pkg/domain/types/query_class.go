package types

import "fmt"

// QueryClass represents the guardrail classification of an incoming query
type QueryClass string

const (
	QueryClassGreeting   QueryClass = "greeting"
	QueryClassAdvisory   QueryClass = "advisory"
	QueryClassPredictive QueryClass = "predictive"
	QueryClassGeneral    QueryClass = "general"
)

// AllQueryClasses returns all valid query classes in cascade priority order
func AllQueryClasses() []QueryClass {
	return []QueryClass{
		QueryClassGreeting,
		QueryClassAdvisory,
		QueryClassPredictive,
		QueryClassGeneral,
	}
}

// IsValid checks if the query class is valid
func (c QueryClass) IsValid() bool {
	switch c {
	case QueryClassGreeting,
		QueryClassAdvisory,
		QueryClassPredictive,
		QueryClassGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the query class
func (c QueryClass) String() string {
	return string(c)
}

// ParseQueryClass parses a string into a QueryClass
func ParseQueryClass(s string) (QueryClass, error) {
	class := QueryClass(s)
	if !class.IsValid() {
		return "", fmt.Errorf("invalid query class: %s", s)
	}
	return class, nil
}
