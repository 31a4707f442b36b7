package types

// DocumentType represents the kind of source document a text chunk came from
type DocumentType string

const (
	DocumentAnnualReport DocumentType = "annual_report"
	DocumentEarningsCall DocumentType = "earnings_call"
	DocumentQuarterly    DocumentType = "quarterly_results"
	DocumentNews         DocumentType = "news"
	DocumentData         DocumentType = "data"
)

// IsValid checks if the document type is valid
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentAnnualReport,
		DocumentEarningsCall,
		DocumentQuarterly,
		DocumentNews,
		DocumentData:
		return true
	default:
		return false
	}
}

// Normalize returns the document type, treating empty as DocumentData
func (d DocumentType) Normalize() DocumentType {
	if d == "" {
		return DocumentData
	}
	return d
}

// String returns the string representation of the document type
func (d DocumentType) String() string {
	return string(d)
}
