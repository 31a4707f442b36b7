package model

import "github.com/finsight-lab/finsight/pkg/domain/types"

// Classification is the transient result of guardrail query classification.
// Pattern records which rule matched, for audit logs and tests. Never
// persisted.
type Classification struct {
	Class   types.QueryClass
	Pattern string
}

// IsGuarded reports whether the class must be intercepted before any
// retrieval or model cost is incurred
func (c Classification) IsGuarded() bool {
	return c.Class != types.QueryClassGeneral
}
