package analysis

import (
	"time"
)

// ID tipe for Analysis
type AnalysisID string

// ComplexityBounds value object: best/average/worst case expressions
// such as "O(n)". Fields hold the literal "N/A" when the model did not
// provide a value.
type ComplexityBounds struct {
	BestCase    string `json:"bestCase"`
	AverageCase string `json:"averageCase"`
	WorstCase   string `json:"worstCase"`
}

// Aggregate Root: Analysis
//
// An Analysis row exists only for a fully successful extraction; failed
// model calls and unparseable replies never reach the repository.
type Analysis struct {
	ID              AnalysisID       `json:"id"`
	OwnerID         string           `json:"owner_id"`
	SourceCode      string           `json:"code"`
	Language        string           `json:"language"`
	TimeComplexity  ComplexityBounds `json:"timeComplexity"`
	SpaceComplexity ComplexityBounds `json:"spaceComplexity"`
	Explanation     string           `json:"explanation"`
	RawResponse     string           `json:"rawResponse,omitempty"`
	ArchiveURL      string           `json:"archive_url,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}
