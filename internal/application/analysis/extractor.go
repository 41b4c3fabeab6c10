package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	domain "algolens/internal/domain/analysis"
)

// Fallbacks substituted for leaves the model left out.
const (
	fallbackValue       = "N/A"
	fallbackExplanation = "No explanation provided"
)

// Report is the structured payload recovered from one model reply.
type Report struct {
	TimeComplexity  domain.ComplexityBounds `json:"timeComplexity"`
	SpaceComplexity domain.ComplexityBounds `json:"spaceComplexity"`
	Explanation     string                  `json:"explanation"`
	RawResponse     string                  `json:"rawResponse"`
}

// Outcome is the uniform extraction result. Exactly one of Data/Error
// is set; callers must branch on Success before touching Data.
type Outcome struct {
	Success bool    `json:"success"`
	Data    *Report `json:"data,omitempty"`
	Error   string  `json:"error,omitempty"`

	// cause keeps the upstream error (if any) reachable for errors.Is
	// without leaking it past this layer as a raw return.
	cause error
}

// Failure folds an upstream error (model call, quota, network) into the
// same outcome shape a parse failure produces.
func Failure(err error) Outcome {
	msg := "failed to analyze code"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{Error: msg, cause: err}
}

// Err returns nil for a successful outcome, otherwise an error whose
// chain includes the upstream cause when there was one.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	if o.cause != nil {
		return fmt.Errorf("%s: %w", "analysis failed", o.cause)
	}
	return fmt.Errorf("analysis failed: %s", o.Error)
}

// fencedBlock matches a delimiter pair, optionally tagged as json, and
// captures the content between them.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Extract recovers a Report from raw model output.
//
// The reply may be bare JSON, JSON inside a fenced block surrounded by
// prose, or garbage. A fenced block wins over the full text. Malformed
// JSON syntax fails the whole call; a well-formed value with the wrong
// shape does not, every missing leaf is defaulted instead.
// RawResponse always carries the untouched input for auditing.
func Extract(raw string) Outcome {
	candidate := raw
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return Outcome{Error: fmt.Sprintf("could not parse model response as JSON: %v", err)}
	}

	obj, _ := v.(map[string]any)
	return Outcome{
		Success: true,
		Data: &Report{
			TimeComplexity:  boundsAt(obj, "time_complexity"),
			SpaceComplexity: boundsAt(obj, "space_complexity"),
			Explanation:     stringAt(obj, "explanation", fallbackExplanation),
			RawResponse:     raw,
		},
	}
}

func boundsAt(obj map[string]any, key string) domain.ComplexityBounds {
	nested, _ := obj[key].(map[string]any)
	return domain.ComplexityBounds{
		BestCase:    stringAt(nested, "best_case", fallbackValue),
		AverageCase: stringAt(nested, "average_case", fallbackValue),
		WorstCase:   stringAt(nested, "worst_case", fallbackValue),
	}
}

// stringAt reads a string leaf. Absent, non-string, or empty values all
// take the fallback, matching how the upstream consumer treated falsy
// fields.
func stringAt(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
