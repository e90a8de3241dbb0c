package domain

import (
	"strings"
	"time"
)

// DefaultSuccessDetail is reported when the gateway gives no message
const DefaultSuccessDetail = "Message sent successfully"

// DispatchResult is the outcome of sending to one recipient
type DispatchResult struct {
	Phone   string `json:"phone"`
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
}

// Line renders the result as one report line
func (r DispatchResult) Line() string {
	if r.Success {
		return r.Phone + ": ✅ Success - " + r.Detail
	}
	return r.Phone + ": ❌ Failed - " + r.Detail
}

// DispatchReport holds results in recipient input order
type DispatchReport struct {
	ID         string           `json:"id"`
	Kind       string           `json:"kind"`
	Results    []DispatchResult `json:"results"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Lines renders every result, one line per recipient
func (r *DispatchReport) Lines() []string {
	lines := make([]string, len(r.Results))
	for i, res := range r.Results {
		lines[i] = res.Line()
	}
	return lines
}

func (r *DispatchReport) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Counts returns how many sends succeeded and failed
func (r *DispatchReport) Counts() (succeeded, failed int) {
	for _, res := range r.Results {
		if res.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
