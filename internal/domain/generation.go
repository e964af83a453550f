package domain

import (
	"encoding/json"
	"time"
)

// GenerationStatus enumerates generation lifecycle states. Transitions only
// move forward: starting -> processing -> one terminal state.
type GenerationStatus string

const (
	StatusStarting   GenerationStatus = "starting"
	StatusProcessing GenerationStatus = "processing"
	StatusSucceeded  GenerationStatus = "succeeded"
	StatusFailed     GenerationStatus = "failed"
	StatusCanceled   GenerationStatus = "canceled"
)

var statusRank = map[GenerationStatus]int{
	StatusStarting:   0,
	StatusProcessing: 1,
	StatusSucceeded:  2,
	StatusFailed:     2,
	StatusCanceled:   2,
}

// Terminal reports whether s is a final state.
func (s GenerationStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCanceled
}

// CanAdvance reports whether moving from s to next respects the forward-only
// ordering. Re-asserting the current state is allowed; going back is not.
func (s GenerationStatus) CanAdvance(next GenerationStatus) bool {
	if s.Terminal() {
		return false
	}
	return statusRank[next] >= statusRank[s]
}

// Generation is one user-submitted request driven through the provider.
// Output is raw JSON: either a single reference string or an ordered array,
// holding remote URLs until materialization rewrites them to local paths.
type Generation struct {
	ID            string
	OwnerID       string
	ModelID       string // provider "owner/model-name" id
	ModelName     string
	Prompt        string
	Category      ModelCategory
	Status        GenerationStatus
	ProviderJobID string
	Output        json.RawMessage
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OutputRefs decodes Output into an ordered reference list. A scalar output
// yields a one-element list; absent or malformed output yields nil.
func (g *Generation) OutputRefs() []string {
	if len(g.Output) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(g.Output, &single); err == nil {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(g.Output, &many); err == nil {
		return many
	}
	return nil
}

// EncodeOutputRefs produces the stored form of a reference list: a single
// reference collapses to a scalar, multiple stay an ordered array.
func EncodeOutputRefs(refs []string) json.RawMessage {
	if len(refs) == 0 {
		return nil
	}
	var v any = refs
	if len(refs) == 1 {
		v = refs[0]
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
