package model

import "time"

// RunStatus represents the current state of a resolution run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusResolving RunStatus = "resolving"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// ResponseStatus communicates degradation to the caller instead of an error.
type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "success"
	StatusLimited ResponseStatus = "limited"
	StatusError   ResponseStatus = "error"
)

// StyleRequest is one pipeline invocation.
type StyleRequest struct {
	Prompt string  `json:"prompt"`
	Gender string  `json:"gender,omitempty"`
	Budget float64 `json:"budget,omitempty"`
	Style  string  `json:"style,omitempty"`
}

// StyleResponse is the pipeline's outward contract: always a non-empty outfit
// list, with Status signalling degradation.
type StyleResponse struct {
	Outfits       []Outfit       `json:"outfits"`
	Status        ResponseStatus `json:"status"`
	StatusMessage string         `json:"status_message,omitempty"`
	Cached        bool           `json:"cached,omitempty"`
}

// ResolutionRun is a persisted record of one pipeline invocation.
type ResolutionRun struct {
	ID        string         `json:"id"`
	Request   StyleRequest   `json:"request"`
	Status    RunStatus      `json:"status"`
	Response  *StyleResponse `json:"response,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
