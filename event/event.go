// Package event defines the Indrajāla event envelope, the wire JSON codec,
// and the hierarchical topic matcher shared by every client.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/indrajala/indralib/indratime"
)

// IndraEvent is one message on the bus. Field names and types are the wire
// contract; unknown fields received from a peer are ignored.
type IndraEvent struct {
	// Domain is the hierarchical topic path, segments separated by "/".
	// Reserved prefixes ($trx/, $cmd/, $sys/, $event/) carry protocol-level
	// meaning for collaborators.
	Domain string `json:"domain"`

	// FromID identifies the sender; opaque to this library.
	FromID string `json:"from_id"`

	// ID is a v4 UUID assigned at construction, the correlation key for
	// request/response transactions. Never mutated afterwards.
	ID string `json:"id"`

	// ParentID is the id of a causally preceding event, if any.
	ParentID string `json:"parent_id"`

	// SeqNo is a sender-assigned sequence counter, not enforced here.
	SeqNo int64 `json:"seq_no"`

	// ToScope is a routing scope hint, opaque to this library.
	ToScope string `json:"to_scope"`

	// TimeStart is the creation time as a Julian Date (UTC).
	TimeStart float64 `json:"time_start"`

	// TimeEnd closes a time range; nil unless explicitly set.
	TimeEnd *float64 `json:"time_end,omitempty"`

	// DataType tags the interpretation of Data, e.g. "kvread" or
	// "vector/string".
	DataType string `json:"data_type"`

	// Data is the payload, typically JSON text whose schema is implied by
	// DataType and Domain. Kept opaque at this layer.
	Data string `json:"data"`

	// AuthHash is the bearer token for authenticated operations; empty
	// means unauthenticated.
	AuthHash string `json:"auth_hash"`
}

// New creates an envelope with a fresh identifier and the current UTC
// instant as TimeStart. The error is the identifier generator's: no secure
// random source means no event.
func New() (*IndraEvent, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	return &IndraEvent{
		ID:        id,
		TimeStart: indratime.Now(),
	}, nil
}

// SetTimeEnd marks the end of the event's time range.
func (e *IndraEvent) SetTimeEnd(jd float64) {
	e.TimeEnd = &jd
}

// ToJSON serializes the envelope to its canonical wire form, one JSON text
// per transport frame.
func (e *IndraEvent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("event: encode %s: %w", e.Domain, err)
	}
	return data, nil
}

// FromJSON deserializes a wire frame. Unknown fields are ignored for
// forward compatibility; malformed JSON yields a descriptive error.
func FromJSON(data []byte) (*IndraEvent, error) {
	var e IndraEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("event: decode frame: %w", err)
	}
	return &e, nil
}
