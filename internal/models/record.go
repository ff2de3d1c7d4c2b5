package models

import "time"

// Record is implemented by pointers to every stored record type. It gives
// the typed collections access to the document key and timestamps.
type Record interface {
	Key() string
	SetKey(id string)
	Created() time.Time
	Stamp(createdAt, updatedAt time.Time)
	Validate() error
}

// Timestamps is embedded by stored records.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (t *Timestamps) Created() time.Time { return t.CreatedAt }

// Stamp sets the timestamps. A zero createdAt leaves the current value alone.
func (t *Timestamps) Stamp(createdAt, updatedAt time.Time) {
	if !createdAt.IsZero() {
		t.CreatedAt = createdAt
	}
	t.UpdatedAt = updatedAt
}
