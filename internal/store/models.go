package store

import "time"

// Snapshot is one stored key with its serialized value.
type Snapshot struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}
