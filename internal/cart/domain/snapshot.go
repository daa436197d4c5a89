package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptSnapshot marks a persisted payload that cannot be trusted: broken
// JSON or a schema version newer than this build. Transport failures from a
// store are ordinary errors and never carry it.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// SnapshotSchemaVersion is the version written by this build. Version 0 is the
// historical unversioned payload (a bare item list wrapper without the field)
// and is still accepted on read; it is upgraded the next time the cart is
// persisted.
const SnapshotSchemaVersion = 1

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	SchemaVersion int        `json:"schema_version"`
	Items         []LineItem `json:"items"`
}

func NewSnapshot(c Cart) Snapshot {
	return Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Items:         c.Clone().Items,
	}
}

func (s Snapshot) Cart() Cart {
	c := Cart{Items: s.Items}
	return c.Clone()
}

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode cart snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses a persisted payload. Undecodable payloads and schema
// versions newer than this build report ErrCorruptSnapshot; the caller decides
// the fallback.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.SchemaVersion > SnapshotSchemaVersion {
		return Snapshot{}, fmt.Errorf("%w: schema version %d is newer than supported %d", ErrCorruptSnapshot, s.SchemaVersion, SnapshotSchemaVersion)
	}
	return s, nil
}
