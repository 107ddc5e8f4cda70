package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
)

// Snapshot is the persisted state of one visitor: the variables they have
// set. Variables left at their default are absent.
type Snapshot struct {
	ID        string             `json:"id"`
	Values    map[string]float64 `json:"values"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Version is the serialization format version.
	Version int `json:"version"`
}

// CurrentSerializationVersion is the current version of the serialization format.
// Increment when making breaking changes to the format.
const CurrentSerializationVersion = 1

// Serialize converts a Snapshot to bytes.
func Serialize(s *Snapshot) ([]byte, error) {
	s.Version = CurrentSerializationVersion
	return json.Marshal(s)
}

// Deserialize converts bytes back to a Snapshot. Snapshots written by a
// newer format version are rejected.
func Deserialize(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, lerrors.New("L031").Wrap(err)
	}
	if s.Version > CurrentSerializationVersion {
		return nil, lerrors.New("L031").WithDetailf("format version %d", s.Version)
	}
	return &s, nil
}

// Snapshots reads and writes visitor snapshots through a SessionStore.
type Snapshots struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSnapshots wraps store. Saved snapshots expire after ttl.
func NewSnapshots(store SessionStore, ttl time.Duration) *Snapshots {
	return &Snapshots{store: store, ttl: ttl, now: time.Now}
}

// Load returns the saved values for id, or nil when there are none.
func (s *Snapshots) Load(ctx context.Context, id string) (map[string]float64, error) {
	data, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, lerrors.New("L030").Wrap(err)
	}
	if data == nil {
		return nil, nil
	}
	snap, err := Deserialize(data)
	if err != nil {
		return nil, err
	}
	return snap.Values, nil
}

// Save writes values for id and restarts its expiry.
func (s *Snapshots) Save(ctx context.Context, id string, values map[string]float64) error {
	now := s.now()
	data, err := Serialize(&Snapshot{ID: id, Values: values, UpdatedAt: now.UTC()})
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, id, data, now.Add(s.ttl)); err != nil {
		return lerrors.New("L030").Wrap(err)
	}
	return nil
}

// Touch restarts the expiry of id without rewriting it.
func (s *Snapshots) Touch(ctx context.Context, id string) error {
	if err := s.store.Touch(ctx, id, s.now().Add(s.ttl)); err != nil {
		return lerrors.New("L030").Wrap(err)
	}
	return nil
}

// Close closes the underlying store.
func (s *Snapshots) Close() error {
	return s.store.Close()
}

// NewID generates a cryptographically random session ID.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// ValidID reports whether id has the shape of a NewID result.
func ValidID(id string) bool {
	if len(id) != 32 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
