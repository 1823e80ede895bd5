package migrate

import (
	"context"
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/cosmos-dx/allone-web-sub001/pkg/keystore"
)

// Status is the coarse state of the global migration marker.
type Status string

const (
	// StatusPending means the migration has not completed for this install.
	StatusPending Status = "pending"
	// StatusCompleted means every collection has been converted.
	StatusCompleted Status = "completed"
)

// LatestVersion is the current on-disk format version.
const LatestVersion = 2

// statusStorageKey addresses the single global marker in the keystore.
const statusStorageKey = "allone:migration:status"

// Marker is the only persisted migration state.
type Marker struct {
	Status  Status `yaml:"status"`
	Version int    `yaml:"version"`
}

// GetStatus loads the global marker. A missing marker reads as pending at
// version 1, the state of an install that has never migrated.
func (o *Orchestrator) GetStatus(ctx context.Context) (Marker, error) {
	data, err := o.store.Get(ctx, statusStorageKey)
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			return Marker{Status: StatusPending, Version: 1}, nil
		}
		return Marker{}, errors.Join(ErrStatus, err)
	}

	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Marker{}, errors.Join(ErrStatus, err)
	}
	return m, nil
}

// MarkCompleted records the migration as done at the latest version.
// Idempotent: marking an already-completed install is a no-op rewrite.
func (o *Orchestrator) MarkCompleted(ctx context.Context) error {
	data, err := yaml.Marshal(Marker{Status: StatusCompleted, Version: LatestVersion})
	if err != nil {
		return errors.Join(ErrStatus, err)
	}
	return o.store.Set(ctx, statusStorageKey, data)
}

// ResetStatus drops the marker so the next NeedsMigration check reports
// pending again. Idempotent.
func (o *Orchestrator) ResetStatus(ctx context.Context) error {
	if err := o.store.Delete(ctx, statusStorageKey); err != nil {
		return errors.Join(ErrStatus, err)
	}
	return nil
}
