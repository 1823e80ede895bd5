package migrate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cosmos-dx/allone-web-sub001/pkg/async"
	"github.com/cosmos-dx/allone-web-sub001/pkg/cipher"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keymgr"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keystore"
)

const defaultConcurrency = 4

// Record is one vault entry as a set of named stored fields.
type Record map[string]string

// Report summarizes one migration pass. Per-item outcomes are intentionally
// absent: callers compare output against input to judge individual items.
type Report struct {
	ID            uuid.UUID
	Total         int
	Migrated      int
	PassedThrough int
	Failed        int
}

// record is the ephemeral per-item migration state; it never outlives the pass.
type record struct {
	id     uuid.UUID
	source cipher.Format
	blob   string
	failed bool
}

// Orchestrator converts legacy ciphertext collections to the current format.
type Orchestrator struct {
	keys        *keymgr.Manager
	store       keystore.Store
	log         *slog.Logger
	concurrency int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency bounds how many items one MigrateCollection call processes
// in parallel.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the structured logger. Blob contents and plaintext are
// never logged, only counts and record ids.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// New creates an Orchestrator. The keystore holds the global status marker;
// the key manager supplies candidate and target keys.
func New(keys *keymgr.Manager, store keystore.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		keys:        keys,
		store:       store,
		log:         slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NeedsMigration reports whether the user still has legacy data to convert:
// a v1 key exists in storage and the global marker is below the latest
// version.
func (o *Orchestrator) NeedsMigration(ctx context.Context, userID string) (bool, error) {
	hasLegacy, err := o.keys.HasKey(ctx, userID, keymgr.GenerationV1)
	if err != nil {
		return false, err
	}
	if !hasLegacy {
		return false, nil
	}

	marker, err := o.GetStatus(ctx)
	if err != nil {
		return false, err
	}
	return marker.Version < LatestVersion, nil
}

// MigrateCollection converts the named field of every item to the current
// format. sessionKey, when non-nil, is the caller's in-memory v2 key and
// leads the candidate order. Items are processed concurrently up to the
// configured bound; per-item failures leave the original item unchanged and
// never fail the batch.
func (o *Orchestrator) MigrateCollection(ctx context.Context, items []Record, field, userID string, sessionKey []byte) ([]Record, *Report, error) {
	if field == "" {
		return nil, nil, ErrMissingField
	}

	candidates, target, err := o.keyMaterial(ctx, userID, sessionKey)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{ID: uuid.New(), Total: len(items)}
	out := make([]Record, len(items))

	sem := make(chan struct{}, o.concurrency)
	futures := make([]*async.Future[record], len(items))
	for i, item := range items {
		futures[i] = async.Run(ctx, item[field], func(ctx context.Context, blob string) (record, error) {
			sem <- struct{}{}
			defer func() { <-sem }()
			return o.migrateBlob(blob, candidates, target, field), nil
		})
	}

	for i := range futures {
		res, err := futures[i].Await()
		if err != nil {
			// A context canceled before the item started; it keeps its
			// original ciphertext, same as a per-item failure.
			res = record{blob: items[i][field], failed: true}
		}

		out[i] = cloneRecord(items[i])
		switch {
		case res.failed:
			report.Failed++
		case res.blob == items[i][field]:
			report.PassedThrough++
		default:
			out[i][field] = res.blob
			report.Migrated++
		}
	}

	o.log.InfoContext(ctx, "migration pass finished",
		"report_id", report.ID,
		"field", field,
		"total", report.Total,
		"migrated", report.Migrated,
		"passed_through", report.PassedThrough,
		"failed", report.Failed,
	)

	return out, report, nil
}

// ItemSource supplies items one at a time and persists each converted item
// before the next is requested, so an interrupted migration resumes cleanly.
type ItemSource interface {
	// Load returns the collection to migrate.
	Load(ctx context.Context) ([]Record, error)
	// Persist stores one converted item. An error stops the pass; already
	// persisted items stay migrated.
	Persist(ctx context.Context, index int, item Record) error
}

// Run migrates an ItemSource sequentially: classify, convert, persist, then
// move on. The context is checked between items, making every item boundary
// a safe abandon point.
func (o *Orchestrator) Run(ctx context.Context, source ItemSource, field, userID string, sessionKey []byte) (*Report, error) {
	if field == "" {
		return nil, ErrMissingField
	}

	items, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	candidates, target, err := o.keyMaterial(ctx, userID, sessionKey)
	if err != nil {
		return nil, err
	}

	report := &Report{ID: uuid.New(), Total: len(items)}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := o.migrateBlob(item[field], candidates, target, field)
		switch {
		case res.failed:
			report.Failed++
			continue
		case res.blob == item[field]:
			report.PassedThrough++
			continue
		}

		converted := cloneRecord(item)
		converted[field] = res.blob
		if err := source.Persist(ctx, i, converted); err != nil {
			return report, err
		}
		report.Migrated++
	}

	o.log.InfoContext(ctx, "sequential migration finished",
		"report_id", report.ID,
		"total", report.Total,
		"migrated", report.Migrated,
		"passed_through", report.PassedThrough,
		"failed", report.Failed,
	)

	return report, nil
}

// keyMaterial resolves the candidate order for decryption and the v2 target
// key for re-encryption.
func (o *Orchestrator) keyMaterial(ctx context.Context, userID string, sessionKey []byte) ([][]byte, []byte, error) {
	candidates, err := o.keys.Candidates(ctx, userID, sessionKey)
	if err != nil {
		return nil, nil, err
	}

	target := sessionKey
	if target == nil {
		v2, err := o.keys.Retrieve(ctx, userID, keymgr.GenerationV2)
		if err != nil {
			if errors.Is(err, keymgr.ErrKeyNotFound) {
				return nil, nil, ErrNoTargetKey
			}
			return nil, nil, err
		}
		target = v2.Material
	}

	return candidates, target, nil
}

// migrateBlob converts one stored blob. Every failure path keeps the
// original blob so the item survives unmodified.
func (o *Orchestrator) migrateBlob(blob string, candidates [][]byte, target []byte, field string) record {
	rec := record{id: uuid.New(), source: cipher.Classify(blob), blob: blob}

	if blob == "" {
		return rec
	}

	// Authenticated three-segment blobs are already current; leaving them
	// untouched is what makes a second pass byte-for-byte idempotent.
	if rec.source == cipher.FormatV2 && strings.Count(blob, ":") == 2 {
		return rec
	}

	res, err := cipher.DecryptWithFallback(blob, candidates, field)
	if err != nil {
		o.log.Debug("item migration failed, keeping original", "record_id", rec.id, "format", rec.source.String())
		rec.failed = true
		return rec
	}

	converted, err := cipher.EncryptV2(res.Plaintext, target)
	if err != nil {
		rec.failed = true
		return rec
	}

	rec.blob = converted
	return rec
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
