package migrate_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cosmos-dx/allone-web-sub001/pkg/cipher"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keymgr"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keystore"
	"github.com/cosmos-dx/allone-web-sub001/pkg/migrate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	orch   *migrate.Orchestrator
	keys   *keymgr.Manager
	store  *keystore.Memory
	v2Key  []byte
	v1Key  []byte
	userID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := keystore.NewMemory()
	keys := keymgr.New(store)
	userID := "user-1"

	// Fixed salt keeps the v2 key, and with it every fallback trial
	// sequence, identical across runs.
	salt := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	derived, err := keys.Derive(ctx, userID, "passphrase", salt)
	require.NoError(t, err)
	require.NoError(t, keys.Store(ctx, userID, derived.Key))

	legacy := keymgr.DeriveLegacy(userID, "passphrase")
	require.NoError(t, keys.Store(ctx, userID, legacy))

	return &fixture{
		orch:   migrate.New(keys, store),
		keys:   keys,
		store:  store,
		v2Key:  derived.Key.Material,
		v1Key:  legacy.Material,
		userID: userID,
	}
}

func transitional(t *testing.T, plaintext string, key []byte) string {
	t.Helper()
	blob, err := cipher.EncryptV2(plaintext, key)
	require.NoError(t, err)
	parts := strings.Split(blob, ":")
	return parts[0] + ":" + parts[1]
}

func TestMigrateCollectionConvertsAllGenerations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	v1Blob, err := cipher.EncryptV1("legacy password", f.v1Key)
	require.NoError(t, err)
	currentBlob, err := cipher.EncryptV2("already current", f.v2Key)
	require.NoError(t, err)
	transitionalBlob := transitional(t, "needs hmac", f.v2Key)

	items := []migrate.Record{
		{"password": v1Blob, "title": "old entry"},
		{"password": currentBlob, "title": "new entry"},
		{"password": transitionalBlob, "title": "transitional entry"},
		{"password": "", "title": "empty field"},
	}

	out, report, err := f.orch.MigrateCollection(ctx, items, "password", f.userID, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Migrated)
	assert.Equal(t, 2, report.PassedThrough)
	assert.Equal(t, 0, report.Failed)
	assert.NotEqual(t, report.ID.String(), "00000000-0000-0000-0000-000000000000")

	// Non-migrated fields are untouched.
	assert.Equal(t, "old entry", out[0]["title"])

	// All converted blobs decrypt under the v2 key with full verification.
	for i, plaintext := range []string{"legacy password", "already current", "needs hmac"} {
		got, trans, err := cipher.DecryptV2(out[i]["password"], f.v2Key)
		require.NoError(t, err, "item %d", i)
		assert.False(t, trans, "item %d should be authenticated now", i)
		assert.Equal(t, plaintext, got, "item %d", i)
	}

	// Authenticated V2 passes through byte-for-byte.
	assert.Equal(t, currentBlob, out[1]["password"])
	assert.Equal(t, "", out[3]["password"])
}

func TestMigrateCollectionIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	v1Blob, err := cipher.EncryptV1("secret", f.v1Key)
	require.NoError(t, err)
	items := []migrate.Record{{"notes": v1Blob}}

	first, report, err := f.orch.MigrateCollection(ctx, items, "notes", f.userID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Migrated)

	second, report, err := f.orch.MigrateCollection(ctx, first, "notes", f.userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Migrated)
	assert.Equal(t, 1, report.PassedThrough)
	assert.Equal(t, first[0]["notes"], second[0]["notes"], "second run must leave ciphertext byte-for-byte unchanged")
}

func TestMigrateCollectionKeepsUndecryptableItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	// V2-shaped blob whose ciphertext segment is not decodable under any
	// candidate or format.
	orphan := "aXZpdml2aXZpdml2aXZpdg==:@@not-base64@@"

	goodBlob, err := cipher.EncryptV1("reachable", f.v1Key)
	require.NoError(t, err)

	items := []migrate.Record{
		{"password": orphan},
		{"password": goodBlob},
	}

	out, report, err := f.orch.MigrateCollection(ctx, items, "password", f.userID, nil)
	require.NoError(t, err, "the batch itself must never fail on a single item")

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Migrated)
	assert.Equal(t, orphan, out[0]["password"], "failed item keeps its original ciphertext")
	assert.NotEmpty(t, out[1]["password"])
}

func TestMigrateCollectionSessionKeyLeads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	// A fresher in-memory key, not yet persisted. High-bit bytes keep its
	// XOR trial against the v1 blob from decoding as text.
	sessionKey := bytes.Repeat([]byte{0xff}, keymgr.KeySize)

	v1Blob, err := cipher.EncryptV1("secret", f.v1Key)
	require.NoError(t, err)

	out, _, err := f.orch.MigrateCollection(ctx, []migrate.Record{{"password": v1Blob}}, "password", f.userID, sessionKey)
	require.NoError(t, err)

	// Re-encryption targets the session key, not the persisted one.
	got, _, err := cipher.DecryptV2(out[0]["password"], sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestMigrateCollectionMissingField(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, _, err := f.orch.MigrateCollection(context.Background(), nil, "", f.userID, nil)
	assert.ErrorIs(t, err, migrate.ErrMissingField)
}

func TestNeedsMigration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	needs, err := f.orch.NeedsMigration(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, needs, "v1 key present and marker below latest")

	require.NoError(t, f.orch.MarkCompleted(ctx))
	needs, err = f.orch.NeedsMigration(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, needs)

	require.NoError(t, f.orch.ResetStatus(ctx))
	needs, err = f.orch.NeedsMigration(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestNeedsMigrationWithoutLegacyKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := keystore.NewMemory()
	keys := keymgr.New(store)
	orch := migrate.New(keys, store)

	needs, err := orch.NeedsMigration(ctx, "fresh-user")
	require.NoError(t, err)
	assert.False(t, needs, "a user with no v1 key has nothing to migrate")
}

func TestStatusLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	marker, err := f.orch.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrate.StatusPending, marker.Status)
	assert.Equal(t, 1, marker.Version)

	require.NoError(t, f.orch.MarkCompleted(ctx))
	require.NoError(t, f.orch.MarkCompleted(ctx), "MarkCompleted must be idempotent")

	marker, err = f.orch.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrate.StatusCompleted, marker.Status)
	assert.Equal(t, migrate.LatestVersion, marker.Version)

	require.NoError(t, f.orch.ResetStatus(ctx))
	require.NoError(t, f.orch.ResetStatus(ctx), "ResetStatus must be idempotent")

	marker, err = f.orch.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrate.StatusPending, marker.Status)
}

type memorySource struct {
	items     []migrate.Record
	persisted []int
}

func (s *memorySource) Load(_ context.Context) ([]migrate.Record, error) {
	return s.items, nil
}

func (s *memorySource) Persist(_ context.Context, index int, item migrate.Record) error {
	s.items[index] = item
	s.persisted = append(s.persisted, index)
	return nil
}

func TestRunPersistsPerItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	blobs := make([]string, 3)
	for i, secret := range []string{"one", "two", "three"} {
		blob, err := cipher.EncryptV1(secret, f.v1Key)
		require.NoError(t, err)
		blobs[i] = blob
	}
	source := &memorySource{items: []migrate.Record{
		{"password": blobs[0]},
		{"password": blobs[1]},
		{"password": blobs[2]},
	}}

	report, err := f.orch.Run(ctx, source, "password", f.userID, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Migrated)
	assert.Equal(t, []int{0, 1, 2}, source.persisted, "each item persists before the next begins")

	for i, want := range []string{"one", "two", "three"} {
		got, _, err := cipher.DecryptV2(source.items[i]["password"], f.v2Key)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRunAbandonsBetweenItems(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	blob, err := cipher.EncryptV1("secret", f.v1Key)
	require.NoError(t, err)
	source := &memorySource{items: []migrate.Record{{"password": blob}, {"password": blob}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.orch.Run(ctx, source, "password", f.userID, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, source.persisted, "no item is persisted after abandonment")
	assert.Equal(t, blob, source.items[0]["password"], "abandoned items keep their ciphertext")
}
