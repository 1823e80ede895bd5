package keymgr_test

import (
	"context"
	"testing"

	"github.com/cosmos-dx/allone-web-sub001/pkg/keymgr"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keystore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *keymgr.Manager {
	t.Helper()
	return keymgr.New(keystore.NewMemory())
}

func TestDeriveIsReproducible(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)

	first, err := mgr.Derive(ctx, "user-1", "correct horse", nil)
	require.NoError(t, err)
	require.Len(t, first.Key.Material, keymgr.KeySize)
	require.Len(t, first.Salt, keymgr.SaltSize)
	assert.Equal(t, keymgr.GenerationV2, first.Key.Generation)

	// The salt was persisted, so a second derivation reproduces the key.
	second, err := mgr.Derive(ctx, "user-1", "correct horse", nil)
	require.NoError(t, err)
	assert.Equal(t, first.Key.Material, second.Key.Material)
	assert.Equal(t, first.Salt, second.Salt)
}

func TestDeriveSaltSurvivesNewManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := keystore.NewMemory()

	first, err := keymgr.New(store).Derive(ctx, "user-1", "pass", nil)
	require.NoError(t, err)

	second, err := keymgr.New(store).Derive(ctx, "user-1", "pass", nil)
	require.NoError(t, err)
	assert.Equal(t, first.Key.Material, second.Key.Material)
}

func TestDeriveDistinctInputsDistinctKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)

	base, err := mgr.Derive(ctx, "user-1", "pass", nil)
	require.NoError(t, err)

	otherUser, err := mgr.Derive(ctx, "user-2", "pass", nil)
	require.NoError(t, err)
	assert.NotEqual(t, base.Key.Material, otherUser.Key.Material)

	otherPass, err := mgr.Derive(ctx, "user-1", "different", nil)
	require.NoError(t, err)
	assert.NotEqual(t, base.Key.Material, otherPass.Key.Material)
}

func TestDeriveExplicitSalt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)
	salt := make([]byte, keymgr.SaltSize)

	derived, err := mgr.Derive(ctx, "user-1", "pass", salt)
	require.NoError(t, err)
	assert.Equal(t, salt, derived.Salt)

	again, err := mgr.Derive(ctx, "user-1", "pass", salt)
	require.NoError(t, err)
	assert.Equal(t, derived.Key.Material, again.Key.Material)
}

func TestDeriveEmptyUserID(t *testing.T) {
	t.Parallel()

	_, err := newManager(t).Derive(context.Background(), "", "pass", nil)
	assert.ErrorIs(t, err, keymgr.ErrEmptyUserID)
}

func TestDeriveAsync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)

	future := mgr.DeriveAsync(ctx, "user-1", "pass", nil)
	derived, err := future.Await()
	require.NoError(t, err)

	sync, err := mgr.Derive(ctx, "user-1", "pass", nil)
	require.NoError(t, err)
	assert.Equal(t, sync.Key.Material, derived.Key.Material)
}

func TestDeriveLegacyDeterministic(t *testing.T) {
	t.Parallel()

	a := keymgr.DeriveLegacy("user-1", "pass")
	b := keymgr.DeriveLegacy("user-1", "pass")
	assert.Equal(t, a.Material, b.Material)
	assert.Equal(t, keymgr.GenerationV1, a.Generation)
	assert.Len(t, a.Material, keymgr.KeySize)

	c := keymgr.DeriveLegacy("user-2", "pass")
	assert.NotEqual(t, a.Material, c.Material)
}

func TestStoreRetrieveClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)

	legacy := keymgr.DeriveLegacy("user-1", "pass")
	require.NoError(t, mgr.Store(ctx, "user-1", legacy))

	got, err := mgr.Retrieve(ctx, "user-1", keymgr.GenerationV1)
	require.NoError(t, err)
	assert.Equal(t, legacy.Material, got.Material)

	has, err := mgr.HasKey(ctx, "user-1", keymgr.GenerationV1)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, mgr.Clear(ctx, "user-1"))

	_, err = mgr.Retrieve(ctx, "user-1", keymgr.GenerationV1)
	assert.ErrorIs(t, err, keymgr.ErrKeyNotFound)

	has, err = mgr.HasKey(ctx, "user-1", keymgr.GenerationV1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStoreRejectsUnknownGeneration(t *testing.T) {
	t.Parallel()

	err := newManager(t).Store(context.Background(), "user-1", keymgr.Key{
		Material:   []byte("x"),
		Generation: "v3",
	})
	assert.ErrorIs(t, err, keymgr.ErrInvalidGeneration)
}

func TestCandidatesOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)

	derived, err := mgr.Derive(ctx, "user-1", "pass", nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Store(ctx, "user-1", derived.Key))

	legacy := keymgr.DeriveLegacy("user-1", "pass")
	require.NoError(t, mgr.Store(ctx, "user-1", legacy))

	inMemory := []byte("fresher-session-key-32-bytes-aaa")
	keys, err := mgr.Candidates(ctx, "user-1", inMemory)
	require.NoError(t, err)

	require.Len(t, keys, 3)
	assert.Equal(t, inMemory, keys[0], "in-memory key must be tried first")
	assert.Equal(t, derived.Key.Material, keys[1], "persisted v2 key second")
	assert.Equal(t, legacy.Material, keys[2], "persisted v1 key last")
}

func TestCandidatesSkipsMissingAndDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := newManager(t)

	derived, err := mgr.Derive(ctx, "user-1", "pass", nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Store(ctx, "user-1", derived.Key))

	// The in-memory key equals the persisted v2 key; no v1 key exists.
	keys, err := mgr.Candidates(ctx, "user-1", derived.Key.Material)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestCandidatesNoKeys(t *testing.T) {
	t.Parallel()

	keys, err := newManager(t).Candidates(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	a, err := keymgr.GenerateKey()
	require.NoError(t, err)
	assert.Len(t, a, keymgr.KeySize)

	b, err := keymgr.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
