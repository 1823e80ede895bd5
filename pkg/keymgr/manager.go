package keymgr

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/cosmos-dx/allone-web-sub001/pkg/async"
	"github.com/cosmos-dx/allone-web-sub001/pkg/cache"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keystore"
)

const defaultCacheSize = 16

// Manager owns per-user key material. It is constructed explicitly and
// injected into the components that need it; there is no package-level
// instance.
type Manager struct {
	store      keystore.Store
	iterations int
	derived    *cache.LRU[string, []byte]

	// saltMu serializes salt creation so two concurrent first derivations
	// for the same user cannot race into divergent salts.
	saltMu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithIterations raises the PBKDF2 iteration count. Values below
// DefaultIterations are ignored; the floor is part of the format contract.
func WithIterations(n int) Option {
	return func(m *Manager) {
		if n > DefaultIterations {
			m.iterations = n
		}
	}
}

// WithCacheSize sets the derived-key cache capacity.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.derived = cache.NewLRU[string, []byte](n)
		}
	}
}

// New creates a Manager backed by the given keystore.
func New(store keystore.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		iterations: DefaultIterations,
		derived:    cache.NewLRU[string, []byte](defaultCacheSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.derived.SetEvictCallback(func(_ string, key []byte) { zero(key) })
	return m
}

func keyStorageKey(userID string, gen Generation) string {
	return fmt.Sprintf("allone:key:%s:%s", gen, userID)
}

func saltStorageKey(userID string) string {
	return "allone:salt:v2:" + userID
}

// Derive computes the user's v2 key with PBKDF2-HMAC-SHA256 over
// "userID:passphrase". When salt is nil the persisted salt is used, or a new
// one is generated and persisted first so later derivations reproduce the
// same key. Results are cached; evicted cache entries are zeroed.
func (m *Manager) Derive(ctx context.Context, userID, passphrase string, salt []byte) (*DerivedKey, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	if salt == nil {
		var err error
		salt, err = m.loadOrCreateSalt(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	cacheKey := derivationCacheKey(userID, passphrase, salt, m.iterations)
	if material, ok := m.derived.Get(cacheKey); ok {
		return &DerivedKey{
			Key:  Key{Material: cloneBytes(material), Generation: GenerationV2},
			Salt: salt,
		}, nil
	}

	material := pbkdf2.Key([]byte(userID+":"+passphrase), salt, m.iterations, KeySize, sha256.New)
	m.derived.Put(cacheKey, material)

	return &DerivedKey{
		Key:  Key{Material: cloneBytes(material), Generation: GenerationV2},
		Salt: salt,
	}, nil
}

// DeriveAsync runs Derive on its own goroutine so the CPU-bound PBKDF2 work
// never blocks an interactive path.
func (m *Manager) DeriveAsync(ctx context.Context, userID, passphrase string, salt []byte) *async.Future[*DerivedKey] {
	return async.Run(ctx, userID, func(ctx context.Context, id string) (*DerivedKey, error) {
		return m.Derive(ctx, id, passphrase, salt)
	})
}

func (m *Manager) loadOrCreateSalt(ctx context.Context, userID string) ([]byte, error) {
	m.saltMu.Lock()
	defer m.saltMu.Unlock()

	salt, err := m.store.Get(ctx, saltStorageKey(userID))
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, keystore.ErrNotFound) {
		return nil, errors.Join(ErrDerivationFailed, err)
	}

	salt, err = generateSalt()
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, saltStorageKey(userID), salt); err != nil {
		return nil, errors.Join(ErrDerivationFailed, err)
	}
	return salt, nil
}

// Store persists a key under its user and generation.
func (m *Manager) Store(ctx context.Context, userID string, key Key) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if !key.Generation.Valid() {
		return ErrInvalidGeneration
	}
	return m.store.Set(ctx, keyStorageKey(userID, key.Generation), key.Material)
}

// Retrieve loads the stored key of the given generation, or ErrKeyNotFound.
func (m *Manager) Retrieve(ctx context.Context, userID string, gen Generation) (Key, error) {
	if userID == "" {
		return Key{}, ErrEmptyUserID
	}
	if !gen.Valid() {
		return Key{}, ErrInvalidGeneration
	}

	material, err := m.store.Get(ctx, keyStorageKey(userID, gen))
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			return Key{}, ErrKeyNotFound
		}
		return Key{}, err
	}
	return Key{Material: material, Generation: gen}, nil
}

// HasKey reports whether a key of the given generation is stored for the user.
func (m *Manager) HasKey(ctx context.Context, userID string, gen Generation) (bool, error) {
	_, err := m.Retrieve(ctx, userID, gen)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

// Clear removes every stored key and the salt for the user and drops cached
// derivations.
func (m *Manager) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	var errs []error
	for _, key := range []string{
		keyStorageKey(userID, GenerationV1),
		keyStorageKey(userID, GenerationV2),
		saltStorageKey(userID),
	} {
		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	// Cached entries for this user cannot be addressed individually because
	// the cache key includes the passphrase digest; dropping the whole cache
	// is acceptable for the rare clear operation.
	m.derived.Clear()

	return errors.Join(errs...)
}

// Candidates returns the decryption trial order: the caller's in-memory v2
// key when supplied, the persisted v2 key, then the persisted v1 key.
// Missing generations are skipped and duplicates removed; the order itself
// is the contract fallback decryption depends on.
func (m *Manager) Candidates(ctx context.Context, userID string, inMemory []byte) ([][]byte, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	var keys [][]byte
	if len(inMemory) > 0 {
		keys = append(keys, inMemory)
	}

	for _, gen := range []Generation{GenerationV2, GenerationV1} {
		key, err := m.Retrieve(ctx, userID, gen)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		keys = append(keys, key.Material)
	}

	return dedupe(keys), nil
}

func dedupe(keys [][]byte) [][]byte {
	out := keys[:0]
	for _, k := range keys {
		seen := false
		for _, existing := range out {
			if bytes.Equal(existing, k) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, k)
		}
	}
	return out
}

// derivationCacheKey covers every derivation input so distinct passphrases or
// salts can never alias. Only a digest of the passphrase is held in memory.
func derivationCacheKey(userID, passphrase string, salt []byte, iterations int) string {
	sum := sha256.Sum256([]byte(passphrase))
	return fmt.Sprintf("%s|%s|%s|%d", userID, hex.EncodeToString(sum[:]), hex.EncodeToString(salt), iterations)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
