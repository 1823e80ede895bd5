package allone

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cosmos-dx/allone-web-sub001/pkg/cipher"
	"github.com/cosmos-dx/allone-web-sub001/pkg/config"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keymgr"
	"github.com/cosmos-dx/allone-web-sub001/pkg/keystore"
	"github.com/cosmos-dx/allone-web-sub001/pkg/logger"
	"github.com/cosmos-dx/allone-web-sub001/pkg/migrate"
	"github.com/cosmos-dx/allone-web-sub001/pkg/qrcode"
	"github.com/cosmos-dx/allone-web-sub001/pkg/totp"
)

// Vault is the crypto core for a single user. Construct one with New and
// inject it wherever encryption, decryption or code generation is needed;
// its lifecycle belongs to the owner, not to the package.
type Vault struct {
	userID string
	keys   *keymgr.Manager
	orch   *migrate.Orchestrator
	log    *slog.Logger

	mu         sync.RWMutex
	sessionKey []byte
}

// Option configures a Vault.
type Option func(*options)

type options struct {
	log         *slog.Logger
	iterations  int
	concurrency int
}

// WithLogger sets the structured logger used for operational events. Secret
// material is never logged.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithIterations raises the PBKDF2 iteration count above the format floor.
func WithIterations(n int) Option {
	return func(o *options) { o.iterations = n }
}

// WithMigrationConcurrency bounds parallel item processing during Migrate.
func WithMigrationConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// New creates the crypto core for userID on top of the given secure store.
func New(userID string, store keystore.Store, opts ...Option) (*Vault, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if store == nil {
		return nil, ErrNilStore
	}

	o := &options{log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var keyOpts []keymgr.Option
	if o.iterations > 0 {
		keyOpts = append(keyOpts, keymgr.WithIterations(o.iterations))
	}
	keys := keymgr.New(store, keyOpts...)

	orchOpts := []migrate.Option{migrate.WithLogger(o.log)}
	if o.concurrency > 0 {
		orchOpts = append(orchOpts, migrate.WithConcurrency(o.concurrency))
	}

	return &Vault{
		userID: userID,
		keys:   keys,
		orch:   migrate.New(keys, store, orchOpts...),
		log:    o.log,
	}, nil
}

// NewFromConfig builds a Vault from environment-driven settings: a
// file-backed keystore at cfg.StorePath, the configured iteration count and
// a logger matching cfg.LogFormat.
func NewFromConfig(userID string, cfg Config, opts ...Option) (*Vault, error) {
	path, err := expandHome(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	store, err := keystore.NewFile(path)
	if err != nil {
		return nil, err
	}

	format := logger.FormatText
	if cfg.LogFormat == "json" {
		format = logger.FormatJSON
	}
	log := logger.New(logger.WithFormat(format))

	base := []Option{WithLogger(log), WithIterations(cfg.Iterations)}
	return New(userID, store, append(base, opts...)...)
}

// NewFromEnv reads Config from the process environment (and a .env file, if
// present) and builds a Vault from it.
func NewFromEnv(userID string, opts ...Option) (*Vault, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewFromConfig(userID, cfg, opts...)
}

// expandHome resolves a leading ~ in path against the current user's home
// directory, so the default store path works without shell expansion.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Unlock derives the user's v2 key from the passphrase, persists it for
// later candidate lookups and holds it in memory for this session. The
// CPU-bound derivation runs off the calling goroutine; Unlock awaits it so
// the key is cached before any encrypt or decrypt can race a re-derivation.
func (v *Vault) Unlock(ctx context.Context, passphrase string) error {
	derived, err := v.keys.DeriveAsync(ctx, v.userID, passphrase, nil).Await()
	if err != nil {
		return err
	}
	if err := v.keys.Store(ctx, v.userID, derived.Key); err != nil {
		return err
	}

	v.mu.Lock()
	v.sessionKey = derived.Key.Material
	v.mu.Unlock()

	v.log.DebugContext(ctx, "vault unlocked", "user_id", v.userID)
	return nil
}

// Lock zeroes and drops the in-memory session key. Stored keys remain; the
// vault can be unlocked again with the passphrase.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.sessionKey {
		v.sessionKey[i] = 0
	}
	v.sessionKey = nil
}

func (v *Vault) session() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sessionKey
}

// EncryptField encrypts plaintext with the current authenticated format
// under the session key. New data is always written as V2; the legacy codec
// is never used for encryption.
func (v *Vault) EncryptField(ctx context.Context, plaintext string) (string, error) {
	key := v.session()
	if key == nil {
		return "", ErrLocked
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return cipher.EncryptV2(plaintext, key)
}

// DecryptField decrypts a stored blob, retrying every candidate key in both
// formats. stale reports that the blob was legacy V1 or transitional V2 and
// should be re-encrypted (individually, or in bulk via Migrate). The field
// label only shapes error messages; passwords, notes and TOTP seeds all
// decrypt identically.
func (v *Vault) DecryptField(ctx context.Context, blob, field string) (plaintext string, stale bool, err error) {
	candidates, err := v.keys.Candidates(ctx, v.userID, v.session())
	if err != nil {
		return "", false, err
	}

	res, err := cipher.DecryptWithFallback(blob, candidates, field)
	if err != nil {
		return "", false, err
	}
	return res.Plaintext, res.NeedsReencrypt, nil
}

// GenerateCode decrypts a stored TOTP secret and returns the current code
// together with the seconds remaining in its window. The decrypted secret
// exists only for the duration of the call.
func (v *Vault) GenerateCode(ctx context.Context, blob string) (code string, remaining int, err error) {
	secret, _, err := v.DecryptField(ctx, blob, "totp")
	if err != nil {
		return "", 0, err
	}

	params := totp.Params{Secret: secret}.WithDefaults()
	now := time.Now()
	code, err = totp.GenerateAt(params, now)
	if err != nil {
		return "", 0, err
	}
	return code, totp.Remaining(params.Period, now), nil
}

// GenerateCodeWithParams is GenerateCode for entries provisioned with
// non-default algorithm, digits or period. The secret inside params is
// ignored in favor of the decrypted blob.
func (v *Vault) GenerateCodeWithParams(ctx context.Context, blob string, params totp.Params) (string, int, error) {
	secret, _, err := v.DecryptField(ctx, blob, "totp")
	if err != nil {
		return "", 0, err
	}

	params.Secret = secret
	params = params.WithDefaults()
	now := time.Now()
	code, err := totp.GenerateAt(params, now)
	if err != nil {
		return "", 0, err
	}
	return code, totp.Remaining(params.Period, now), nil
}

// ProvisioningURI renders the otpauth URI for a plaintext TOTP secret so it
// can be enrolled into an authenticator app.
func (v *Vault) ProvisioningURI(params totp.Params, issuer, account string) (string, error) {
	return totp.BuildURI(params, issuer, account)
}

// ProvisioningQR renders the otpauth URI as a PNG QR code.
func (v *Vault) ProvisioningQR(params totp.Params, issuer, account string, size int) ([]byte, error) {
	uri, err := totp.BuildURI(params, issuer, account)
	if err != nil {
		return nil, err
	}
	return qrcode.Provision(uri, size)
}

// NeedsMigration reports whether this user still has legacy ciphertext to
// convert.
func (v *Vault) NeedsMigration(ctx context.Context) (bool, error) {
	return v.orch.NeedsMigration(ctx, v.userID)
}

// Migrate converts the named field of every item to the current format. See
// pkg/migrate for the per-item tolerance and idempotence guarantees.
func (v *Vault) Migrate(ctx context.Context, items []migrate.Record, field string) ([]migrate.Record, *migrate.Report, error) {
	return v.orch.MigrateCollection(ctx, items, field, v.userID, v.session())
}

// MigrateSource migrates items from an ItemSource sequentially, persisting
// each converted item before the next begins.
func (v *Vault) MigrateSource(ctx context.Context, source migrate.ItemSource, field string) (*migrate.Report, error) {
	return v.orch.Run(ctx, source, field, v.userID, v.session())
}

// MarkMigrated records the global migration marker as completed.
func (v *Vault) MarkMigrated(ctx context.Context) error {
	return v.orch.MarkCompleted(ctx)
}
