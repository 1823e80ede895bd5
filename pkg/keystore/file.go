package keystore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File persists each logical key as its own file under a root directory.
// File names are a SHA-256 digest of the logical key, so arbitrary
// user-supplied identifiers cannot traverse outside the root.
type File struct {
	root string
}

// NewFile creates (if necessary) the root directory and returns a file-backed
// store. The directory and all value files are restricted to the owning user.
func NewFile(root string) (*File, error) {
	if root == "" {
		return nil, ErrInvalidKey
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &File{root: root}, nil
}

func (f *File) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.root, hex.EncodeToString(sum[:]))
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return data, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := f.path(key)

	// Write-then-rename keeps a crash mid-write from leaving a torn value.
	tmp, err := os.CreateTemp(f.root, filepath.Base(target)+".tmp-*")
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(ErrStorage, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Join(ErrStorage, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return errors.Join(ErrStorage, fmt.Errorf("replacing %s: %w", target, err))
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrStorage, err)
	}
	return nil
}
