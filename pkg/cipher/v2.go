package cipher

import (
	"bytes"
	"crypto/aes"
	aescipher "crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeySize is the key length the V2 codec requires (AES-256).
const KeySize = 32

// segmentSeparator joins the base64 iv, ciphertext and hmac segments.
const segmentSeparator = ":"

// EncryptV2 encrypts plaintext with AES-256-CBC and authenticates the result
// with HMAC-SHA256 in an encrypt-then-MAC arrangement. The returned blob is
// three colon-joined base64 segments: iv:ciphertext:hmac. The MAC is computed
// over the textual "iv:ciphertext" portion using the same key.
func EncryptV2(plaintext string, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrInvalidKeySize, err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("cipher: generating iv: %w", err)
	}

	padded := padPKCS7([]byte(plaintext), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	aescipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	ivSeg := base64.StdEncoding.EncodeToString(iv)
	ctSeg := base64.StdEncoding.EncodeToString(encrypted)
	macSeg := base64.StdEncoding.EncodeToString(computeMAC(ivSeg, ctSeg, key))

	return ivSeg + segmentSeparator + ctSeg + segmentSeparator + macSeg, nil
}

// DecryptV2 decrypts a V2 blob. Three segments are verified with a
// constant-time HMAC comparison before any decryption happens; a mismatch
// returns ErrIntegrityCheckFailed. Two segments are the transitional pre-HMAC
// form: they decrypt without verification and transitional is reported true
// so the caller can schedule re-encryption. Any other segment count is a
// format error.
func DecryptV2(blob string, key []byte) (plaintext string, transitional bool, err error) {
	if len(key) != KeySize {
		return "", false, ErrInvalidKeySize
	}

	parts := strings.Split(blob, segmentSeparator)
	switch len(parts) {
	case 3:
		expected := computeMAC(parts[0], parts[1], key)
		actual, decErr := decodeBase64Lenient(parts[2])
		if decErr != nil {
			return "", false, errors.Join(ErrInvalidFormat, decErr)
		}
		if !hmac.Equal(expected, actual) {
			return "", false, ErrIntegrityCheckFailed
		}
	case 2:
		transitional = true
	default:
		return "", false, errors.Join(ErrInvalidFormat,
			fmt.Errorf("expected 2 or 3 segments, got %d", len(parts)))
	}

	plain, err := decryptCBC(parts[0], parts[1], key)
	if err != nil {
		return "", false, err
	}

	// A verified blob is the original plaintext by construction. The
	// unauthenticated transitional form has no MAC, so the strict text
	// decode is all that separates a wrong key from a success.
	if transitional {
		plaintext, err = decodeText(plain)
		if err != nil {
			return "", false, err
		}
		return plaintext, true, nil
	}
	return string(plain), false, nil
}

func decryptCBC(ivSeg, ctSeg string, key []byte) ([]byte, error) {
	iv, err := decodeBase64Lenient(ivSeg)
	if err != nil {
		return nil, errors.Join(ErrInvalidFormat, err)
	}
	encrypted, err := decodeBase64Lenient(ctSeg)
	if err != nil {
		return nil, errors.Join(ErrInvalidFormat, err)
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.Join(ErrInvalidFormat, fmt.Errorf("iv length %d", len(iv)))
	}
	if len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return nil, errors.Join(ErrInvalidFormat, fmt.Errorf("ciphertext length %d", len(encrypted)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeySize, err)
	}

	padded := make([]byte, len(encrypted))
	aescipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, encrypted)

	return unpadPKCS7(padded, aes.BlockSize)
}

// computeMAC authenticates the textual iv:ciphertext encoding so the MAC
// covers exactly the bytes that sit on disk.
func computeMAC(ivSeg, ctSeg string, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(ivSeg + segmentSeparator + ctSeg))
	return mac.Sum(nil)
}

func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
