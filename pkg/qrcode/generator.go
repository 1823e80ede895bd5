package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrNotProvisioningURI is returned when the content is not an otpauth:// URI.
	ErrNotProvisioningURI = errors.New("qrcode: content is not an otpauth provisioning URI")
	// ErrGenerationFailed wraps failures of the underlying QR encoder.
	ErrGenerationFailed = errors.New("qrcode: failed to generate QR code")
)

// defaultSize is the image size in pixels used when no size is specified.
const defaultSize = 256

// Provision renders the otpauth URI as a PNG QR code of the given size in
// pixels. Non-positive sizes use the default.
func Provision(uri string, size int) ([]byte, error) {
	if !strings.HasPrefix(uri, "otpauth://") {
		return nil, ErrNotProvisioningURI
	}
	if size <= 0 {
		size = defaultSize
	}

	png, err := skipqrcode.Encode(uri, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerationFailed, err)
	}
	return png, nil
}

// ProvisionDataURI renders the QR code as a data:image/png;base64 string for
// direct embedding in UI surfaces.
func ProvisionDataURI(uri string, size int) (string, error) {
	png, err := Provision(uri, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
