// Package qrcode renders otpauth provisioning URIs as QR code images so a
// vault entry can be enrolled into an authenticator app.
//
// # Usage
//
//	png, err := qrcode.Provision(uri, 256)
//
//	// or as a data URI for direct embedding:
//	img, err := qrcode.ProvisionDataURI(uri, 256)
//	// <img src="{{.img}}">
package qrcode
