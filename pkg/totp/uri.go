package totp

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ProvisionedKey is the result of parsing an otpauth:// provisioning URI.
type ProvisionedKey struct {
	Params
	Issuer  string
	Account string
}

// ParseURI parses an otpauth://totp/ URI following the Google Authenticator
// key-URI convention. Query parameters: secret (required), algorithm
// (default SHA1), digits (default 6), period (default 30). The path label is
// interpreted as "issuer:account"; an explicit issuer query parameter wins
// over the label prefix.
func ParseURI(raw string) (*ProvisionedKey, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidURI, err)
	}
	if u.Scheme != "otpauth" {
		return nil, errors.Join(ErrInvalidURI, fmt.Errorf("scheme %q", u.Scheme))
	}
	if u.Host != "totp" {
		return nil, errors.Join(ErrInvalidURI, fmt.Errorf("type %q, only totp is supported", u.Host))
	}

	query := u.Query()
	secret := query.Get("secret")
	if secret == "" {
		return nil, errors.Join(ErrInvalidURI, ErrMissingSecret)
	}

	key := &ProvisionedKey{
		Params: Params{
			Secret:    secret,
			Algorithm: DefaultAlgorithm,
			Digits:    DefaultDigits,
			Period:    DefaultPeriod,
		},
	}

	if alg := query.Get("algorithm"); alg != "" {
		key.Algorithm = Algorithm(strings.ToUpper(alg))
	}
	if d := query.Get("digits"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			return nil, errors.Join(ErrInvalidURI, fmt.Errorf("digits %q: %w", d, err))
		}
		key.Digits = n
	}
	if p := query.Get("period"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Join(ErrInvalidURI, fmt.Errorf("period %q: %w", p, err))
		}
		key.Period = n
	}

	label := strings.TrimPrefix(u.Path, "/")
	if issuer, account, found := strings.Cut(label, ":"); found {
		key.Issuer = issuer
		key.Account = account
	} else {
		key.Account = label
	}
	if issuer := query.Get("issuer"); issuer != "" {
		key.Issuer = issuer
	}

	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}

// BuildURI renders the provisioning URI for a vault entry so it can be shown
// as a QR code to an authenticator app.
func BuildURI(params Params, issuer, account string) (string, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return "", err
	}

	label := url.PathEscape(account)
	if issuer != "" {
		label = fmt.Sprintf("%s:%s", url.PathEscape(issuer), url.PathEscape(account))
	}

	query := url.Values{}
	query.Set("secret", params.Secret)
	if issuer != "" {
		query.Set("issuer", issuer)
	}
	query.Set("algorithm", string(params.Algorithm))
	query.Set("digits", strconv.Itoa(params.Digits))
	query.Set("period", strconv.Itoa(params.Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}
