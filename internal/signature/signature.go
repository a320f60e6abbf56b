// Package signature implements the keyed-hash scheme shared by both payment
// gateways: parameters are canonicalized into a deterministic string and
// signed with the gateway's HMAC algorithm and secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"sort"
	"strings"
)

// Algorithm identifies the keyed-hash algorithm of a gateway.
type Algorithm string

const (
	HMACSHA256 Algorithm = "HMAC-SHA256"
	HMACSHA512 Algorithm = "HMAC-SHA512"
)

func (a Algorithm) hashFunc() (func() hash.Hash, error) {
	switch a {
	case HMACSHA256:
		return sha256.New, nil
	case HMACSHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("unsupported signature algorithm: %s", a)
}

// Canonicalize builds the deterministic signing input: parameters sorted
// lexicographically by key and concatenated as URL-encoded key=value pairs
// joined with '&'. Keys listed in exclude are left out (the signature field
// itself, when verifying a callback).
func Canonicalize(params map[string]string, exclude ...string) string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		excluded[k] = struct{}{}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if _, skip := excluded[k]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// Sign computes the lowercase hex HMAC of the canonical parameter string.
func Sign(params map[string]string, algo Algorithm, secret string, exclude ...string) (string, error) {
	h, err := algo.hashFunc()
	if err != nil {
		return "", err
	}

	mac := hmac.New(h, []byte(secret))
	mac.Write([]byte(Canonicalize(params, exclude...)))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the signature over params (excluding the listed fields)
// and compares it with the claimed value in constant time. Hex case is
// ignored; a claimed value that is not valid hex never verifies.
func Verify(params map[string]string, claimed string, algo Algorithm, secret string, exclude ...string) (bool, error) {
	expected, err := Sign(params, algo, secret, exclude...)
	if err != nil {
		return false, err
	}

	claimedBytes, err := hex.DecodeString(strings.ToLower(claimed))
	if err != nil {
		return false, nil
	}
	expectedBytes, err := hex.DecodeString(expected)
	if err != nil {
		return false, err
	}

	return hmac.Equal(expectedBytes, claimedBytes), nil
}
