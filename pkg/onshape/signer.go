package onshape

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credentials hold an Onshape API key pair. The secret key is used only
// to compute per-request signatures and is never logged.
type Credentials struct {
	AccessKey string
	SecretKey string
}

func (c Credentials) validate() error {
	for _, key := range []string{c.AccessKey, c.SecretKey} {
		if key == "" {
			return &Error{Kind: KindAuthEncoding, Message: "access key and secret key must be non-empty"}
		}
		for _, r := range key {
			if r <= ' ' || r > '~' {
				return &Error{Kind: KindAuthEncoding, Message: "API keys must be printable ASCII without whitespace"}
			}
		}
	}
	return nil
}

// Signer computes Onshape HMAC-SHA256 authentication headers. It holds
// no mutable state and is safe for concurrent use.
type Signer struct {
	creds Credentials
}

// NewSigner validates the credentials and returns a signer.
func NewSigner(creds Credentials) (*Signer, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	return &Signer{creds: creds}, nil
}

// Sign produces the authentication headers for a single request. path
// is the URL path, query the raw encoded query string.
func (s *Signer) Sign(method, path, query, contentType string, date time.Time) http.Header {
	nonce := newNonce()
	httpDate := date.UTC().Format(http.TimeFormat)
	sig := s.signature(method, nonce, httpDate, contentType, path, query)

	h := make(http.Header)
	h.Set("Date", httpDate)
	h.Set("On-Nonce", nonce)
	h.Set("Content-Type", contentType)
	h.Set("Authorization", fmt.Sprintf("On %s:HmacSHA256:%s", s.creds.AccessKey, sig))
	return h
}

// signature builds the canonical string and MACs it. The whole string
// is lowercased per the Onshape canonicalization; path and query must
// match the request URL bit-for-bit before folding or the remote side
// rejects the signature.
func (s *Signer) signature(method, nonce, date, contentType, path, query string) string {
	canonical := strings.ToLower(
		method + "\n" + nonce + "\n" + date + "\n" + contentType + "\n" + path + "\n" + query + "\n")

	mac := hmac.New(sha256.New, []byte(s.creds.SecretKey))
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// newNonce returns a fresh 32-character hex nonce.
func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
