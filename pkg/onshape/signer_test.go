package onshape

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewSignerRejectsMalformedCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty access key", Credentials{AccessKey: "", SecretKey: "secret"}},
		{"empty secret key", Credentials{AccessKey: "access", SecretKey: ""}},
		{"both empty", Credentials{}},
		{"nul byte in secret", Credentials{AccessKey: "access", SecretKey: "se\x00cret"}},
		{"newline in access key", Credentials{AccessKey: "acc\ness", SecretKey: "secret"}},
		{"space in access key", Credentials{AccessKey: "acc ess", SecretKey: "secret"}},
		{"non-ascii secret", Credentials{AccessKey: "access", SecretKey: "sécret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSigner(tt.creds)
			if err == nil {
				t.Fatal("NewSigner() accepted malformed credentials")
			}
			if !IsKind(err, KindAuthEncoding) {
				t.Errorf("NewSigner() error kind = %v, want auth_encoding", err)
			}
		})
	}
}

func TestNewSignerAcceptsValidCredentials(t *testing.T) {
	if _, err := NewSigner(Credentials{AccessKey: "AbC123+/=", SecretKey: "xYz789+/="}); err != nil {
		t.Fatalf("NewSigner() = %v, want nil", err)
	}
}

func TestSignatureDeterministic(t *testing.T) {
	s, err := NewSigner(Credentials{AccessKey: "access", SecretKey: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	args := []string{"GET", "nonce123", "Mon, 02 Jan 2006 15:04:05 GMT", "application/json",
		"/api/v6/partstudios/d/x/w/y/e/z/variables", ""}

	first := s.signature(args[0], args[1], args[2], args[3], args[4], args[5])
	second := s.signature(args[0], args[1], args[2], args[3], args[4], args[5])
	if first != second {
		t.Errorf("signature not deterministic: %q vs %q", first, second)
	}

	other, _ := NewSigner(Credentials{AccessKey: "access", SecretKey: "different"})
	if got := other.signature(args[0], args[1], args[2], args[3], args[4], args[5]); got == first {
		t.Error("different secret keys produced the same signature")
	}
}

func TestSignatureCaseFolding(t *testing.T) {
	s, err := NewSigner(Credentials{AccessKey: "access", SecretKey: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	lower := s.signature("get", "nonce", "date", "application/json", "/api/v6/x", "a=b")
	upper := s.signature("GET", "NONCE", "DATE", "APPLICATION/JSON", "/API/v6/X", "A=B")
	if lower != upper {
		t.Error("canonical string is not case-folded before signing")
	}

	changedPath := s.signature("get", "nonce", "date", "application/json", "/api/v6/x/", "a=b")
	if changedPath == lower {
		t.Error("trailing slash did not change the signature")
	}
}

func TestSignHeaders(t *testing.T) {
	s, err := NewSigner(Credentials{AccessKey: "myAccessKey", SecretKey: "mySecretKey"})
	if err != nil {
		t.Fatal(err)
	}

	date := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	h := s.Sign("POST", "/api/v6/partstudios/d/x/w/y/e/z/translations", "", "application/json", date)

	auth := h.Get("Authorization")
	if !strings.HasPrefix(auth, "On myAccessKey:HmacSHA256:") {
		t.Errorf("Authorization = %q, want On <key>:HmacSHA256:<sig>", auth)
	}
	if sig := strings.TrimPrefix(auth, "On myAccessKey:HmacSHA256:"); sig == "" {
		t.Error("Authorization carries an empty signature")
	}

	nonce := h.Get("On-Nonce")
	if len(nonce) < 16 {
		t.Errorf("On-Nonce = %q, want at least 16 characters", nonce)
	}

	if _, err := time.Parse(http.TimeFormat, h.Get("Date")); err != nil {
		t.Errorf("Date header %q is not RFC1123 GMT: %v", h.Get("Date"), err)
	}

	if ct := h.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestSignUsesFreshNonce(t *testing.T) {
	s, _ := NewSigner(Credentials{AccessKey: "a", SecretKey: "b"})
	date := time.Now()
	first := s.Sign("GET", "/api/v6/x", "", "application/json", date)
	second := s.Sign("GET", "/api/v6/x", "", "application/json", date)
	if first.Get("On-Nonce") == second.Get("On-Nonce") {
		t.Error("two signatures reused the same nonce")
	}
}
