package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Token payload, carried base64url-encoded inside the Authorization header:
//
//	Authorization: SB1-HMAC-SHA256 <payloadB64>:<signatureHex>
//
// The signature is HMAC-SHA256 over the raw payloadB64 with the shared
// session secret. The scheme mirrors what warehouse kiosks can produce
// without a JWT library on their side.
const Scheme = "SB1-HMAC-SHA256 "

type tokenPayload struct {
	SessionID string         `json:"sid"`
	UserID    string         `json:"uid"`
	Email     string         `json:"email"`
	ExpiresAt int64          `json:"exp"`
	Metadata  map[string]any `json:"md,omitempty"`
}

// TokenVerifier checks SB1 bearer tokens against a shared secret. maxAge
// caps the accepted token lifetime: a token whose exp lies further in the
// future than maxAge is rejected regardless of signature, so a
// misconfigured issuer cannot mint long-lived sessions. maxAge <= 0
// disables the cap.
type TokenVerifier struct {
	secret []byte
	maxAge time.Duration
}

func NewTokenVerifier(secret string, maxAge time.Duration) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), maxAge: maxAge}
}

// Sign issues a token for the given identity. Used by provisioning tooling
// and tests; the production issuer is the external identity provider.
func (v *TokenVerifier) Sign(sessionID string, id Identity, ttl time.Duration) (string, error) {
	p := tokenPayload{
		SessionID: sessionID,
		UserID:    id.ID,
		Email:     id.Email,
		ExpiresAt: time.Now().Add(ttl).Unix(),
		Metadata:  id.Metadata,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	payloadB64 := base64.RawURLEncoding.EncodeToString(raw)
	m := hmac.New(sha256.New, v.secret)
	m.Write([]byte(payloadB64))
	return Scheme + payloadB64 + ":" + hex.EncodeToString(m.Sum(nil)), nil
}

// Verify parses and checks an Authorization header value.
// Returns the identity and the session key on success.
func (v *TokenVerifier) Verify(auth string) (*Identity, string, error) {
	if auth == "" {
		return nil, "", ErrNoSession
	}
	if !strings.HasPrefix(auth, Scheme) {
		return nil, "", ErrTokenInvalid
	}
	rest := strings.TrimPrefix(auth, Scheme)
	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return nil, "", ErrTokenInvalid
	}
	payloadB64 := rest[:colon]
	sigHex := rest[colon+1:]
	if len(sigHex) < 20 {
		return nil, "", ErrTokenInvalid
	}

	m := hmac.New(sha256.New, v.secret)
	m.Write([]byte(payloadB64))
	want := hex.EncodeToString(m.Sum(nil))

	// constant-time comparison
	if !hmac.Equal([]byte(strings.ToLower(sigHex)), []byte(want)) {
		return nil, "", ErrTokenInvalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return nil, "", ErrTokenInvalid
	}
	var p tokenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, "", ErrTokenInvalid
	}
	now := time.Now()
	if p.ExpiresAt <= now.Unix() {
		return nil, "", ErrTokenInvalid
	}
	if v.maxAge > 0 && time.Unix(p.ExpiresAt, 0).After(now.Add(v.maxAge)) {
		return nil, "", ErrTokenInvalid
	}
	if p.Email == "" {
		return nil, "", ErrTokenInvalid
	}
	return &Identity{ID: p.UserID, Email: p.Email, Metadata: p.Metadata}, p.SessionID, nil
}

// Middleware authenticates requests and stashes the identity in the context.
func Middleware(v *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, sessionKey, err := v.Verify(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id, sessionKey)))
		})
	}
}
