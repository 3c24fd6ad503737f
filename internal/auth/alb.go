package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
)

// maxSessions bounds the access token cache; the cache is reset when full.
const maxSessions = 1024

// maxKeyBytes bounds the size of a fetched public key document.
const maxKeyBytes = 16 << 10

// KeyFetcher resolves the public key that signed an ALB token.
type KeyFetcher interface {
	FetchKey(ctx context.Context, keyID string) (crypto.PublicKey, error)
}

// HTTPKeyFetcher downloads PEM encoded keys from the regional ALB key endpoint.
type HTTPKeyFetcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPKeyFetcher returns a fetcher for keys served under endpoint.
// A nil client gets one with the default key fetch timeout.
func NewHTTPKeyFetcher(endpoint string, client *http.Client) *HTTPKeyFetcher {
	if client == nil {
		client = &http.Client{Timeout: constants.ALBPublicKeyFetchTimeout}
	}
	return &HTTPKeyFetcher{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   client,
	}
}

// FetchKey downloads and parses the ES256 public key with the given ID.
func (f *HTTPKeyFetcher) FetchKey(ctx context.Context, keyID string) (crypto.PublicKey, error) {
	keyURL := f.endpoint + "/" + url.PathEscape(keyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keyURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build key request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key %q: %w", keyID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch public key %q: unexpected status %d", keyID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read public key %q: %w", keyID, err)
	}

	return ParsePublicKey(body)
}

// ParsePublicKey decodes a PEM encoded ECDSA public key.
func ParsePublicKey(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("public key is not PEM encoded")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	ecKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", key)
	}
	return ecKey, nil
}

type userClaims struct {
	MITID             string `json:"mit_id"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

// ALBAuthenticator builds users from the OIDC headers added by the load balancer.
// Users are cached per access token so the claims are only verified again
// once the load balancer refreshes the token.
type ALBAuthenticator struct {
	keys   KeyFetcher
	logger *slog.Logger

	mu       sync.Mutex
	keyCache map[string]crypto.PublicKey
	sessions map[string]*User
}

// NewALBAuthenticator creates an authenticator that verifies tokens with keys from fetcher.
func NewALBAuthenticator(keys KeyFetcher, log *slog.Logger) *ALBAuthenticator {
	return &ALBAuthenticator{
		keys:     keys,
		logger:   log,
		keyCache: make(map[string]crypto.PublicKey),
		sessions: make(map[string]*User),
	}
}

// Authenticate returns the user described by the request headers.
func (a *ALBAuthenticator) Authenticate(ctx context.Context, header http.Header) (*User, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, a.logger)

	accessToken := header.Get(constants.OIDCAccessTokenHeader)
	if accessToken == "" {
		reqLogger.Error(fmt.Sprintf("Access token ('%s') is missing from the request headers.",
			constants.OIDCAccessTokenHeader))
		return nil, appErrors.ErrUnauthorized("missing access token", nil)
	}

	data := header.Get(constants.OIDCDataHeader)
	if data == "" {
		reqLogger.Error(fmt.Sprintf("User data ('%s') is missing from the request headers.",
			constants.OIDCDataHeader))
		return nil, appErrors.ErrUnauthorized("missing user data", nil)
	}

	if user := a.cachedUser(accessToken); user != nil {
		return user, nil
	}

	user, err := a.parseUserData(ctx, data)
	if err != nil {
		reqLogger.Error("failed to parse user data", "error", err)
		return nil, appErrors.ErrUnauthorized("invalid user data", err)
	}

	a.storeUser(accessToken, user)
	reqLogger.Debug("user data refreshed", "mit_id", user.MITID)

	return user, nil
}

// Logout drops the cached user for the request's access token.
// The load balancer session itself is not ended.
func (a *ALBAuthenticator) Logout(header http.Header) {
	accessToken := header.Get(constants.OIDCAccessTokenHeader)
	if accessToken == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, accessToken)
}

func (a *ALBAuthenticator) parseUserData(ctx context.Context, data string) (*User, error) {
	token, err := normalizeToken(data)
	if err != nil {
		return nil, err
	}

	keyID, err := tokenKeyID(token)
	if err != nil {
		return nil, err
	}

	key, err := a.publicKey(ctx, keyID)
	if err != nil {
		return nil, err
	}

	verifier := oidc.NewVerifier("", &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key}}, &oidc.Config{
		SkipClientIDCheck:    true,
		SkipExpiryCheck:      true,
		SkipIssuerCheck:      true,
		SupportedSigningAlgs: []string{oidc.ES256},
	})

	idToken, err := verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user data: %w", err)
	}

	var claims userClaims
	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode user claims: %w", err)
	}
	if claims.MITID == "" {
		return nil, errors.New("user data has no mit_id claim")
	}

	return &User{
		MITID: claims.MITID,
		Name:  claims.Name,
		Email: claims.PreferredUsername,
	}, nil
}

func (a *ALBAuthenticator) publicKey(ctx context.Context, keyID string) (crypto.PublicKey, error) {
	a.mu.Lock()
	key, ok := a.keyCache[keyID]
	a.mu.Unlock()
	if ok {
		return key, nil
	}

	a.logger.Debug("calling external service", "context", map[string]any{
		"operation": "ALB.GetPublicKey",
		"key_id":    keyID,
	})

	key, err := a.keys.FetchKey(ctx, keyID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.keyCache[keyID] = key
	a.mu.Unlock()

	return key, nil
}

func (a *ALBAuthenticator) cachedUser(accessToken string) *User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[accessToken]
}

func (a *ALBAuthenticator) storeUser(accessToken string, user *User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.sessions) >= maxSessions {
		clear(a.sessions)
	}
	a.sessions[accessToken] = user
}

// normalizeToken strips the base64 padding the load balancer leaves on each segment.
func normalizeToken(data string) (string, error) {
	parts := strings.Split(strings.TrimSpace(data), ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed token: expected 3 segments, got %d", len(parts))
	}
	for i, part := range parts {
		parts[i] = strings.TrimRight(part, "=")
	}
	return strings.Join(parts, "."), nil
}

func tokenKeyID(token string) (string, error) {
	rawHeader, _, _ := strings.Cut(token, ".")
	decoded, err := base64.RawURLEncoding.DecodeString(rawHeader)
	if err != nil {
		return "", fmt.Errorf("malformed token header: %w", err)
	}

	var header struct {
		KeyID string `json:"kid"`
	}
	if err = json.Unmarshal(decoded, &header); err != nil {
		return "", fmt.Errorf("malformed token header: %w", err)
	}
	if header.KeyID == "" {
		return "", errors.New("token header has no kid")
	}
	return header.KeyID, nil
}
