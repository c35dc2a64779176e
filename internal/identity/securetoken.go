package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const defaultCertRefresh = time.Hour

// SecureTokenVerifier validates Google secure-token style ID tokens
// (RS256, audience = project id, issuer = securetoken issuer for the
// project) against the provider's published x509 certificate set.
type SecureTokenVerifier struct {
	projectID string
	certsURL  string
	client    *http.Client

	mu           sync.Mutex
	keys         map[string]*rsa.PublicKey
	refreshAfter time.Time
}

type secureTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// NewSecureTokenVerifier creates a verifier for the given provider project.
func NewSecureTokenVerifier(projectID, certsURL string) (*SecureTokenVerifier, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("identity: project id is required")
	}
	if strings.TrimSpace(certsURL) == "" {
		return nil, errors.New("identity: certs url is required")
	}
	return &SecureTokenVerifier{
		projectID: strings.TrimSpace(projectID),
		certsURL:  strings.TrimSpace(certsURL),
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Verify validates the assertion and extracts the identity claims. Any
// verification failure is reported as ErrInvalidAssertion; only key-set
// fetch problems surface separately.
func (v *SecureTokenVerifier) Verify(ctx context.Context, assertion string) (*ExternalIdentity, error) {
	trimmed := strings.TrimSpace(assertion)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty assertion", ErrInvalidAssertion)
	}

	issuer := "https://securetoken.google.com/" + v.projectID
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(issuer),
	)

	claims := &secureTokenClaims{}
	token, err := parser.ParseWithClaims(trimmed, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("assertion has no kid header")
		}
		return v.keyForKid(ctx, kid)
	})
	if err != nil {
		logrus.WithError(err).Warn("identity assertion rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidAssertion)
	}

	return &ExternalIdentity{
		SubjectID:   claims.Subject,
		Email:       strings.ToLower(strings.TrimSpace(claims.Email)),
		DisplayName: strings.TrimSpace(claims.Name),
	}, nil
}

func (v *SecureTokenVerifier) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys == nil || time.Now().After(v.refreshAfter) {
		keys, maxAge, err := v.fetchKeys(ctx)
		if err != nil {
			return nil, err
		}
		v.keys = keys
		v.refreshAfter = time.Now().Add(maxAge)
	}

	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no certificate for kid %q", kid)
	}
	return key, nil
}

// fetchKeys downloads the provider's kid→PEM certificate map and honours
// the Cache-Control max-age for refresh scheduling.
func (v *SecureTokenVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch provider certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch provider certs: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read provider certs: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode provider certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, certPEM := range raw {
		key, err := parseCertPublicKey(certPEM)
		if err != nil {
			logrus.WithError(err).WithField("kid", kid).Warn("skipping unparsable provider cert")
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return nil, 0, errors.New("provider cert set is empty")
	}

	return keys, certMaxAge(resp.Header.Get("Cache-Control")), nil
}

func parseCertPublicKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("no PEM block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate key is not RSA")
	}
	return key, nil
}

// certMaxAge extracts max-age from a Cache-Control header, falling back
// to a fixed refresh interval.
func certMaxAge(header string) time.Duration {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "max-age=") {
			continue
		}
		seconds, err := strconv.Atoi(strings.TrimPrefix(part, "max-age="))
		if err != nil || seconds <= 0 {
			break
		}
		return time.Duration(seconds) * time.Second
	}
	return defaultCertRefresh
}

var _ Verifier = (*SecureTokenVerifier)(nil)
