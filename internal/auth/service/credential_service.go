package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// credentialClaims is the wire shape of both credential kinds. Identity
// credentials carry only the registered claims plus Kind; capability
// credentials additionally pin the scope set, model, and token ceiling.
type credentialClaims struct {
	jwt.RegisteredClaims
	Kind      string   `json:"type"`
	Scopes    []string `json:"scope,omitempty"`
	Model     string   `json:"model,omitempty"`
	MaxTokens int      `json:"max_tokens,omitempty"`
}

// credentialService implements CredentialService using HMAC-SHA256 signed JWTs.
type credentialService struct {
	signingSecret        []byte
	identityExpiration   time.Duration
	capabilityExpiration time.Duration
	now                  func() time.Time
}

// MintIdentity creates a signed identity credential for the subject.
func (c *credentialService) MintIdentity(subject string) (string, error) {
	now := c.now()
	claims := credentialClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.identityExpiration)),
		},
		Kind: string(authDomain.KindIdentity),
	}
	return c.sign(claims)
}

// MintCapability creates a signed capability credential with the scope set,
// model, and token ceiling pinned at mint time.
func (c *credentialService) MintCapability(subject string, scopes []string, model string, maxTokens int) (string, error) {
	now := c.now()
	claims := credentialClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.capabilityExpiration)),
		},
		Kind:      string(authDomain.KindCapability),
		Scopes:    scopes,
		Model:     model,
		MaxTokens: maxTokens,
	}
	return c.sign(claims)
}

func (c *credentialService) sign(claims credentialClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signingSecret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign credential")
	}
	return signed, nil
}

// Decode verifies the token and returns the embedded credential. Every
// failure mode collapses to (nil, false); callers never learn why a token
// was rejected.
func (c *credentialService) Decode(tokenString string) (*authDomain.Credential, bool) {
	claims := &credentialClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.New("unexpected signing method")
			}
			return c.signingSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	credential := &authDomain.Credential{
		Subject:   claims.Subject,
		Kind:      authDomain.CredentialKind(claims.Kind),
		Scopes:    claims.Scopes,
		Model:     claims.Model,
		MaxTokens: claims.MaxTokens,
	}
	if claims.ExpiresAt != nil {
		credential.ExpiresAt = claims.ExpiresAt.Time
	}
	if !credential.IsWellFormed() {
		return nil, false
	}
	return credential, true
}

// NewCredentialService creates a CredentialService that signs credentials
// with HMAC-SHA256 using the given secret.
func NewCredentialService(signingSecret []byte, identityExpiration, capabilityExpiration time.Duration) CredentialService {
	return &credentialService{
		signingSecret:        signingSecret,
		identityExpiration:   identityExpiration,
		capabilityExpiration: capabilityExpiration,
		now:                  time.Now,
	}
}
