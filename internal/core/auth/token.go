package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cse-motors/dealership/internal/core/domain"
)

const DefaultTokenTTL = time.Hour

// Claims is the signed identity carried in the session cookie.
type Claims struct {
	AccountID int64  `json:"account_id"`
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
	Email     string `json:"account_email"`
	Role      string `json:"account_type"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into a request identity.
func (c *Claims) Identity() (domain.Identity, error) {
	role, ok := domain.ParseRole(c.Role)
	if !ok {
		return domain.Anonymous, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, c.Role)
	}
	if c.AccountID <= 0 {
		return domain.Anonymous, fmt.Errorf("%w: missing account id", domain.ErrInvalidToken)
	}
	return domain.Identity{
		AccountID: c.AccountID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Role:      role,
	}, nil
}

// TokenService issues and verifies HS256 session tokens with one process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the service reading time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs a token for id and returns it with its absolute expiry.
func (s *TokenService) Issue(id domain.Identity) (string, time.Time, error) {
	if !id.Authenticated() {
		return "", time.Time{}, fmt.Errorf("issue token: identity is not authenticated")
	}
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		AccountID: id.AccountID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry. Every failure wraps
// domain.ErrInvalidToken; jwt.ErrTokenExpired stays reachable for logging.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// ResolveIdentity never fails: any token problem yields the anonymous identity
// together with the reason, which callers may log.
func (s *TokenService) ResolveIdentity(token string) (domain.Identity, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return domain.Anonymous, err
	}
	id, err := claims.Identity()
	if err != nil {
		return domain.Anonymous, err
	}
	return id, nil
}

// FailureReason classifies a verification error for logs only.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
