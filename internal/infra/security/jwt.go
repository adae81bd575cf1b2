package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultAccessTokenTTL = 15 * time.Minute

var (
	// ErrTokenExpired indicates the token carries a valid signature but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates a structural or signature problem with the token.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenNotExpired indicates a refresh was attempted on a token that is
	// still valid.
	ErrTokenNotExpired = errors.New("token not expired")
)

// TokenService issues and validates signed session tokens. It is purely
// functional over a shared signing secret: no state is persisted and no I/O
// happens on any path.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService constructs a token service for the configured HMAC
// algorithm. Unrecognized algorithm identifiers are rejected at startup
// rather than falling back silently.
func NewTokenService(secret, algorithm string, accessTokenTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}

	method := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm)))
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q: expected HMAC", algorithm)
	}

	if accessTokenTTL <= 0 {
		accessTokenTTL = defaultAccessTokenTTL
	}

	return &TokenService{secret: []byte(secret), method: method, ttl: accessTokenTTL}, nil
}

// Issue signs the provided claims with an expiry of now + ttl. A ttl of
// exactly zero falls back to the configured default; a negative ttl produces
// a token that is already expired. A "role" claim is normalized to uppercase
// before signing.
func (s *TokenService) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.ttl
	}

	tokenClaims := jwt.MapClaims{}
	for k, v := range claims {
		tokenClaims[k] = v
	}
	if role, ok := tokenClaims["role"].(string); ok {
		tokenClaims["role"] = strings.ToUpper(role)
	}
	tokenClaims["exp"] = jwt.NewNumericDate(time.Now().UTC().Add(ttl))

	signed, err := jwt.NewWithClaims(s.method, tokenClaims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies signature and expiry and returns the embedded claims.
// Expected failures come back as tagged sentinels so callers can distinguish
// "retry with refresh" (ErrTokenExpired) from "reject outright" (ErrTokenInvalid).
func (s *TokenService) Decode(token string) (map[string]any, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.NewParser(jwt.WithValidMethods([]string{s.method.Alg()})).
		ParseWithClaims(token, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if parsed == nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// IsExpired reports whether the token's expiry has passed. Any decode
// failure counts as expired: the check fails closed.
func (s *TokenService) IsExpired(token string) bool {
	_, err := s.Decode(token)
	return err != nil
}

// Refresh reissues an expired token whose signature still verifies, carrying
// the same claims with a fresh expiry. A token that fails signature
// verification is never reissued, and a token that has not expired yet is
// rejected with ErrTokenNotExpired.
func (s *TokenService) Refresh(token string) (string, error) {
	claims, err := s.decodeSignatureOnly(token)
	if err != nil {
		return "", err
	}
	if !expiryPassed(claims) {
		return "", ErrTokenNotExpired
	}

	delete(claims, "exp")
	delete(claims, "iat")
	delete(claims, "nbf")

	return s.Issue(claims, 0)
}

// ExtractClaim returns a single claim value from a valid token.
func (s *TokenService) ExtractClaim(token, name string) (any, bool) {
	claims, err := s.Decode(token)
	if err != nil {
		return nil, false
	}

	value, ok := claims[name]
	return value, ok
}

// decodeSignatureOnly verifies the signature while skipping claim
// validation, so expired tokens still yield their claims.
func (s *TokenService) decodeSignatureOnly(token string) (map[string]any, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	).ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || parsed == nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// expiryPassed reports whether the "exp" claim lies in the past. A missing
// or malformed expiry counts as not expired.
func expiryPassed(claims map[string]any) bool {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().UTC().After(time.Unix(int64(exp), 0))
}

func (s *TokenService) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}
