package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims mirrors the access tokens issued by Supabase GoTrue.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session is the verified identity behind an access token.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// SessionVerifier validates access tokens either against the project's
// HS256 secret or against a JWKS endpoint.
type SessionVerifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	jwks    *keyfunc.JWKS
}

func NewHS256Verifier(secret string) *SessionVerifier {
	key := []byte(secret)
	return &SessionVerifier{
		keyFunc: func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("invalid signature algorithm: %v", token.Header["alg"])
			}
			return key, nil
		},
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// NewJWKSVerifier fetches the key set once and refreshes it in the
// background until ctx ends or Close is called.
func NewJWKSVerifier(ctx context.Context, jwksURL string) (*SessionVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &SessionVerifier{
		keyFunc: jwks.Keyfunc,
		methods: []string{"RS256", "ES256"},
		jwks:    jwks,
	}, nil
}

// Verify returns the session for a valid, unexpired token whose subject is
// a user id.
func (v *SessionVerifier) Verify(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: error when parsing token claims", ErrInvalidToken)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return &Session{UserID: userID, Email: claims.Email}, nil
}

// Close stops the JWKS refresh goroutine, if any.
func (v *SessionVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// JWTService issues HS256 tokens shaped like GoTrue's. It backs local
// development and tests; production tokens come from the auth provider.
type JWTService struct {
	secretKey     []byte
	tokenLifespan time.Duration
}

func NewJWTService(secretKey string, tokenLifespan time.Duration) *JWTService {
	return &JWTService{
		secretKey:     []byte(secretKey),
		tokenLifespan: tokenLifespan,
	}
}

func (s *JWTService) GenerateToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifespan)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{"authenticated"},
			Issuer:    "folio",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}
	return signed, nil
}
