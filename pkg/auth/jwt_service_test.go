package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHS256_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "john@example.com")
	require.NoError(t, err)

	sess, err := NewHS256Verifier("test-secret").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, "john@example.com", sess.Email)
}

func TestHS256_Rejects(t *testing.T) {
	userID := uuid.New()
	v := NewHS256Verifier("test-secret")

	wrongKey, _ := NewJWTService("other-secret", time.Minute).GenerateToken(userID, "")
	_, err := v.Verify(wrongKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _ := NewJWTService("test-secret", -time.Minute).GenerateToken(userID, "")
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "service-role",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err := badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	})
	signed, err = noExpiry.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	const kid = "test-key"
	jwksBody, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err := NewJWKSVerifier(ctx, srv.URL)
	require.NoError(t, err)
	defer v.Close()

	userID := uuid.New()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		Email: "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(key)
	require.NoError(t, err)

	sess, err := v.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)

	// An HS256 token must not be accepted by a JWKS verifier.
	hs, _ := NewJWTService("secret", time.Minute).GenerateToken(userID, "")
	_, err = v.Verify(hs)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
