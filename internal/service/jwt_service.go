package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSessionTTL = time.Hour
	sessionIssuer     = "kakao-login"
)

// JWTService emite y valida tokens de sesión firmados con HS256.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// SessionToken es el token emitido al navegador.
type SessionToken struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int64     `json:"expires_in"`
}

type Claims struct {
	KakaoID string `json:"kakaoId"`
	jwt.RegisteredClaims
}

// NewJWTService falla con ErrConfig si el secreto está vacío; el llamador
// debe tratarlo como error fatal de arranque.
func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: jwt secret not configured", ErrConfig)
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: sessionIssuer,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue firma un token con la clave de identidad y expiración now+ttl.
func (s *JWTService) Issue(identityKey string) (SessionToken, error) {
	identityKey = strings.TrimSpace(identityKey)
	if identityKey == "" {
		return SessionToken{}, ErrJWTInvalid
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		KakaoID: identityKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identityKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{
		Value:     signed,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(s.ttl.Seconds()),
	}, nil
}

func (s *JWTService) Parse(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrJWTInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(claims.KakaoID) == "" || claims.Subject != claims.KakaoID {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}
