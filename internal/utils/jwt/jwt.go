package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or malformed token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

// Token purposes.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

const issuer = "campaign-naming-server"

type Claims struct {
	UserID  uuid.UUID `json:"id"`
	Email   string    `json:"email,omitempty"`
	Purpose string    `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Signer issues and verifies the access/refresh token pair.
type Signer struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

func (s Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssuePair creates a fresh access and refresh token for a user.
func (s Signer) IssuePair(userID uuid.UUID, email string) (TokenPair, error) {
	now := s.now()

	access, err := sign(Claims{UserID: userID, Email: email, Purpose: PurposeAccess}, s.AccessSecret, now, s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := sign(Claims{UserID: userID, Purpose: PurposeRefresh}, s.RefreshSecret, now, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(s.AccessTTL)}, nil
}

// VerifyAccess validates an access token.
func (s Signer) VerifyAccess(token string) (*Claims, error) {
	return s.verify(token, s.AccessSecret, PurposeAccess)
}

// VerifyRefresh validates a refresh token.
func (s Signer) VerifyRefresh(token string) (*Claims, error) {
	return s.verify(token, s.RefreshSecret, PurposeRefresh)
}

func (s Signer) verify(token, secret, purpose string) (*Claims, error) {
	claims, err := VerifyToken(token, secret, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func sign(claims Claims, secret string, now time.Time, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   claims.UserID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken validates an HS256 JWT and extracts claims.
func VerifyToken(tokenString string, secret string, opts ...jwt.ParserOption) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
