package jwt_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/campaign-naming-server-go/internal/utils/jwt"
)

func newSigner(now time.Time) jwt.Signer {
	return jwt.Signer{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Now:           func() time.Time { return now },
	}
}

func TestSigner_RoundTrip(t *testing.T) {
	now := time.Now()
	signer := newSigner(now)
	userID := uuid.New()

	pair, err := signer.IssuePair(userID, "ana@citizengo.net")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), pair.ExpiresAt, time.Second)

	claims, err := signer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@citizengo.net", claims.Email)

	refresh, err := signer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refresh.UserID)
}

func TestSigner_RejectsSwappedTokens(t *testing.T) {
	signer := newSigner(time.Now())
	pair, err := signer.IssuePair(uuid.New(), "")
	require.NoError(t, err)

	_, err = signer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	signer.RefreshSecret = signer.AccessSecret
	pair, err = signer.IssuePair(uuid.New(), "")
	require.NoError(t, err)

	_, err = signer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrWrongPurpose)
}

func TestSigner_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	pair, err := newSigner(issued).IssuePair(uuid.New(), "")
	require.NoError(t, err)

	_, err = newSigner(time.Now()).VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := jwt.VerifyToken("not-a-token", "secret")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
