package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin}

	token, expiresAt, err := m.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	p, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "alice", p.Username)
	assert.True(t, p.IsAdmin())
}

func TestJWTManager_TokensAreUnique(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}

	a, _, err := m.Issue(user)
	require.NoError(t, err)
	b, _, err := m.Issue(user)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTManager_Rejects(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}

	expired := NewJWTManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(user)
	require.NoError(t, err)

	otherKey, _, err := NewJWTManager("other", time.Hour).Issue(user)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": "USER",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": "ROOT", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "u1", "role": "USER", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	m := NewJWTManager("secret", time.Hour)
	for name, token := range map[string]string{
		"expired":      expiredToken,
		"wrong key":    otherKey,
		"no expiry":    noExp,
		"unknown role": badRole,
		"wrong method": hs512,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash)

	require.NoError(t, h.Compare(hash, "pw"))
	require.Error(t, h.Compare(hash, "nope"))
}

func TestNewBcryptHasher_DefaultsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}
