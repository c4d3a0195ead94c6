package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return &Issuer{
		Secret:   []byte("test-jwt-secret"),
		Issuer:   "flower_shop",
		Audience: "flower_shop_clients",
		TTL:      time.Hour,
	}
}

func TestIssue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	now := time.Now().UTC()

	token, exp, err := iss.Issue(7, "lily", "seller", now)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "lily", claims.Name)
	assert.Equal(t, "seller", claims.Role)
	assert.Equal(t, "flower_shop", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	good, _, err := iss.Issue(1, "u", "user", time.Now())
	require.NoError(t, err)

	expired, _, err := iss.Issue(1, "u", "user", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	other := *iss
	other.Secret = []byte("other-secret")
	foreign, _, err := other.Issue(1, "u", "user", time.Now())
	require.NoError(t, err)

	wrongAud := *iss
	wrongAud.Audience = "someone-else"
	audToken, _, err := wrongAud.Issue(1, "u", "user", time.Now())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1}).SignedString(iss.Secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "wrong audience", token: audToken},
		{name: "wrong algorithm", token: none},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := iss.Parse(tt.token)
			assert.Error(t, err)
		})
	}

	_, err = iss.Parse(good)
	assert.NoError(t, err)
}
