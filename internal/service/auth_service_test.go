package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	dr "disaster_response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthOpts = AuthOptions{SigningKey: "test-signing-key", TokenTTL: 15 * time.Minute}

// stubOperators keeps operator accounts in memory.
type stubOperators struct {
	users     map[string]*dr.User
	createErr error
	lookupErr error
	created   []string
}

func (s *stubOperators) Create(username, hash string) (int, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	if s.users == nil {
		s.users = map[string]*dr.User{}
	}
	id := len(s.users) + 1
	s.users[username] = &dr.User{ID: id, Username: username, PasswordHash: hash}
	s.created = append(s.created, username)
	return id, nil
}

func (s *stubOperators) GetByUsername(username string) (*dr.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.users[username], nil
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, userID int, issued, expires time.Time) string {
	t.Helper()
	tk := jwt.NewWithClaims(method, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
		UserID: userID,
	})
	s, err := tk.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthService_SignUpThenSignIn(t *testing.T) {
	t.Parallel()

	repo := &stubOperators{}
	svc := NewAuthService(repo, testAuthOpts)

	id, err := svc.SignUp("dispatcher", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	stored := repo.users["dispatcher"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cr3t", stored.PasswordHash)
	assert.NoError(t, verifyPassword(stored.PasswordHash, "s3cr3t"))

	token, err := svc.GenerateToken("dispatcher", "s3cr3t")
	require.NoError(t, err)
	uid, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, uid)
}

func TestAuthService_SignUpRejects(t *testing.T) {
	t.Parallel()

	dbDown := errors.New("db down")
	tests := []struct {
		name     string
		repo     *stubOperators
		username string
		password string
		wantErr  error
	}{
		{name: "blank username", repo: &stubOperators{}, username: "  ", password: "pw", wantErr: ErrEmptyUsername},
		{name: "blank password", repo: &stubOperators{}, username: "bob", password: "   "},
		{name: "repository failure", repo: &stubOperators{createErr: dbDown}, username: "carl", password: "pass123", wantErr: dbDown},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewAuthService(tc.repo, testAuthOpts).SignUp(tc.username, tc.password)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Empty(t, tc.repo.created)
		})
	}
}

func TestAuthService_GenerateTokenRejects(t *testing.T) {
	t.Parallel()

	hash, err := hashPassword("correct")
	require.NoError(t, err)
	known := map[string]*dr.User{"eve": {ID: 1, Username: "eve", PasswordHash: hash}}
	queryFailed := errors.New("query failed")

	tests := []struct {
		name     string
		repo     *stubOperators
		username string
		password string
		wantErr  error
	}{
		{name: "unknown operator", repo: &stubOperators{users: known}, username: "ghost", password: "pw", wantErr: ErrUserNotFound},
		{name: "wrong password", repo: &stubOperators{users: known}, username: "eve", password: "wrong", wantErr: ErrInvalidPassword},
		{name: "lookup failure", repo: &stubOperators{lookupErr: queryFailed}, username: "eve", password: "correct", wantErr: queryFailed},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			token, err := NewAuthService(tc.repo, testAuthOpts).GenerateToken(tc.username, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, token)
		})
	}
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "not-a-jwt"},
		{name: "foreign key", token: signClaims(t, jwt.SigningMethodHS256, []byte("different-key"), 5, now, now.Add(time.Hour))},
		{name: "expired", token: signClaims(t, jwt.SigningMethodHS256, []byte(testAuthOpts.SigningKey), 11, now.Add(-2*time.Hour), now.Add(-time.Hour))},
		{name: "non-hmac algorithm", token: signClaims(t, jwt.SigningMethodRS256, rsaKey, 12, now, now.Add(time.Hour))},
	}

	svc := NewAuthService(&stubOperators{}, testAuthOpts)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			uid, err := svc.ParseToken(tc.token)
			assert.Error(t, err)
			assert.Zero(t, uid)
		})
	}
}

func TestAuthService_TokenTTL(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 11, 10, 0, 0, 0, time.UTC)
	for _, opts := range []AuthOptions{testAuthOpts, {SigningKey: "k"}} {
		svc := NewAuthService(&stubOperators{}, opts)
		tokenStr, err := svc.issueToken(3, issued)
		require.NoError(t, err)

		claims := &Claims{}
		_, _, err = jwt.NewParser().ParseUnverified(tokenStr, claims)
		require.NoError(t, err)

		want := opts.TokenTTL
		if want == 0 {
			want = defaultTokenTTL
		}
		assert.Equal(t, want, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
		assert.Equal(t, 3, claims.UserID)
	}
}
