package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
	"github.com/BuzzLyutic/tasklist-api/internal/repo"
	"github.com/BuzzLyutic/tasklist-api/internal/repo/mocks"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *mocks.MockUserRepository) {
	t.Helper()
	users := new(mocks.MockUserRepository)
	a := NewAuthenticator(newTestTokens(t, time.Now()), NewMemoryDenylist(), users, zap.NewNop())
	return a, users
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: ErrMissingToken},
		{name: "no token", header: "Bearer ", wantErr: ErrInvalidToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidToken},
		{name: "no space", header: "Bearerabc", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticator_Login(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	active := model.User{ID: 1, Username: "test1", PasswordHash: hash, IsActive: true}
	inactive := model.User{ID: 2, Username: "gone", PasswordHash: hash, IsActive: false}

	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(*mocks.MockUserRepository)
		wantErr   error
	}{
		{
			name:     "valid credentials",
			username: "test1",
			password: "123456",
			setupMock: func(m *mocks.MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "test1").Return(active, nil)
			},
		},
		{
			name:     "wrong password",
			username: "test1",
			password: "nope",
			setupMock: func(m *mocks.MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "test1").Return(active, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "123456",
			setupMock: func(m *mocks.MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "ghost").Return(model.User{}, repo.ErrorNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "inactive user",
			username: "gone",
			password: "123456",
			setupMock: func(m *mocks.MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "gone").Return(inactive, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, users := newTestAuthenticator(t)
			tt.setupMock(users)

			token, err := a.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := a.tokens.Validate(token)
				require.NoError(t, err)
				assert.Equal(t, active.ID, claims.UserID)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	a, users := newTestAuthenticator(t)

	alice := model.User{ID: 1, Username: "test1", IsActive: true}
	token, err := a.tokens.Issue(alice)
	require.NoError(t, err)
	header := "Bearer " + token

	t.Run("valid token", func(t *testing.T) {
		users.On("GetByID", mock.Anything, int64(1)).Return(alice, nil).Once()

		claims, err := a.Authenticate(ctx, header)
		require.NoError(t, err)
		assert.Equal(t, model.Identity{UserID: 1, Username: "test1"}, claims.Identity())
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("deleted user", func(t *testing.T) {
		users.On("GetByID", mock.Anything, int64(1)).Return(model.User{}, repo.ErrorNotFound).Once()

		_, err := a.Authenticate(ctx, header)
		assert.ErrorIs(t, err, ErrInactiveUser)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("store failure is not unauthorized", func(t *testing.T) {
		users.On("GetByID", mock.Anything, int64(1)).Return(model.User{}, errors.New("db down")).Once()

		_, err := a.Authenticate(ctx, header)
		require.Error(t, err)
		assert.False(t, IsUnauthorized(err))
	})

	t.Run("revoked token", func(t *testing.T) {
		users.On("GetByID", mock.Anything, int64(1)).Return(alice, nil).Once()
		claims, err := a.Authenticate(ctx, header)
		require.NoError(t, err)

		require.NoError(t, a.Revoke(ctx, claims))

		_, err = a.Authenticate(ctx, header)
		assert.ErrorIs(t, err, ErrRevokedToken)
	})

	users.AssertExpectations(t)
}

func TestAuthenticator_CreateUser(t *testing.T) {
	a, users := newTestAuthenticator(t)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Username == "test1" && u.IsActive && CheckPassword(u.PasswordHash, "123456")
	})).Return(model.User{ID: 5, Username: "test1", IsActive: true}, nil)

	u, err := a.CreateUser(context.Background(), "test1", "123456")
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
	users.AssertExpectations(t)
}
