package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/musicverse/musicverse-backend-go/internal/domain/auth"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/jwt"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type memoryUsers struct {
	user.UserRepository

	mu    sync.Mutex
	users []user.User
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memoryUsers) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var u, e bool
	for _, existing := range m.users {
		u = u || strings.EqualFold(existing.Username, username)
		e = e || strings.EqualFold(existing.Email, email)
	}
	return u, e, nil
}

func (m *memoryUsers) Create(ctx context.Context, newUser user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newUser.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users = append(m.users, newUser)
	return newUser, nil
}

func setupAuthService(t *testing.T) (*AuthServiceImpl, *memoryUsers, *jwt.JWTService) {
	t.Helper()
	jwtSvc, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)

	users := &memoryUsers{}
	svc := NewAuthService(users, jwtSvc).(*AuthServiceImpl)
	svc.bcryptCost = bcrypt.MinCost
	return svc, users, jwtSvc
}

func validRegister() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, users, jwtSvc := setupAuthService(t)

	resp, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, user.RoleUser, resp.User.Role)

	require.Len(t, users.users, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.users[0].PasswordHash), []byte("password123")))

	token, err := jwtSvc.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	userID, _ := token.Get("user_id")
	assert.Equal(t, users.users[0].ID, userID)
}

func TestRegister_Conflicts(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegister())
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	req := validRegister()
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, user.ErrUsernameExists)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	req := validRegister()
	req.Role = user.RoleAdmin
	_, err := svc.Register(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "role", verrs[0].Field)
}

func TestLogin(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "ALICE@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Positive(t, resp.AccessTokenExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "nope-nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "bob@example.com", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, jwtSvc := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken, resp.AccessTokenExpiresAt))
	assert.True(t, jwtSvc.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(ctx, "", 0), auth.ErrInvalidToken)
}
