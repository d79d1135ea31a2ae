package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/auth"
	"github.com/erp/storefront/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]identity.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestService() (*AuthService, *fakeUserRepo, *recordingPublisher, *auth.JWTService) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
	})
	repo := newFakeUserRepo()
	publisher := &recordingPublisher{}
	return NewAuthService(repo, jwtService, publisher, nil), repo, publisher, jwtService
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	svc, repo, publisher, _ := newTestService()

	resp, err := svc.Register(ctx, RegisterRequest{
		Username:  "Judy",
		Email:     "judy@example.com",
		Password:  "password123",
		FirstName: "Judy",
	})
	require.NoError(t, err)
	assert.Equal(t, "judy", resp.Username)
	assert.False(t, resp.IsStaff)

	stored, err := repo.FindByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, identity.EventTypeUserRegistered, publisher.events[0].EventType())

	_, err = svc.Register(ctx, RegisterRequest{Username: "judy", Password: "password456"})
	assert.Same(t, ErrUsernameTaken, err)
	assert.Len(t, publisher.events, 1)
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _, _, jwtService := newTestService()

	user, err := svc.CreateUser(ctx, NewUserInput{Username: "admin", Password: "password123", IsStaff: true})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "admin", Password: "wrong-password"})
	assert.Same(t, ErrInvalidCredentials, err)
	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "password123"})
	assert.Same(t, ErrInvalidCredentials, err)

	tokens, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotNil(t, tokens.User.LastLoginAt)

	claims, err := jwtService.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	principal, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.True(t, principal.IsStaff)
	assert.True(t, principal.HasPermission("customer:read"))

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.AccessToken})
	assert.Same(t, ErrInvalidRefresh, err)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	user, err := svc.CreateUser(ctx, NewUserInput{Username: "kim", Password: "password123", LastName: "Lee"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lee", me.LastName)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPrincipalFor(t *testing.T) {
	user, err := identity.NewUser("leo", "", "password123")
	require.NoError(t, err)
	assert.Empty(t, PrincipalFor(user).Permissions)

	user.GrantStaff()
	assert.Equal(t, StaffPermissions, PrincipalFor(user).Permissions)
}
