package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/id"
)

// --- fakes ---

type fakeUserRepo struct {
	byID    map[id.ID]*User
	byEmail map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[id.ID]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	cp := *user
	r.byID[user.ID] = &cp
	r.byEmail[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	if u, ok := r.byID[userID]; ok && u.DeletedAt == nil {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	if u, ok := r.byEmail[email]; ok && u.DeletedAt == nil {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID.String())
	}
	cp := *user
	r.byID[user.ID] = &cp
	r.byEmail[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID id.ID) error {
	u, ok := r.byID[userID]
	if !ok {
		return apperror.NewNotFound("user", userID.String())
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter UserFilter) ([]User, int64, error) {
	var users []User
	for _, u := range r.byID {
		if u.DeletedAt == nil {
			users = append(users, *u)
		}
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, ok := r.byEmail[email]
	return ok && u.DeletedAt == nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

type fakeTokenRepo struct {
	byHash  map[string]*RefreshToken
	revoked int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]*RefreshToken)}
}

func (r *fakeTokenRepo) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	cp := *token
	r.byHash[token.TokenHash] = &cp
	return nil
}

func (r *fakeTokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	if t, ok := r.byHash[tokenHash]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperror.NewNotFound("refresh_token", tokenHash)
}

func (r *fakeTokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	for _, t := range r.byHash {
		if t.ID == tokenID {
			now := time.Now().UTC()
			t.RevokedAt = &now
			t.RevokedReason = reason
			r.revoked++
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	for _, t := range r.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now().UTC()
			t.RevokedAt = &now
			t.RevokedReason = reason
			r.revoked++
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

// --- harness ---

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	svc := NewService(users, tokens, NewJWTService(DefaultJWTConfig("test-secret")), DefaultServiceConfig())
	return svc, users, tokens
}

func createUser(t *testing.T, svc *Service, email, password, role string) *User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:     "Test User",
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

// --- tests ---

func TestService_CreateUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	user := createUser(t, svc, "Manager@Example.com", "s3cret-pass", RoleStockManager)

	// Email is normalized and the password never stored in clear.
	assert.Equal(t, "manager@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, user.IsActive)
}

func TestService_CreateUser_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{Name: "X", Email: "x@example.com", Password: "short", Role: RoleAdmin})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.CreateUser(ctx, CreateUserRequest{Name: "X", Email: "x@example.com", Password: "long-enough", Role: "superuser"})
	assert.True(t, apperror.IsValidation(err))
}

func TestService_CreateUser_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	createUser(t, svc, "dup@example.com", "s3cret-pass", RoleStockExecutive)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Other", Email: "DUP@example.com", Password: "s3cret-pass", Role: RoleStockExecutive,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestService_Login(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)

	tokens, user, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotNil(t, user.LastLoginAt)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)

	_, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	// Unknown email reads exactly the same.
	_, _, err = svc.Login(ctx, Credentials{Email: "nobody@example.com", Password: "wrong"})
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	u := createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "wrong"})
		require.Error(t, err)
	}

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked())

	// The right password does not help while locked.
	_, _, err = svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	assert.Error(t, err)
}

func TestService_Login_DisabledAccount(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	u := createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)
	stored, _ := users.GetByID(ctx, u.ID)
	stored.IsActive = false
	require.NoError(t, users.Update(ctx, stored))

	_, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestService_RefreshToken_Rotates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)
	tokens, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// The spent token is one-shot.
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_RefreshToken_Unknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RefreshToken(context.Background(), "bogus")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_Logout_RevokesAllTokens(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	u := createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)
	_, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))
	assert.Equal(t, 2, tokens.revoked)
}

func TestService_UpdateUser_DeactivationKillsSessions(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	u := createUser(t, svc, "user@example.com", "s3cret-pass", RoleStockExecutive)
	_, _, err := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(ctx, u.ID, UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 1, tokens.revoked)
}

func TestService_DeleteUser_RefusesSelf(t *testing.T) {
	svc, _, _ := newTestService(t)

	u := createUser(t, svc, "admin@example.com", "s3cret-pass", RoleAdmin)
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: u.ID.String()})

	err := svc.DeleteUser(ctx, u.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestService_ChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u := createUser(t, svc, "user@example.com", "old-password", RoleStockExecutive)

	err := svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	require.Error(t, err)

	err = svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, Credentials{Email: "user@example.com", Password: "new-password"})
	assert.NoError(t, err)
}
