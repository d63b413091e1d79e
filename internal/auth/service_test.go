package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

type memoryRepo struct {
	users  map[string]User
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]User)}
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (r *memoryRepo) Create(ctx context.Context, user User) (int64, error) {
	if _, ok := r.users[user.Email]; ok {
		return 0, httpx.Conflict("Email ya registrado.")
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Email] = user
	return user.ID, nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, "test-secret", time.Hour), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, "admin@saciar.org", "secreta1", "Admin", "admin")
	require.NoError(t, err)
	require.EqualValues(t, 1, id)

	token, user, err := svc.Login(ctx, "admin@saciar.org", "secreta1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "admin", user.Rol)

	claims, err := ValidateToken("test-secret", token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "admin@saciar.org", claims.Email)
	require.NotEmpty(t, claims.ID, "token must carry a JTI")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.co", "secreta1", "", "editor")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@b.co", "otra")
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = svc.Login(ctx, "nadie@b.co", "secreta1")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "", "x", "", "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@saciar.org", "secreta1", "", "admin")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@saciar.org", "secreta1", "", "admin")
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "t@saciar.org", "secreta1", "", "admin")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "t@saciar.org", "secreta1")
	require.NoError(t, err)

	_, err = ValidateToken("wrong-secret", token)
	require.Error(t, err)

	_, err = ValidateToken("test-secret", token+"x")
	require.Error(t, err)
}
