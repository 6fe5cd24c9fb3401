package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"codexplain/internal/common"
	"codexplain/internal/server/auth"
	"codexplain/internal/server/config"
	"codexplain/internal/server/models"
)

// --- helpers ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	countOut int

	created []*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) Count(ctx context.Context) (int, error) {
	return f.countOut, nil
}

func newUserService(t *testing.T, repo *fakeUsersRepo) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(repo, cfg)
}

func TestRegister_Success(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newUserService(t, repo)

	if err := s.Register(context.Background(), "a@x.com", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(repo.created))
	}
	u := repo.created[0]
	if u.Email != "a@x.com" {
		t.Fatalf("unexpected email: %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "pw" {
		t.Fatalf("password must be stored hashed, got %q", u.PasswordHash)
	}
	if !auth.CheckPassword("pw", u.PasswordHash) {
		t.Fatalf("stored hash does not verify against the password")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := &fakeUsersRepo{createErr: common.ErrorAlreadyExists}
	s := newUserService(t, repo)

	err := s.Register(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}

func TestLogin_Success_TokenCarriesIdentity(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	repo := &fakeUsersRepo{getOut: &models.User{Email: "a@x.com", PasswordHash: hash}}
	s := newUserService(t, repo)

	token, err := s.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	email, err := s.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if email != "a@x.com" {
		t.Fatalf("token identity mismatch: got %q", email)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrorNotFound}
	s := newUserService(t, repo)

	_, err := s.Login(context.Background(), "missing@x.com", "pw")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	repo := &fakeUsersRepo{getOut: &models.User{Email: "a@x.com", PasswordHash: hash}}
	s := newUserService(t, repo)

	_, err = s.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_RepoFailure(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errors.New("disk on fire")}
	s := newUserService(t, repo)

	_, err := s.Login(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected common.ErrorInternal, got %v", err)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	s := newUserService(t, &fakeUsersRepo{})

	for _, tok := range []string{"", "garbage", "a.b.c", "ey.ey.ey"} {
		_, err := s.Authenticate(context.Background(), tok)
		if !errors.Is(err, common.ErrorInvalidToken) {
			t.Fatalf("token %q: expected common.ErrorInvalidToken, got %v", tok, err)
		}
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	s := newUserService(t, &fakeUsersRepo{})

	tok, err := auth.GenerateToken("a@x.com", []byte("k"), -time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = s.Authenticate(context.Background(), tok)
	if !errors.Is(err, common.ErrorInvalidToken) {
		t.Fatalf("expected common.ErrorInvalidToken, got %v", err)
	}
}
