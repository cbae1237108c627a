package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/httech/voltgo/pkg/client"
)

type fakeAuth struct {
	token string
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*client.LoginResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &client.LoginResponse{Token: f.token}, nil
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSession_Lifecycle(t *testing.T) {
	s, err := New("abc")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !s.Authenticated() {
		t.Error("new session should be authenticated")
	}
	if tok, _ := s.Token(); tok != "abc" {
		t.Errorf("Token() = %q, want abc", tok)
	}

	s.Invalidate()
	if s.Authenticated() {
		t.Error("invalidated session should not be authenticated")
	}
	if _, err := s.Token(); !errors.Is(err, ErrInvalidated) {
		t.Errorf("Token() after Invalidate error = %v, want ErrInvalidated", err)
	}
}

func TestNew_RejectsEmptyToken(t *testing.T) {
	for _, tok := range []string{"", "   "} {
		if _, err := New(tok); !errors.Is(err, client.ErrMissingCredential) {
			t.Errorf("New(%q) error = %v, want ErrMissingCredential", tok, err)
		}
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, TokenKey, "one"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, TokenKey, "two"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, err := store.Get(ctx, TokenKey)
	if err != nil || got != "two" {
		t.Errorf("Get() = %q, %v, want two", got, err)
	}

	if err := store.Delete(ctx, TokenKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, TokenKey); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Set(ctx, TokenKey, "persisted"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, TokenKey)
	if err != nil || got != "persisted" {
		t.Errorf("Get() = %q, %v, want persisted", got, err)
	}
}

func TestManager_LoginRestoreLogout(t *testing.T) {
	store := openTestStore(t)
	auth := &fakeAuth{token: "tok-1"}
	m := NewManager(store, auth, nil)
	ctx := context.Background()

	if _, err := m.Restore(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Restore() before login error = %v, want ErrNoSession", err)
	}

	s, err := m.Login(ctx, "analyst", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok, _ := s.Token(); tok != "tok-1" {
		t.Errorf("session token = %q, want tok-1", tok)
	}

	restored, err := m.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if tok, _ := restored.Token(); tok != "tok-1" {
		t.Errorf("restored token = %q, want tok-1", tok)
	}

	if err := m.Logout(ctx, restored); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if restored.Authenticated() {
		t.Error("Logout() must invalidate the session")
	}
	if _, err := m.Restore(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("Restore() after logout error = %v, want ErrNoSession", err)
	}
}

func TestManager_LoginFailureStoresNothing(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store, &fakeAuth{err: &client.StatusError{StatusCode: 401}}, nil)
	ctx := context.Background()

	if _, err := m.Login(ctx, "analyst", "wrong"); client.StatusCode(err) != 401 {
		t.Fatalf("Login() error = %v, want status 401", err)
	}
	if _, err := store.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("token stored after failed login: %v", err)
	}
}
