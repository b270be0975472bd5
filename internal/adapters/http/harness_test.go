package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/learnforge/identity-service/internal/adapters/security"
	"github.com/learnforge/identity-service/internal/application"
	"github.com/learnforge/identity-service/internal/domain"
	"github.com/learnforge/identity-service/internal/ports"
)

// stubStore backs the repository ports with an in-process map so the full
// middleware-to-handler path runs without postgres.
type stubStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]domain.User
	rolesByName map[string]domain.Role
	userRoles   map[uuid.UUID][]uuid.UUID
}

func newStubStore() *stubStore {
	s := &stubStore{
		users:       make(map[uuid.UUID]domain.User),
		rolesByName: make(map[string]domain.Role),
		userRoles:   make(map[uuid.UUID][]uuid.UUID),
	}
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin, domain.RoleSales, domain.RoleOperations} {
		s.rolesByName[name] = domain.Role{RoleID: uuid.New(), Name: name}
	}
	return s
}

func (s *stubStore) CreateWithRolesTx(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == params.Username || u.Email == params.Email || u.Mobile == params.Mobile {
			return domain.User{}, domain.ErrConflict
		}
	}
	roles := make([]domain.Role, 0, len(params.RoleIDs))
	for _, roleID := range params.RoleIDs {
		for _, role := range s.rolesByName {
			if role.RoleID == roleID {
				roles = append(roles, role)
			}
		}
	}
	user := domain.User{
		UserID:        uuid.New(),
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Username:      params.Username,
		Email:         params.Email,
		Mobile:        params.Mobile,
		PasswordHash:  params.PasswordHash,
		AccountStatus: domain.AccountActive,
		Roles:         roles,
		CreatedAt:     params.RegisteredAt,
	}
	s.users[user.UserID] = user
	s.userRoles[user.UserID] = append([]uuid.UUID(nil), params.RoleIDs...)
	return user, nil
}

func (s *stubStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubStore) FindByMobile(_ context.Context, mobile string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubStore) FindByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *stubStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *stubStore) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	_, err := s.FindByMobile(ctx, mobile)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *stubStore) Save(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	return user, nil
}

type stubRoles struct{ store *stubStore }

func (r stubRoles) FindByName(_ context.Context, name string) (domain.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if role, ok := r.store.rolesByName[name]; ok {
		return role, nil
	}
	return domain.Role{}, domain.ErrNotFound
}

func (r stubRoles) FindByID(_ context.Context, roleID uuid.UUID) (domain.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, role := range r.store.rolesByName {
		if role.RoleID == roleID {
			return role, nil
		}
	}
	return domain.Role{}, domain.ErrNotFound
}

type stubUserRoles struct{ store *stubStore }

func (r stubUserRoles) Save(_ context.Context, userID, roleID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.userRoles[userID] = append(r.store.userRoles[userID], roleID)
	return nil
}

func (r stubUserRoles) FindRolesForUser(_ context.Context, userID uuid.UUID) ([]domain.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	roles := make([]domain.Role, 0)
	for _, roleID := range r.store.userRoles[userID] {
		for _, role := range r.store.rolesByName {
			if role.RoleID == roleID {
				roles = append(roles, role)
			}
		}
	}
	return roles, nil
}

type stubLockouts struct{}

func (stubLockouts) Get(context.Context, string) (ports.LockoutState, error) {
	return ports.LockoutState{}, nil
}

func (stubLockouts) RecordFailure(context.Context, string, time.Time, int, time.Duration) (ports.LockoutState, error) {
	return ports.LockoutState{}, nil
}

func (stubLockouts) Clear(context.Context, string) error { return nil }

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, []byte) error { return nil }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	codec, err := security.NewJWTCodec("http-test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTCodec: %v", err)
	}
	store := newStubStore()

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			DefaultRole:          domain.RoleUser,
			FailedLoginThreshold: 5,
			LockoutDuration:      15 * time.Minute,
		},
		Users:     store,
		Roles:     stubRoles{store: store},
		UserRoles: stubUserRoles{store: store},
		Lockouts:  stubLockouts{},
		Hasher:    stubHasher{},
		Codec:     codec,
		Publisher: noopPublisher{},
	})

	handler := NewHandler(svc, []string{"/auth/v1/**", "/healthz", "/readyz"})
	return NewRouter(handler)
}

func doJSON(t *testing.T, router http.Handler, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doJSONWithRequestID(t *testing.T, router http.Handler, requestID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", requestID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return envelope
}

func registerAndLogin(t *testing.T, router http.Handler, username string) (accessToken, refreshToken string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/v1/register", "", map[string]any{
		"first_name": "Test",
		"last_name":  "User",
		"username":   username,
		"password":   "Password123",
		"email":      username + "@example.com",
		"mobile":     "+1500555" + fmt.Sprintf("%04d", len(username)),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/v1/login", "", map[string]any{
		"username": username,
		"password": "Password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("login response missing data envelope: %s", rec.Body.String())
	}
	accessToken, _ = data["access_token"].(string)
	refreshToken, _ = data["refresh_token"].(string)
	if accessToken == "" || refreshToken == "" {
		t.Fatalf("login response missing tokens: %s", rec.Body.String())
	}
	return accessToken, refreshToken
}
