package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/learnforge/identity-service/internal/adapters/security"
	"github.com/learnforge/identity-service/internal/domain"
	"github.com/learnforge/identity-service/internal/ports"
)

// memStore is an in-memory stand-in for the postgres repositories. It backs
// the user, role, and user-role ports from one mutex-guarded state so the
// concurrent validator checks are race-safe.
type memStore struct {
	mu           sync.Mutex
	usersByID    map[uuid.UUID]domain.User
	rolesByName  map[string]domain.Role
	rolesForUser map[uuid.UUID][]uuid.UUID

	lookupErr error // injected failure for every read path
}

func newMemStore() *memStore {
	s := &memStore{
		usersByID:    make(map[uuid.UUID]domain.User),
		rolesByName:  make(map[string]domain.Role),
		rolesForUser: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin, domain.RoleSales, domain.RoleOperations} {
		s.rolesByName[name] = domain.Role{RoleID: uuid.New(), Name: name}
	}
	return s
}

func (s *memStore) CreateWithRolesTx(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return domain.User{}, s.lookupErr
	}
	for _, u := range s.usersByID {
		if u.Username == params.Username || u.Email == params.Email || u.Mobile == params.Mobile {
			return domain.User{}, fmt.Errorf("%w: duplicate identity", domain.ErrConflict)
		}
	}

	roles := make([]domain.Role, 0, len(params.RoleIDs))
	for _, roleID := range params.RoleIDs {
		role, ok := s.roleByIDLocked(roleID)
		if !ok {
			return domain.User{}, fmt.Errorf("%w: role %s", domain.ErrNotFound, roleID)
		}
		roles = append(roles, role)
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
		UpdatedAt:     params.RegisteredAt,
	}
	s.usersByID[user.UserID] = user
	s.rolesForUser[user.UserID] = append([]uuid.UUID(nil), params.RoleIDs...)
	return user, nil
}

func (s *memStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Username == username })
}

func (s *memStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Email == email })
}

func (s *memStore) FindByMobile(_ context.Context, mobile string) (domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Mobile == mobile })
}

func (s *memStore) FindByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.UserID == userID })
}

func (s *memStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, func(u domain.User) bool { return u.Username == username })
}

func (s *memStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, func(u domain.User) bool { return u.Email == email })
}

func (s *memStore) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	return s.exists(ctx, func(u domain.User) bool { return u.Mobile == mobile })
}

func (s *memStore) Save(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByID[user.UserID]; !ok {
		return domain.User{}, domain.ErrNotFound
	}
	s.usersByID[user.UserID] = user
	return user, nil
}

func (s *memStore) FindByName(_ context.Context, name string) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return domain.Role{}, s.lookupErr
	}
	role, ok := s.rolesByName[name]
	if !ok {
		return domain.Role{}, domain.ErrNotFound
	}
	return role, nil
}

func (s *memStore) FindRoleByID(ctx context.Context, roleID uuid.UUID) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roleByIDLocked(roleID)
	if !ok {
		return domain.Role{}, domain.ErrNotFound
	}
	return role, nil
}

func (s *memStore) SaveUserRole(_ context.Context, userID, roleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rolesForUser[userID] {
		if existing == roleID {
			return nil
		}
	}
	s.rolesForUser[userID] = append(s.rolesForUser[userID], roleID)
	return nil
}

func (s *memStore) FindRolesForUser(_ context.Context, userID uuid.UUID) ([]domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	roles := make([]domain.Role, 0, len(s.rolesForUser[userID]))
	for _, roleID := range s.rolesForUser[userID] {
		if role, ok := s.roleByIDLocked(roleID); ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (s *memStore) findUser(match func(domain.User) bool) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return domain.User{}, s.lookupErr
	}
	for _, u := range s.usersByID {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *memStore) exists(_ context.Context, match func(domain.User) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	for _, u := range s.usersByID {
		if match(u) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) roleByIDLocked(roleID uuid.UUID) (domain.Role, bool) {
	for _, role := range s.rolesByName {
		if role.RoleID == roleID {
			return role, true
		}
	}
	return domain.Role{}, false
}

// roleRepo and userRoleRepo adapt memStore to the narrower port interfaces
// so one fixture serves all three repositories.
type roleRepo struct{ store *memStore }

func (r roleRepo) FindByName(ctx context.Context, name string) (domain.Role, error) {
	return r.store.FindByName(ctx, name)
}

func (r roleRepo) FindByID(ctx context.Context, roleID uuid.UUID) (domain.Role, error) {
	return r.store.FindRoleByID(ctx, roleID)
}

type userRoleRepo struct{ store *memStore }

func (r userRoleRepo) Save(ctx context.Context, userID, roleID uuid.UUID) error {
	return r.store.SaveUserRole(ctx, userID, roleID)
}

func (r userRoleRepo) FindRolesForUser(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	return r.store.FindRolesForUser(ctx, userID)
}

// memLockouts mirrors the redis lockout store semantics without a server.
type memLockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func newMemLockouts() *memLockouts {
	return &memLockouts{state: make(map[string]ports.LockoutState)}
}

func (l *memLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state[key], nil
}

func (l *memLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state[key]
	st.FailedCount++
	if threshold > 0 && st.FailedCount >= threshold {
		until := now.Add(lockoutWindow)
		st.LockedUntil = &until
	}
	l.state[key] = st
	return st, nil
}

func (l *memLockouts) Clear(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.state, key)
	return nil
}

// plainHasher is a transparent hasher so credential tests stay fast and
// deterministic; bcrypt behavior is covered by its own adapter tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *capturePublisher) seen(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == eventType {
			return true
		}
	}
	return false
}

type testHarness struct {
	svc       *Service
	store     *memStore
	lockouts  *memLockouts
	codec     *security.JWTCodec
	publisher *capturePublisher
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	codec, err := security.NewJWTCodec("harness-signing-secret", time.Hour, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTCodec: %v", err)
	}

	store := newMemStore()
	lockouts := newMemLockouts()
	publisher := &capturePublisher{}

	svc := NewService(Dependencies{
		Config: Config{
			DefaultRole:          domain.RoleUser,
			FailedLoginThreshold: 3,
			LockoutDuration:      15 * time.Minute,
		},
		Users:     store,
		Roles:     roleRepo{store: store},
		UserRoles: userRoleRepo{store: store},
		Lockouts:  lockouts,
		Hasher:    plainHasher{},
		Codec:     codec,
		Publisher: publisher,
	})

	return &testHarness{svc: svc, store: store, lockouts: lockouts, codec: codec, publisher: publisher}
}

var mobileSeq atomic.Int64

func (h *testHarness) register(t *testing.T, username string, roles ...string) UserProfile {
	t.Helper()
	profile, err := h.svc.Register(context.Background(), RegisterRequest{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Password:  "Password123",
		Email:     username + "@example.com",
		Mobile:    fmt.Sprintf("+1500%07d", mobileSeq.Add(1)),
		RoleNames: roles,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return profile
}
