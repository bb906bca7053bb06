package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

type credential struct {
	identity     Identity
	passwordHash string
}

// CredentialStore holds identities in memory and answers authentication
// queries. It is safe for concurrent use.
type CredentialStore struct {
	mu       sync.RWMutex
	records  map[string]*credential
	hashCost int
	logger   Logger

	decoyOnce sync.Once
	decoy     string
}

var _ IdentityProvider = (*CredentialStore)(nil)

// StoreOption configures a CredentialStore
type StoreOption func(*CredentialStore)

// WithHashCost sets the bcrypt cost used for new password hashes
func WithHashCost(cost int) StoreOption {
	return func(s *CredentialStore) {
		s.hashCost = cost
	}
}

// WithStoreLogger sets the store logger
func WithStoreLogger(logger Logger) StoreOption {
	return func(s *CredentialStore) {
		s.logger = normalizeLogger(logger)
	}
}

// NewCredentialStore returns an empty store
func NewCredentialStore(opts ...StoreOption) *CredentialStore {
	s := &CredentialStore{
		records:  make(map[string]*credential),
		hashCost: passwordHashCost(),
		logger:   defLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate looks up username and compares password against its hash.
// Unknown usernames still pay for one bcrypt comparison.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	s.mu.RLock()
	rec, ok := s.records[username]
	var hash string
	var identity Identity
	if ok {
		hash = rec.passwordHash
		identity = rec.identity
	}
	s.mu.RUnlock()

	if !ok {
		_ = ComparePasswordAndHash(password, s.decoyHash())
		return Identity{}, ErrUnknownUser
	}

	if err := ComparePasswordAndHash(password, hash); err != nil {
		if errors.Is(err, ErrBadCredential) {
			return Identity{}, ErrBadCredential
		}
		return Identity{}, fmt.Errorf("compare password hash: %w", err)
	}

	return identity, nil
}

// Register hashes the password and stores a new active identity. Exactly one
// of several concurrent registrations for the same username succeeds.
func (s *CredentialStore) Register(ctx context.Context, msg RegisterUserMessage) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	if err := msg.Validate(); err != nil {
		return Identity{}, err
	}

	if _, exists := s.Get(ctx, msg.Username); exists {
		return Identity{}, fmt.Errorf("%w: %s", ErrDuplicateUser, msg.Username)
	}

	hash, err := HashPasswordWithCost(msg.Password, s.hashCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	identity := Identity{
		ID:          identityID(msg.Username),
		Username:    msg.Username,
		DisplayName: msg.DisplayName,
		Email:       msg.Email,
		Active:      true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[msg.Username]; exists {
		return Identity{}, fmt.Errorf("%w: %s", ErrDuplicateUser, msg.Username)
	}

	s.records[msg.Username] = &credential{
		identity:     identity,
		passwordHash: hash,
	}

	s.logger.Debug("identity registered", "username", msg.Username)

	return identity, nil
}

// Get returns the identity stored for username
func (s *CredentialStore) Get(_ context.Context, username string) (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[username]
	if !ok {
		return Identity{}, false
	}
	return rec.identity, true
}

// SetActive enables or disables an identity. It is the only mutation allowed
// on an existing record.
func (s *CredentialStore) SetActive(_ context.Context, username string, active bool) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[username]
	if !ok {
		return Identity{}, ErrUnknownUser
	}

	rec.identity.Active = active
	return rec.identity, nil
}

// Len returns the number of stored identities
func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *CredentialStore) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy = RandomPasswordHash(s.hashCost)
	})
	return s.decoy
}

func identityID(username string) string {
	if id, err := hashid.NewUUID(username); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String()
}
