package auth

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"darew.com/internal/ids"
	"darew.com/internal/kv"
	"darew.com/internal/obs"
	"darew.com/internal/persist"
)

// Store holds the signed-in identity and the roster of identities. Every
// mutation rewrites the affected durable key before the lock is released.
type Store struct {
	mu      sync.RWMutex
	kv      kv.Store
	log     *zap.Logger
	cost    int
	current *Identity
	roster  []Identity
}

// Option configures Store behavior.
type Option func(*Store) error

// WithHashCost sets the bcrypt cost used for new secrets.
func WithHashCost(cost int) Option {
	return func(s *Store) error {
		if cost == 0 {
			return nil
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return fmt.Errorf("%w: hash cost %d out of range", ErrInvalidInput, cost)
		}
		s.cost = cost
		return nil
	}
}

// WithLogger overrides the logger used for persistence warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) error {
		if l != nil {
			s.log = l
		}
		return nil
	}
}

// New loads the roster and current identity from st, falling back to the
// bundled roster. Plain-text secrets in the bundled roster are hashed in
// memory; nothing is written until the first mutation.
func New(ctx context.Context, st kv.Store, opts ...Option) (*Store, error) {
	s := &Store{kv: st, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.log == nil {
		s.log = obs.Logger()
	}

	defaults := DefaultIdentities()
	for i := range defaults {
		hash, err := HashPassword(defaults[i].PasswordHash, s.cost)
		if err != nil {
			return nil, err
		}
		defaults[i].PasswordHash = hash
	}
	s.roster = persist.Load(ctx, st, persist.KeyIdentities, defaults)
	if cur, ok := persist.LoadOne[Identity](ctx, st, persist.KeyCurrentIdentity); ok && cur.ID != "" {
		s.current = &cur
	}
	return s, nil
}

// SignIn reports whether a roster identity has exactly this email and
// secret. On success it becomes the current identity.
func (s *Store) SignIn(ctx context.Context, email, secret string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.roster {
		if id.Email != email {
			continue
		}
		ok, legacy := VerifyPassword(id.PasswordHash, secret)
		if !ok {
			continue
		}
		if legacy {
			s.upgradeSecret(ctx, i, secret)
		}
		cur := s.roster[i].Redacted()
		s.current = &cur
		s.save(ctx, persist.KeyCurrentIdentity, cur)
		obs.SignIn(true)
		s.log.Info("sign_in", zap.String("identity_id", cur.ID))
		return true
	}
	obs.SignIn(false)
	return false
}

func (s *Store) upgradeSecret(ctx context.Context, i int, secret string) {
	hash, err := HashPassword(secret, s.cost)
	if err != nil {
		s.log.Warn("rehash_failed", zap.String("identity_id", s.roster[i].ID), zap.Error(err))
		return
	}
	s.roster[i].PasswordHash = hash
	s.save(ctx, persist.KeyIdentities, s.roster)
}

// SignOut clears the current identity.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOutLocked(ctx)
}

func (s *Store) signOutLocked(ctx context.Context) {
	s.current = nil
	if err := persist.Clear(context.WithoutCancel(ctx), s.kv, persist.KeyCurrentIdentity); err != nil {
		s.persistFailed(persist.KeyCurrentIdentity, err)
	}
}

// AddIdentity appends id to the roster. id.PasswordHash carries the plain
// secret and is always hashed, even when it already looks like a hash. An
// empty id is replaced by a generated one. Email uniqueness is not checked.
func (s *Store) AddIdentity(ctx context.Context, id Identity) (Identity, error) {
	hash, err := HashPassword(id.PasswordHash, s.cost)
	if err != nil {
		return Identity{}, err
	}
	id.PasswordHash = hash
	if id.ID == "" {
		id.ID = ids.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = append(s.roster, id)
	obs.StoreMutation("identities", "add")
	s.save(ctx, persist.KeyIdentities, s.roster)
	return id.Redacted(), nil
}

// RemoveIdentity removes every roster entry with the given id. Removing the
// signed-in identity signs it out. Unknown ids are ignored.
func (s *Store) RemoveIdentity(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Identity, 0, len(s.roster))
	for _, entry := range s.roster {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(s.roster) {
		return
	}
	s.roster = kept
	obs.StoreMutation("identities", "delete")
	s.save(ctx, persist.KeyIdentities, s.roster)
	if s.current != nil && s.current.ID == id {
		s.signOutLocked(ctx)
	}
}

// IsAuthenticated reports whether an identity is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current returns the signed-in identity without its secret.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Identity{}, false
	}
	return s.current.Redacted(), true
}

// Roster returns a copy of every identity, secrets included.
func (s *Store) Roster() []Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Identity, len(s.roster))
	copy(out, s.roster)
	return out
}

// Lookup returns the roster entry with the given id.
func (s *Store) Lookup(id string) (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.roster {
		if entry.ID == id {
			return entry, true
		}
	}
	return Identity{}, false
}

// save writes value even if ctx is already cancelled, so memory and storage
// never diverge because a client went away.
func (s *Store) save(ctx context.Context, key string, value any) {
	if err := persist.Save(context.WithoutCancel(ctx), s.kv, key, value); err != nil {
		s.persistFailed(key, err)
	}
}

func (s *Store) persistFailed(key string, err error) {
	obs.PersistFailure(key)
	s.log.Error("persist_failed", zap.String("key", key), zap.Error(err))
}
