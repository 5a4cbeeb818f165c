// Package content holds the site's editable collections: service lines,
// portfolio projects, contact inquiries, headline stats and the admin audit
// trail. Each collection is mirrored in full to durable storage after every
// change.
package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"darew.com/internal/ids"
	"darew.com/internal/kv"
	"darew.com/internal/obs"
	"darew.com/internal/persist"
)

// ErrDuplicateID is returned by CreateOffering and CreateProject when the
// requested id is already taken.
var ErrDuplicateID = errors.New("content: id already exists")

// AuditActorID is recorded as the actor of every audit entry.
const AuditActorID = "1"

// Store is safe for concurrent use. Mutations hold the write lock until the
// affected collection has been written, so storage sees them in order.
// Durable write failures are logged and counted; the in-memory change stands.
type Store struct {
	mu    sync.RWMutex
	kv    kv.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	offerings []Offering
	projects  []Project
	inquiries []Inquiry
	stats     []Stat
	logs      []LogEntry
}

// Option configures Store behavior.
type Option func(*Store) error

// WithClock injects a time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// WithIDGenerator overrides how inquiry and audit ids are minted.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) error {
		if next != nil {
			s.newID = next
		}
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

// New loads every collection from st, substituting the bundled defaults for
// keys that are absent or unreadable.
func New(ctx context.Context, st kv.Store, opts ...Option) (*Store, error) {
	s := &Store{kv: st, now: time.Now, newID: ids.New}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.log == nil {
		s.log = obs.Logger()
	}
	s.offerings = persist.Load(ctx, st, persist.KeyOfferings, DefaultOfferings())
	s.projects = persist.Load(ctx, st, persist.KeyProjects, DefaultProjects())
	s.inquiries = persist.Load(ctx, st, persist.KeyInquiries, []Inquiry{})
	s.stats = persist.Load(ctx, st, persist.KeyStats, DefaultStats())
	s.logs = persist.Load(ctx, st, persist.KeyLogs, []LogEntry{})
	return s, nil
}

// Offerings returns a copy of the service lines.
func (s *Store) Offerings() []Offering {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.offerings)
}

// Offering returns the service line with the given id.
func (s *Store) Offering(id string) (Offering, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.offerings, id)
}

// AddOffering appends o. An empty id is replaced by a generated one.
func (s *Store) AddOffering(ctx context.Context, o Offering) Offering {
	if o.ID == "" {
		o.ID = s.newID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offerings = append(s.offerings, o)
	s.commit(ctx, "services", "add", persist.KeyOfferings, s.offerings)
	return o
}

// CreateOffering appends o unless its id is already taken. The check and the
// append happen under one write lock.
func (s *Store) CreateOffering(ctx context.Context, o Offering) (Offering, error) {
	if o.ID == "" {
		o.ID = s.newID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := findByID(s.offerings, o.ID); exists {
		return Offering{}, ErrDuplicateID
	}
	s.offerings = append(s.offerings, o)
	s.commit(ctx, "services", "add", persist.KeyOfferings, s.offerings)
	return o, nil
}

// UpdateOffering replaces the service line with o's id. It reports whether
// one was found; nothing is written otherwise.
func (s *Store) UpdateOffering(ctx context.Context, o Offering) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := replaceByID(s.offerings, o)
	if !ok {
		return false
	}
	s.offerings = next
	s.commit(ctx, "services", "update", persist.KeyOfferings, s.offerings)
	return true
}

// DeleteOffering removes the service line with the given id.
func (s *Store) DeleteOffering(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := removeByID(s.offerings, id)
	if !ok {
		return false
	}
	s.offerings = next
	s.commit(ctx, "services", "delete", persist.KeyOfferings, s.offerings)
	return true
}

// Projects returns a copy of the portfolio.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.projects)
}

// Project returns the portfolio entry with the given id.
func (s *Store) Project(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.projects, id)
}

// AddProject appends p. An empty id is replaced by a generated one.
func (s *Store) AddProject(ctx context.Context, p Project) Project {
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
	s.commit(ctx, "projects", "add", persist.KeyProjects, s.projects)
	return p
}

// CreateProject appends p unless its id is already taken.
func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := findByID(s.projects, p.ID); exists {
		return Project{}, ErrDuplicateID
	}
	s.projects = append(s.projects, p)
	s.commit(ctx, "projects", "add", persist.KeyProjects, s.projects)
	return p, nil
}

// UpdateProject replaces the portfolio entry with p's id.
func (s *Store) UpdateProject(ctx context.Context, p Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := replaceByID(s.projects, p)
	if !ok {
		return false
	}
	s.projects = next
	s.commit(ctx, "projects", "update", persist.KeyProjects, s.projects)
	return true
}

// DeleteProject removes the portfolio entry with the given id.
func (s *Store) DeleteProject(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := removeByID(s.projects, id)
	if !ok {
		return false
	}
	s.projects = next
	s.commit(ctx, "projects", "delete", persist.KeyProjects, s.projects)
	return true
}

// Inquiries returns a copy of the inbound messages, newest first.
func (s *Store) Inquiries() []Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.inquiries)
}

// Inquiry returns the inbound message with the given id.
func (s *Store) Inquiry(id string) (Inquiry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.inquiries, id)
}

// AddInquiry records a new message with status New at the front of the list.
func (s *Store) AddInquiry(ctx context.Context, in InquiryInput) Inquiry {
	inq := Inquiry{
		ID:      s.newID(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
		Status:  StatusNew,
		Date:    s.now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiries = prepend(s.inquiries, inq)
	s.commit(ctx, "inquiries", "add", persist.KeyInquiries, s.inquiries)
	return inq
}

// UpdateInquiry replaces the message with inq's id.
func (s *Store) UpdateInquiry(ctx context.Context, inq Inquiry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := replaceByID(s.inquiries, inq)
	if !ok {
		return false
	}
	s.inquiries = next
	s.commit(ctx, "inquiries", "update", persist.KeyInquiries, s.inquiries)
	return true
}

// UpdateInquiryStatus overwrites only the status of a message. Any status may
// follow any other.
func (s *Store) UpdateInquiryStatus(ctx context.Context, id string, status InquiryStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	next := make([]Inquiry, len(s.inquiries))
	for i, inq := range s.inquiries {
		if inq.ID == id {
			inq.Status = status
			found = true
		}
		next[i] = inq
	}
	if !found {
		return false
	}
	s.inquiries = next
	s.commit(ctx, "inquiries", "status", persist.KeyInquiries, s.inquiries)
	return true
}

// DeleteInquiry removes the message with the given id.
func (s *Store) DeleteInquiry(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := removeByID(s.inquiries, id)
	if !ok {
		return false
	}
	s.inquiries = next
	s.commit(ctx, "inquiries", "delete", persist.KeyInquiries, s.inquiries)
	return true
}

// Stats returns a copy of the headline figures.
func (s *Store) Stats() []Stat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.stats)
}

// UpdateStats replaces the headline figures wholesale.
func (s *Store) UpdateStats(ctx context.Context, stats []Stat) {
	next := clone(stats)
	if next == nil {
		next = []Stat{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = next
	s.commit(ctx, "stats", "replace", persist.KeyStats, s.stats)
}

// Logs returns a copy of the audit trail, newest first.
func (s *Store) Logs() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.logs)
}

// AddLog records an administrative action at the front of the audit trail.
func (s *Store) AddLog(ctx context.Context, action, actorName string) LogEntry {
	entry := LogEntry{
		ID:        s.newID(),
		AdminID:   AuditActorID,
		AdminName: actorName,
		Action:    action,
		Timestamp: s.now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = prepend(s.logs, entry)
	s.commit(ctx, "logs", "add", persist.KeyLogs, s.logs)
	return entry
}

// Snapshot copies every collection under a single read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Offerings: clone(s.offerings),
		Projects:  clone(s.projects),
		Inquiries: clone(s.inquiries),
		Stats:     clone(s.stats),
		Logs:      clone(s.logs),
	}
}

func (s *Store) commit(ctx context.Context, collection, op, key string, value any) {
	obs.StoreMutation(collection, op)
	// The in-memory change is already applied; a cancelled request must not
	// skip the durable write.
	if err := persist.Save(context.WithoutCancel(ctx), s.kv, key, value); err != nil {
		obs.PersistFailure(key)
		s.log.Error("persist_failed", zap.String("key", key), zap.Error(err))
	}
}
