package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

// DefaultTTL is how long a notification stays visible before it is dropped.
const DefaultTTL = 3 * time.Second

// Notification is a single user-facing message scoped to a shopper session.
type Notification struct {
	ID        uuid.UUID                  `json:"id"`
	Message   string                     `json:"message"`
	Severity  enums.NotificationSeverity `json:"severity"`
	CreatedAt time.Time                  `json:"created_at"`
}

// Service defines the notification push/list/dismiss surface.
type Service interface {
	Push(ctx context.Context, sessionID, message string, severity enums.NotificationSeverity)
	List(ctx context.Context, sessionID string) []Notification
	Dismiss(ctx context.Context, sessionID string, id uuid.UUID) error
}

type service struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string][]Notification
}

// NewService builds an in-memory notification feed. Entries expire after ttl;
// expiry is enforced lazily on read, so dismissal ordering never races other
// state changes.
func NewService(ttl time.Duration, now func() time.Time) Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		ttl:      ttl,
		now:      now,
		sessions: map[string][]Notification{},
	}
}

func (s *service) Push(_ context.Context, sessionID, message string, severity enums.NotificationSeverity) {
	if sessionID == "" || message == "" {
		return
	}
	if !severity.IsValid() {
		severity = enums.NotificationSuccess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.prunedLocked(sessionID), Notification{
		ID:        uuid.New(),
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now(),
	})
}

func (s *service) List(_ context.Context, sessionID string) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.prunedLocked(sessionID)
	if len(live) == 0 {
		delete(s.sessions, sessionID)
		return nil
	}
	s.sessions[sessionID] = live

	out := make([]Notification, len(live))
	copy(out, live)
	return out
}

func (s *service) Dismiss(_ context.Context, sessionID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.prunedLocked(sessionID)
	for i, note := range live {
		if note.ID == id {
			s.sessions[sessionID] = append(live[:i:i], live[i+1:]...)
			return nil
		}
	}

	// keep the pruned view even when the id is gone
	if len(live) == 0 {
		delete(s.sessions, sessionID)
	} else {
		s.sessions[sessionID] = live
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
}

// prunedLocked drops expired entries for the session. Callers hold s.mu.
func (s *service) prunedLocked(sessionID string) []Notification {
	cutoff := s.now().Add(-s.ttl)
	var live []Notification
	for _, note := range s.sessions[sessionID] {
		if note.CreatedAt.After(cutoff) {
			live = append(live, note)
		}
	}
	return live
}
