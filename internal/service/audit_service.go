package service

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// AuditObserver counts persisted and dropped entries.
type AuditObserver interface {
	IncAuditWritten()
	IncAuditDropped()
}

type AuditService struct {
	repo    AuditRepository
	obs     AuditObserver
	log     *zap.Logger
	entries chan *domain.AuditLog
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, obs AuditObserver, log *zap.Logger) *AuditService {
	return newAuditService(repo, obs, log, auditBufferSize)
}

func newAuditService(repo AuditRepository, obs AuditObserver, log *zap.Logger, buffer int) *AuditService {
	svc := &AuditService{
		repo:    repo,
		obs:     obs,
		log:     log,
		entries: make(chan *domain.AuditLog, buffer),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}
	actor := domain.ActorFromContext(ctx)
	al := &domain.AuditLog{
		ID:           uuid.New(),
		OccurredAt:   time.Now().UTC(),
		Actor:        actor.Subject,
		Role:         actor.Role,
		IPAddress:    actor.IPAddress,
		Action:       domain.AuditAction(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		RequestID:    actor.RequestID,
		Changes:      entry.Changes,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.drop(entry, "audit service stopped, dropping entry")
		return
	}

	select {
	case s.entries <- al:
	default:
		s.drop(entry, "audit log buffer full, dropping entry")
	}
}

func (s *AuditService) drop(entry AuditEntry, msg string) {
	if s.obs != nil {
		s.obs.IncAuditDropped()
	}
	s.log.Warn(msg,
		zap.String("action", entry.Action),
		zap.String("resource", entry.ResourceType),
	)
}

// Shutdown stops accepting entries and waits for the buffer to drain.
func (s *AuditService) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.entries)
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else if s.obs != nil {
			s.obs.IncAuditWritten()
		}
		cancel()
	}
}
