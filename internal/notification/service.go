package notification

import (
	"context"

	"github.com/mossdrift/orgshare-backend/internal/logger"
)

// Sender hands one notification to the delivery transport.
// The real channel (push/SMS/chat) lives outside this service; LogSender is
// the stand-in used until one is wired up.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// LogSender writes notifications to the application log instead of a real
// transport.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n *Notification) error {
	logger.Info("notification dispatched",
		"notification_id", n.ID,
		"user_id", n.UserID,
		"title", n.Title,
	)
	return nil
}

// Service manages the notification outbox.
type Service interface {
	// Enqueue appends an outbox row. Callers treat failures as warnings,
	// never as a reason to roll back committed state.
	Enqueue(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error

	// DispatchPending drains up to limit undispatched rows through the
	// sender and returns how many were delivered.
	DispatchPending(ctx context.Context, limit int) (int, error)
}

type service struct {
	repo   Repository
	sender Sender
}

func NewService(repo Repository, sender Sender) Service {
	if sender == nil {
		sender = LogSender{}
	}
	return &service{repo: repo, sender: sender}
}

func (s *service) Enqueue(ctx context.Context, n *Notification) error {
	return s.repo.Create(ctx, n)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) DispatchPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, n := range pending {
		if err := s.sender.Send(ctx, n); err != nil {
			// Leave the row pending; the next drain retries it.
			logger.Error("notification send failed", "notification_id", n.ID, "error", err)
			continue
		}
		if err := s.repo.MarkDispatched(ctx, n.ID); err != nil {
			logger.Error("mark notification dispatched failed", "notification_id", n.ID, "error", err)
			continue
		}
		dispatched++
	}

	return dispatched, nil
}
