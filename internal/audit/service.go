package audit

import "context"

// Service records and exposes the audit trail. Append failures never roll
// back the transition that triggered them; callers surface them as warnings.
type Service interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Append(ctx context.Context, e Entry) error {
	return s.repo.Insert(ctx, &e)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	return s.repo.List(ctx, filter)
}
