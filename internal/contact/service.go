package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

type repository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool, limit int, cursor *pagination.Cursor) ([]models.ContactMessage, error)
	ToggleRead(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

// Service accepts public contact messages and lets admins triage them.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error)
	List(ctx context.Context, unreadOnly bool, limit int, cursor string) (*MessagePage, error)
	ToggleRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context) (int64, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error) {
	msg, problems := input.normalize()
	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact message").WithDetails(problems)
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
	}
	dto := FromModel(msg)
	return &dto, nil
}

func (s *service) List(ctx context.Context, unreadOnly bool, limit int, cursor string) (*MessagePage, error) {
	decoded, err := pagination.ParseSortedCursor(cursor, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.List(ctx, unreadOnly, pagination.LimitWithBuffer(limit), decoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}

	page := &MessagePage{Items: make([]MessageDTO, 0, len(rows))}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		page.Items = append(page.Items, FromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) ToggleRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error) {
	affected, err := s.repo.ToggleRead(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle message read")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	dto := FromModel(msg)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete message")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	return nil
}

func (s *service) CountUnread(ctx context.Context) (int64, error) {
	count, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread messages")
	}
	return count, nil
}
