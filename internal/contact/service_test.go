package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

type memRepo struct {
	msgs      map[uuid.UUID]*models.ContactMessage
	createErr error
	lastLimit int
}

func newMemRepo() *memRepo {
	return &memRepo{msgs: map[uuid.UUID]*models.ContactMessage{}}
}

func (m *memRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	m.msgs[msg.ID] = msg
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	msg, ok := m.msgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return msg, nil
}

func (m *memRepo) List(ctx context.Context, unreadOnly bool, limit int, cursor *pagination.Cursor) ([]models.ContactMessage, error) {
	m.lastLimit = limit
	var out []models.ContactMessage
	for _, msg := range m.msgs {
		if unreadOnly && msg.IsRead {
			continue
		}
		out = append(out, *msg)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) ToggleRead(ctx context.Context, id uuid.UUID) (int64, error) {
	msg, ok := m.msgs[id]
	if !ok {
		return 0, nil
	}
	msg.IsRead = !msg.IsRead
	return 1, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := m.msgs[id]; !ok {
		return 0, nil
	}
	delete(m.msgs, id)
	return 1, nil
}

func (m *memRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func validInput() SubmitInput {
	return SubmitInput{
		Name:    " Dana ",
		Email:   "Dana@Example.com",
		Subject: "Partnership",
		Message: "We sell organic onesies.",
	}
}

func TestSubmitNormalizesAndStores(t *testing.T) {
	repo := newMemRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	msg, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "Dana", msg.Name)
	require.Equal(t, "dana@example.com", msg.Email)
	require.False(t, msg.IsRead)
	require.Len(t, repo.msgs, 1)
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := NewService(newMemRepo())

	input := validInput()
	input.Email = "not-an-email"
	input.Message = "   "
	_, err := svc.Submit(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	require.Contains(t, details, "email")
	require.Contains(t, details, "message")
}

func TestSubmitWrapsStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = errors.New("connection refused")
	svc, _ := NewService(repo)

	_, err := svc.Submit(context.Background(), validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestToggleReadTwiceRestoresFlag(t *testing.T) {
	repo := newMemRepo()
	svc, _ := NewService(repo)
	msg, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	toggled, err := svc.ToggleRead(context.Background(), msg.ID)
	require.NoError(t, err)
	require.True(t, toggled.IsRead)

	unread, err := svc.CountUnread(context.Background())
	require.NoError(t, err)
	require.Zero(t, unread)

	toggled, err = svc.ToggleRead(context.Background(), msg.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsRead)

	_, err = svc.ToggleRead(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListAndDelete(t *testing.T) {
	repo := newMemRepo()
	svc, _ := NewService(repo)
	first, _ := svc.Submit(context.Background(), validInput())
	_, _ = svc.Submit(context.Background(), validInput())
	_, err := svc.ToggleRead(context.Background(), first.ID)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), true, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, pagination.LimitWithBuffer(10), repo.lastLimit)

	require.NoError(t, svc.Delete(context.Background(), first.ID))
	require.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), first.ID), pkgerrors.CodeNotFound))

	_, err = svc.List(context.Background(), false, 10, "%%%")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
