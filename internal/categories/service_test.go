package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Baby Gear":            "baby-gear",
		"  Feeding   & Care  ": "feeding-&-care",
		"TOYS":                 "toys",
		"Bath\tTime":           "bath-time",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), in)
	}
}

type fakeRepo struct {
	rows      map[uuid.UUID]*models.Category
	createErr error
}

func (f *fakeRepo) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range f.rows {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "missing")
	}
	return c, nil
}

func (f *fakeRepo) Create(ctx context.Context, category *models.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	category.ID = uuid.New()
	f.rows[category.ID] = category
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	c, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	if name, ok := updates["name"].(string); ok {
		c.Name = name
		c.Slug = updates["slug"].(string)
	}
	return 1, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func TestCreateDerivesSlug(t *testing.T) {
	repo := &fakeRepo{rows: map[uuid.UUID]*models.Category{}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), CreateCategoryInput{Name: " Baby  Gear "})
	require.NoError(t, err)
	require.Equal(t, "Baby Gear", dto.Name)
	require.Equal(t, "baby-gear", dto.Slug)
	require.True(t, dto.IsActive)
}

func TestCreateDuplicateSlugIsConflict(t *testing.T) {
	repo := &fakeRepo{
		rows:      map[uuid.UUID]*models.Category{},
		createErr: &pgconn.PgError{Code: "23505", ConstraintName: slugConstraint},
	}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Toys"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestUpdateRenamesSlugAndDeleteMissing(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{rows: map[uuid.UUID]*models.Category{
		id: {ID: id, Name: "Toys", Slug: "toys", IsActive: true},
	}}
	svc, _ := NewService(repo)

	name := "Soft Toys"
	dto, err := svc.Update(context.Background(), id, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "soft-toys", dto.Slug)

	_, err = svc.Update(context.Background(), uuid.New(), UpdateCategoryInput{Name: &name})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Update(context.Background(), id, UpdateCategoryInput{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.Delete(context.Background(), id))
	require.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), id), pkgerrors.CodeNotFound))
}

func TestListPublicHidesInactive(t *testing.T) {
	repo := &fakeRepo{rows: map[uuid.UUID]*models.Category{
		uuid.New(): {Name: "Toys", Slug: "toys", IsActive: true},
		uuid.New(): {Name: "Old", Slug: "old", IsActive: false},
	}}
	svc, _ := NewService(repo)

	public, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
