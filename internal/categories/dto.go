package categories

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases the name and collapses whitespace runs into a dash.
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateCategoryInput struct {
	Name         string  `json:"name" validate:"required,min=2,max=80"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=500"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type UpdateCategoryInput struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=500"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func FromModel(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (in CreateCategoryInput) toModel() *models.Category {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	name := strings.TrimSpace(in.Name)
	return &models.Category{
		Name:         name,
		Slug:         Slugify(name),
		Description:  in.Description,
		DisplayOrder: in.DisplayOrder,
		IsActive:     active,
	}
}

func (in UpdateCategoryInput) updates() map[string]any {
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		updates["name"] = name
		updates["slug"] = Slugify(name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.DisplayOrder != nil {
		updates["display_order"] = *in.DisplayOrder
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	return updates
}
