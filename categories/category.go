// Package categories stores the labels todos, notes and events refer to, and
// guards their deletion while references exist.
package categories

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/model"
)

const (
	Entity = "category"
	Table  = "categories"

	DefaultColor = "#FFFFFF"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Category struct {
	bun.BaseModel `bun:"table:categories" json:"-"`
	model.Base

	Name        string  `bun:"name,notnull" json:"name"`
	Color       string  `bun:"color,notnull" json:"color"`
	Icon        *string `bun:"icon" json:"icon,omitempty"`
	Description *string `bun:"description" json:"description,omitempty"`
}

type CreateInput struct {
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateInput changes the set fields. Empty Icon or Description clear them.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Change struct {
	ID   string      `json:"id"`
	Data UpdateInput `json:"data"`
}

func (in CreateInput) category() *Category {
	return &Category{
		Name:        in.Name,
		Color:       in.Color,
		Icon:        model.NonEmpty(in.Icon),
		Description: model.NonEmpty(in.Description),
	}
}

func (in UpdateInput) apply(c *Category) {
	model.Patch(&c.Name, in.Name)
	model.Patch(&c.Color, in.Color)
	model.PatchString(&c.Icon, in.Icon)
	model.PatchString(&c.Description, in.Description)
}

func prepare(c *Category, _ time.Time) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Color == "" {
		c.Color = DefaultColor
	}
	c.Color = strings.ToUpper(c.Color)
}

func validate(c *Category) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Color, validation.Required,
			validation.Match(hexColor).Error("must be a #RRGGBB color")),
		validation.Field(&c.Icon, validation.Length(1, 50)),
	)
}
