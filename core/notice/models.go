package notice

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/user"
)

type Notice struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Category   string       `json:"category"` // Academics, Facilities, Scholarships, ...
	Department string       `json:"department"`
	Important  bool         `json:"important"`
	ExpiresAt  time.Time    `json:"expires_at,omitempty"` // zero = never
	Author     user.Profile `json:"author"`
	CreatedAt  time.Time    `json:"created_at"` // UTC
}

type NewNotice struct {
	Title      string    `json:"title" validate:"required"`
	Content    string    `json:"content" validate:"required"`
	Category   string    `json:"category" validate:"required"`
	Department string    `json:"department"`
	Important  bool      `json:"important"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (nn *NewNotice) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Content = core.CleanString(nn.Content)
	nn.Category = core.CleanString(nn.Category)
	nn.Department = core.CleanString(nn.Department)
	return validate.Struct(nn)
}
