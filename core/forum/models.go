package forum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/user"
)

// Vote directions
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

type (
	Post struct {
		ID        string       `json:"id"`
		Title     string       `json:"title"`
		Content   string       `json:"content"`
		Category  string       `json:"category"` // Academic, Study Group, Career, ...
		Tags      []string     `json:"tags,omitempty"`
		Author    user.Profile `json:"author"`
		Views     int          `json:"views"`
		Upvotes   int          `json:"upvotes"`
		Downvotes int          `json:"downvotes"`
		CreatedAt time.Time    `json:"created_at"` // UTC

		CommentCount int       `json:"comment_count"`
		Comments     []Comment `json:"comments,omitempty"` // only populated on detail reads
	}

	// Comment records hold an optional parent reference by id; reply lists
	// are materialized by query, no cyclic structures are stored.
	Comment struct {
		ID        string       `json:"id"`
		PostID    string       `json:"post_id"`
		ParentID  string       `json:"parent_id,omitempty"`
		Content   string       `json:"content"`
		Author    user.Profile `json:"author"`
		CreatedAt time.Time    `json:"created_at"` // UTC

		Replies []Comment `json:"replies,omitempty"`
	}
)

type NewPost struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Tags     []string `json:"tags"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Content = core.CleanString(np.Content)
	np.Category = core.CleanString(np.Category)
	for i, tag := range np.Tags {
		np.Tags[i] = core.CleanString(tag, true /* lower */)
	}
	return validate.Struct(np)
}

type NewComment struct {
	Content  string `json:"content" validate:"required"`
	ParentID string `json:"parent_id"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.Content = core.CleanString(nc.Content)
	return validate.Struct(nc)
}

type NewVote struct {
	Type string `json:"type" validate:"required,oneof=upvote downvote"`
}

func (nv *NewVote) Validate(validate *validator.Validate) error {
	nv.Type = core.CleanString(nv.Type, true /* lower */)
	return validate.Struct(nv)
}
