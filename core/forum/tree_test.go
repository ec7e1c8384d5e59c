package forum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildTree(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return t0.Add(time.Duration(min) * time.Minute) }
	cmt := func(id, parentID string, min int) Comment {
		return Comment{ID: id, ParentID: parentID, Content: id, CreatedAt: at(min)}
	}
	ids := func(comments []Comment) []string {
		if len(comments) == 0 {
			return nil
		}
		out := make([]string, 0, len(comments))
		for _, c := range comments {
			out = append(out, c.ID)
		}
		return out
	}

	tests := []struct {
		name        string
		comments    []Comment
		wantTop     []string
		wantReplies map[string][]string
	}{
		{
			name: "no comments",
		},
		{
			name:     "flat, keeps stored order",
			comments: []Comment{cmt("a", "", 0), cmt("b", "", 1), cmt("c", "", 2)},
			wantTop:  []string{"a", "b", "c"},
		},
		{
			name: "replies group under their parents",
			comments: []Comment{
				cmt("a", "", 0), cmt("b", "", 1),
				cmt("a1", "a", 2), cmt("b1", "b", 3), cmt("a2", "a", 4),
			},
			wantTop:     []string{"a", "b"},
			wantReplies: map[string][]string{"a": {"a1", "a2"}, "b": {"b1"}},
		},
		{
			// a reply to a reply lands in the same thread as its ancestor,
			// ordered by creation time, not nesting depth
			name: "nested replies flatten into the thread",
			comments: []Comment{
				cmt("a", "", 0),
				cmt("a1", "a", 1),
				cmt("a1x", "a1", 2),
				cmt("a2", "a", 3),
				cmt("a1xy", "a1x", 4),
			},
			wantTop:     []string{"a"},
			wantReplies: map[string][]string{"a": {"a1", "a1x", "a2", "a1xy"}},
		},
		{
			name: "orphaned reply surfaces top-level",
			comments: []Comment{
				cmt("a", "", 0),
				cmt("ghost-child", "ghost", 1),
			},
			wantTop: []string{"a", "ghost-child"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildTree(tt.comments)
			assert.Equal(t, tt.wantTop, ids(got), "top-level order")
			for _, top := range got {
				assert.Equal(t, tt.wantReplies[top.ID], ids(top.Replies), "replies of %s", top.ID)
				for _, reply := range top.Replies {
					assert.Empty(t, reply.Replies, "replies must be flat")
				}
			}
		})
	}
}
