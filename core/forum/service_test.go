package forum_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/forum"
	"github.com/kmande/chuo/core/user"
	dummydb "github.com/kmande/chuo/storage/database/dummy"
)

func newTestService(t *testing.T) forum.ServiceInterface {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	return forum.NewService(dummydb.NewForumRepository(db))
}

var author = user.User{ID: "u1", Name: "Someone", Email: "hero@test.cd", Role: user.RoleStudent}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.GetByID(ctx, "404"); errors.Cause(err) != forum.ErrNotFound {
		t.Fatalf("GetByID() error = %v, want %v", err, forum.ErrNotFound)
	}

	post, err := svc.CreatePost(ctx, forum.NewPost{Title: "Big-O", Content: "halp", Category: "Academic"}, author)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	top, err := svc.Comment(ctx, post.ID, forum.NewComment{Content: "read CLRS"}, author)
	if err != nil {
		t.Fatalf("Comment() error = %v", err)
	}
	if _, err = svc.Comment(ctx, post.ID, forum.NewComment{Content: "+1", ParentID: top.ID}, author); err != nil {
		t.Fatalf("Comment() error = %v", err)
	}

	// every detail read counts one view
	for want := 1; want <= 2; want++ {
		got, err := svc.GetByID(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Views != want {
			t.Errorf("Views = %d; want %d", got.Views, want)
		}
		if got.CommentCount != 2 {
			t.Errorf("CommentCount = %d; want 2", got.CommentCount)
		}
		if len(got.Comments) != 1 || len(got.Comments[0].Replies) != 1 {
			t.Errorf("comment tree = %+v; want one thread with one reply", got.Comments)
		}
	}
}

func TestService_Comment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	post, err := svc.CreatePost(ctx, forum.NewPost{Title: "Big-O", Content: "halp", Category: "Academic"}, author)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	other, err := svc.CreatePost(ctx, forum.NewPost{Title: "Mess", Content: "lol", Category: "Career"}, author)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	top, err := svc.Comment(ctx, other.ID, forum.NewComment{Content: "hi"}, author)
	if err != nil {
		t.Fatalf("Comment() error = %v", err)
	}

	tests := []struct {
		name    string
		postID  string
		nc      forum.NewComment
		wantErr error
	}{
		{name: "unknown post", postID: "404", nc: forum.NewComment{Content: "hi"}, wantErr: forum.ErrNotFound},
		{name: "unknown parent", postID: post.ID, nc: forum.NewComment{Content: "hi", ParentID: "404"}, wantErr: forum.ErrParentNotFound},
		// the parent must belong to the same post
		{name: "parent on another post", postID: post.ID, nc: forum.NewComment{Content: "hi", ParentID: top.ID}, wantErr: forum.ErrParentNotFound},
		{name: "top-level", postID: post.ID, nc: forum.NewComment{Content: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmt, err := svc.Comment(ctx, tt.postID, tt.nc, author)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Comment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if cmt.ID == "" || cmt.PostID != tt.postID {
					t.Errorf("Comment() = %+v", cmt)
				}
				if cmt.Author.ID != author.ID {
					t.Errorf("Author.ID = %v; want %v", cmt.Author.ID, author.ID)
				}
			}
		})
	}
}

func TestService_Vote(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.Vote(ctx, "404", forum.VoteUp); errors.Cause(err) != forum.ErrNotFound {
		t.Fatalf("Vote() error = %v, want %v", err, forum.ErrNotFound)
	}

	post, err := svc.CreatePost(ctx, forum.NewPost{Title: "Big-O", Content: "halp", Category: "Academic"}, author)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	for _, vote := range []string{forum.VoteUp, forum.VoteUp, forum.VoteDown} {
		if post, err = svc.Vote(ctx, post.ID, vote); err != nil {
			t.Fatalf("Vote(%s) error = %v", vote, err)
		}
	}
	if post.Upvotes != 2 || post.Downvotes != 1 {
		t.Errorf("votes = %d up / %d down; want 2 / 1", post.Upvotes, post.Downvotes)
	}
}
