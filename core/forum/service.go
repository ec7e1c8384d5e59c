package forum

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/user"
)

var (
	ErrNotFound       = errors.New("forum post not found")
	ErrParentNotFound = errors.New("parent comment not found")
)

type (
	Repository interface {
		CreatePost(ctx context.Context, post Post) (Post, error)
		// QueryPosts returns posts (optionally one category) newest first,
		// with comment counts but without comment bodies.
		QueryPosts(ctx context.Context, category string) ([]Post, error)
		GetPost(ctx context.Context, id string) (Post, error)
		// QueryComments returns every comment of a post, oldest first.
		QueryComments(ctx context.Context, postID string) ([]Comment, error)
		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		IncrementViews(ctx context.Context, postID string) error
		// Vote bumps the post's upvote or downvote counter and returns the
		// updated post.
		Vote(ctx context.Context, postID, voteType string) (Post, error)
	}

	ServiceInterface interface {
		CreatePost(ctx context.Context, np NewPost, author user.User) (Post, error)
		Query(ctx context.Context, category string) ([]Post, error)
		// GetByID counts a view and returns the post with its comment tree.
		GetByID(ctx context.Context, id string) (Post, error)
		Comment(ctx context.Context, postID string, nc NewComment, author user.User) (Comment, error)
		Vote(ctx context.Context, postID, voteType string) (Post, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) CreatePost(ctx context.Context, np NewPost, author user.User) (Post, error) {
	post := Post{
		Title:     np.Title,
		Content:   np.Content,
		Category:  np.Category,
		Tags:      np.Tags,
		Author:    author.Profile(),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreatePost(ctx, post)
}

func (svc *service) Query(ctx context.Context, category string) ([]Post, error) {
	return svc.repo.QueryPosts(ctx, category)
}

func (svc *service) GetByID(ctx context.Context, id string) (Post, error) {
	if err := svc.repo.IncrementViews(ctx, id); err != nil {
		return Post{}, err
	}
	post, err := svc.repo.GetPost(ctx, id)
	if err != nil {
		return Post{}, err
	}
	comments, err := svc.repo.QueryComments(ctx, id)
	if err != nil {
		return Post{}, err
	}
	post.Comments = buildTree(comments)
	post.CommentCount = len(comments)
	return post, nil
}

func (svc *service) Comment(ctx context.Context, postID string, nc NewComment, author user.User) (Comment, error) {
	if _, err := svc.repo.GetPost(ctx, postID); err != nil {
		return Comment{}, err
	}
	if nc.ParentID != "" {
		comments, err := svc.repo.QueryComments(ctx, postID)
		if err != nil {
			return Comment{}, err
		}
		var found bool
		for _, cmt := range comments {
			if cmt.ID == nc.ParentID {
				found = true
				break
			}
		}
		if !found {
			return Comment{}, ErrParentNotFound
		}
	}
	cmt := Comment{
		PostID:    postID,
		ParentID:  nc.ParentID,
		Content:   nc.Content,
		Author:    author.Profile(),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateComment(ctx, cmt)
}

func (svc *service) Vote(ctx context.Context, postID, voteType string) (Post, error) {
	return svc.repo.Vote(ctx, postID, voteType)
}

// buildTree materializes reply lists from the flat parent-id arena: top-level
// comments keep their stored (oldest first) order, replies group under their
// top-level ancestor, oldest first. Replies-to-replies flatten into the same
// thread; orphaned replies surface as top-level rather than being dropped.
func buildTree(comments []Comment) []Comment {
	parentOf := make(map[string]string, len(comments))
	for _, cmt := range comments {
		parentOf[cmt.ID] = cmt.ParentID
	}

	// rootOf walks up the parent chain to the thread's top-level comment.
	rootOf := func(id string) string {
		for hops := 0; hops <= len(comments); hops++ {
			parent, ok := parentOf[id]
			if !ok || parent == "" {
				return id
			}
			id = parent
		}
		return id // cycle guard; cannot happen with append-only comments
	}

	replies := make(map[string][]Comment)
	var topLevel []Comment
	for _, cmt := range comments {
		cmt.Replies = nil
		if cmt.ParentID == "" {
			topLevel = append(topLevel, cmt)
			continue
		}
		if _, ok := parentOf[cmt.ParentID]; !ok {
			topLevel = append(topLevel, cmt)
			continue
		}
		root := rootOf(cmt.ID)
		replies[root] = append(replies[root], cmt)
	}

	for i := range topLevel {
		thread := replies[topLevel[i].ID]
		sort.SliceStable(thread, func(a, b int) bool {
			return thread[a].CreatedAt.Before(thread[b].CreatedAt)
		})
		topLevel[i].Replies = thread
	}
	return topLevel
}
