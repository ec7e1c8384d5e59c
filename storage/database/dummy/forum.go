package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kmande/chuo/core/forum"
)

type forumRepository struct {
	db *forumTables
}

var _ forum.Repository = (*forumRepository)(nil) // interface compliance check

func NewForumRepository(db *DB) forum.Repository {
	return &forumRepository{db: db.forum}
}

func (repo *forumRepository) CreatePost(ctx context.Context, post forum.Post) (forum.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	repo.db.posts[post.ID] = &post
	return post, nil
}

func (repo *forumRepository) QueryPosts(ctx context.Context, category string) ([]forum.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	posts := make([]forum.Post, 0, len(repo.db.posts))
	for _, post := range repo.db.posts {
		if category != "" && !strings.EqualFold(post.Category, category) {
			continue
		}
		p := *post
		p.CommentCount = len(repo.db.comments[p.ID])
		p.Comments = nil
		posts = append(posts, p)
	}
	// newest first
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *forumRepository) GetPost(ctx context.Context, id string) (forum.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	post, ok := repo.db.posts[id]
	if !ok {
		return forum.Post{}, forum.ErrNotFound
	}
	p := *post
	p.CommentCount = len(repo.db.comments[id])
	return p, nil
}

func (repo *forumRepository) QueryComments(ctx context.Context, postID string) ([]forum.Comment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	stored := repo.db.comments[postID]
	comments := make([]forum.Comment, 0, len(stored))
	for _, cmt := range stored {
		comments = append(comments, *cmt)
	}
	// insertion order is creation order; keep it oldest first
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (repo *forumRepository) CreateComment(ctx context.Context, cmt forum.Comment) (forum.Comment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.posts[cmt.PostID]; !ok {
		return forum.Comment{}, forum.ErrNotFound
	}
	if cmt.ID == "" {
		cmt.ID = uuid.NewString()
	}
	repo.db.comments[cmt.PostID] = append(repo.db.comments[cmt.PostID], &cmt)
	return cmt, nil
}

func (repo *forumRepository) IncrementViews(ctx context.Context, postID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	post, ok := repo.db.posts[postID]
	if !ok {
		return forum.ErrNotFound
	}
	post.Views++
	return nil
}

func (repo *forumRepository) Vote(ctx context.Context, postID, voteType string) (forum.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	post, ok := repo.db.posts[postID]
	if !ok {
		return forum.Post{}, forum.ErrNotFound
	}
	switch voteType {
	case forum.VoteUp:
		post.Upvotes++
	case forum.VoteDown:
		post.Downvotes++
	}
	p := *post
	p.CommentCount = len(repo.db.comments[postID])
	return p, nil
}
