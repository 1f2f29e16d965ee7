package service

import (
	"context"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

type LikeInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if isBlank(in.Title) || isBlank(in.Content) {
		return nil, models.NewBadRequestError("title and content are required")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// UpdatePost applies the non-empty fields of in to a post the caller owns.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("you can only update your own posts")
	}
	if isBlank(in.Title) && isBlank(in.Content) {
		return nil, models.NewBadRequestError("title or content is required")
	}

	if !isBlank(in.Title) {
		post.Title = in.Title
	}
	if !isBlank(in.Content) {
		post.Content = in.Content
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("you can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost is idempotent: liking an already liked post returns it unchanged.
func (s *PostService) LikePost(ctx context.Context, in LikeInput) (*models.Post, error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "LikePost")
	defer span.End()

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if _, err := s.postRepo.Like(ctx, in.UserID, in.PostID); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

// UnlikePost removes the caller's like. Other users' likes answer 401, a post
// nobody liked answers 400.
func (s *PostService) UnlikePost(ctx context.Context, in LikeInput) (*models.Post, error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "UnlikePost")
	defer span.End()

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	removed, err := s.postRepo.Unlike(ctx, in.UserID, in.PostID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if !removed {
		count, err := s.postRepo.CountLikes(ctx, in.PostID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, models.NewUnauthorizedError("not your like")
		}
		return nil, models.NewBadRequestError("like not found")
	}

	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *PostService) ListLikedPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.postRepo.ListLikedBy(ctx, userID)
}
