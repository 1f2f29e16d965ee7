package service

import (
	"context"
	"strings"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: "   "})
		assertBadRequestError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertBadRequestError(t, err)
	})

	t.Run("post not found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		_, err := NewCommentService(noopCommentRepo(), postRepo).CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
		assertCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_CreateComment_Success(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: "hello", UserID: 1, PostID: 1}, nil
	}

	comment, err := NewCommentService(commentRepo, noopPostRepo()).CreateComment(context.Background(), CreateCommentInput{
		UserID:  1,
		PostID:  1,
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, "hello", comment.Content)
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()

	t.Run("authorship is checked against the comment's author", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		// Comment id equals the caller id, author differs.
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 1, CommentID: 1, Content: "new"})
		assertUnauthorizedError(t, err)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 1, CommentID: 3, Content: ""})
		assertBadRequestError(t, err)
	})

	t.Run("author updates", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		var gotContent string
		commentRepo.updateContentFn = func(_ context.Context, _ uint, content string) error {
			gotContent = content
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 1, CommentID: 3, Content: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", gotContent)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	deleted := false
	commentRepo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	assertUnauthorizedError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 2, CommentID: 3}))
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 3}))
	assert.True(t, deleted)
}

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	var gotPostID uint = 99
	commentRepo.listFn = func(_ context.Context, postID uint) ([]*models.Comment, error) {
		gotPostID = postID
		return []*models.Comment{{ID: 1}}, nil
	}

	comments, err := NewCommentService(commentRepo, noopPostRepo()).ListComments(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Zero(t, gotPostID)
}
