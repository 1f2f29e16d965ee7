package server

import (
	"blogapi/internal/models"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "Post"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "post created", post)
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest first, each with the author's nickname and like count
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (max 100); all posts when omitted"
// @Param offset query int false "Offset"
// @Success 200 {object} models.Response{data=[]models.Post}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 0)

	posts, err := s.postService.ListPosts(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "", posts)
}

// GetLikedPosts handles GET /api/posts/like
// @Summary Posts the caller liked
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.Post}
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/like [get]
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListLikedPosts(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "", posts)
}

// GetPost handles GET /api/posts/:postId
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "", post)
}

// UpdatePost handles PATCH /api/posts/:postId
// @Summary Update a post
// @Description Only the author may update. Empty fields keep their value.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body postRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/{postId} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "post updated", post)
}

// DeletePost handles DELETE /api/posts/:postId
// @Summary Delete a post
// @Description Removes the post with its comments and likes
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "post deleted", nil)
}

// LikePost handles POST /api/posts/:postId/like
// @Summary Like a post
// @Description Liking twice is a no-op
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/{postId}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.UserContext(), service.LikeInput{
		UserID: currentUserID(c),
		PostID: postID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "post liked", post)
}

// RemoveLike handles DELETE /api/posts/:postId/removeLike
// @Summary Remove the caller's like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/{postId}/removeLike [delete]
func (s *Server) RemoveLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.UserContext(), service.LikeInput{
		UserID: currentUserID(c),
		PostID: postID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "like removed", post)
}
