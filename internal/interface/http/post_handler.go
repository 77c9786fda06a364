package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/interface/middleware"
	"github.com/ajisatria/go-blog-api/pkg/response"
	"github.com/ajisatria/go-blog-api/pkg/validation"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Title     string   `json:"title" binding:"required,min=3,max=160"`
	Content   string   `json:"content" binding:"required,min=10"`
	Tags      []string `json:"tags" binding:"omitempty,dive,min=1"`
	Published *bool    `json:"published"`
}

type updatePostRequest struct {
	Title     *string  `json:"title" binding:"omitempty,min=3,max=160"`
	Content   *string  `json:"content" binding:"omitempty,min=10"`
	Tags      []string `json:"tags" binding:"omitempty,dive,min=1"`
	Published *bool    `json:"published"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

type listPostsQuery struct {
	Q         string `form:"q"`
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Sort      string `form:"sort"`
	Published string `form:"published"`
}

// Create POST /api/posts (auth required)
func (h *PostHandler) Create(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), caller, application.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Published: req.Published,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusCreated, postJSON(p, true))
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	var q listPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	in := application.ListPostsInput{
		Query:    q.Q,
		Tag:      q.Tag,
		AuthorID: q.Author,
		Sort:     q.Sort,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Published != "" {
		b, err := strconv.ParseBool(q.Published)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "validation error",
				map[string]string{"published": "must be a boolean"})
			return
		}
		in.Published = &b
	}

	res, err := h.Svc.List(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	items := make([]gin.H, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, postJSON(&res.Items[i], false))
	}
	response.DataMeta(c, http.StatusOK, items, response.ListMeta{
		Total: res.Total,
		Page:  res.Page,
		Limit: res.Limit,
		Pages: res.Pages,
	})
}

// Search GET /api/posts/search
func (h *PostHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, hits)
}

// Get GET /api/posts/:slug
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, postJSON(p, true))
}

// Update PATCH /api/posts/:slug (auth required)
func (h *PostHandler) Update(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("slug"), caller, application.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Published: req.Published,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, postJSON(p, true))
}

// Remove DELETE /api/posts/:slug (auth required)
func (h *PostHandler) Remove(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.Svc.Remove(c.Request.Context(), c.Param("slug"), caller); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Message(c, http.StatusOK, "deleted")
}

// ToggleLike POST /api/posts/:slug/like (auth required)
func (h *PostHandler) ToggleLike(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	likes, liked, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("slug"), caller)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"likes": likes, "liked": liked})
}

// AddComment POST /api/posts/:slug/comments (auth required)
func (h *PostHandler) AddComment(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	comments, err := h.Svc.AddComment(c.Request.Context(), c.Param("slug"), caller, req.Content)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"comments": commentsJSON(comments)})
}

// RemoveComment DELETE /api/posts/:slug/comments/:commentId (auth required)
func (h *PostHandler) RemoveComment(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	comments, err := h.Svc.RemoveComment(c.Request.Context(), c.Param("slug"), c.Param("commentId"), caller)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"comments": commentsJSON(comments)})
}
