package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"notesapi/internal/auth"
	"notesapi/internal/dto"
	"notesapi/internal/service"

	"github.com/gin-gonic/gin"
)

// TagHandler handles tag CRUD for the authenticated user.
type TagHandler struct {
	svc *service.TagService
}

// NewTagHandler returns a new TagHandler.
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// List godoc
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "Offset"  default(0)
// @Param        limit  query  int  false  "Page size"  default(100)
// @Success      200  {array}   dto.TagResponse
// @Failure      401  {object}  map[string]string
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	skip, limit := pagination(c)
	list, err := h.svc.List(c.Request.Context(), user.ID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list tags"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTagListResponse(list))
}

// GetByID godoc
// @Summary      Get a tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Tag ID"
// @Success      200  {object}  dto.TagResponse
// @Failure      404  {object}  map[string]string
// @Router       /tags/{id} [get]
func (h *TagHandler) GetByID(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid tag id"})
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to get tag"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTagResponse(t))
}

// Create godoc
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.TagRequest  true  "Tag data"
// @Success      201  {object}  dto.TagResponse
// @Failure      409  {object}  map[string]string
// @Router       /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTagTaken) {
			c.JSON(http.StatusConflict, gin.H{"detail": "tag already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create tag"})
		return
	}
	c.JSON(http.StatusCreated, dto.NewTagResponse(t))
}

// Update godoc
// @Summary      Rename a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int             true  "Tag ID"
// @Param        body  body  dto.TagRequest  true  "Tag data"
// @Success      200  {object}  dto.TagResponse
// @Failure      404  {object}  map[string]string
// @Router       /tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid tag id"})
		return
	}
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), user.ID, id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "tag not found"})
		case errors.Is(err, service.ErrTagTaken):
			c.JSON(http.StatusConflict, gin.H{"detail": "tag already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update tag"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewTagResponse(t))
}

// Delete godoc
// @Summary      Delete a tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Tag ID"
// @Success      200  {object}  dto.TagResponse
// @Failure      404  {object}  map[string]string
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid tag id"})
		return
	}
	t, err := h.svc.Delete(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete tag"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTagResponse(t))
}
