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

// NoteHandler handles note CRUD for the authenticated user.
type NoteHandler struct {
	svc *service.NoteService
}

// NewNoteHandler returns a new NoteHandler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// List godoc
// @Summary      List notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "Offset"  default(0)
// @Param        limit  query  int  false  "Page size"  default(100)
// @Success      200  {array}   dto.NoteResponse
// @Failure      401  {object}  map[string]string
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	skip, limit := pagination(c)
	list, err := h.svc.List(c.Request.Context(), user.ID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list notes"})
		return
	}
	c.JSON(http.StatusOK, dto.NewNoteListResponse(list))
}

// GetByID godoc
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Note ID"
// @Success      200  {object}  dto.NoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [get]
func (h *NoteHandler) GetByID(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid note id"})
		return
	}
	n, err := h.svc.GetByID(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to get note"})
		return
	}
	c.JSON(http.StatusOK, dto.NewNoteResponse(n))
}

// Create godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateNoteRequest  true  "Note data"
// @Success      201  {object}  dto.NoteResponse
// @Failure      400  {object}  map[string]string
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	n, err := h.svc.Create(c.Request.Context(), user.ID, req.Title, req.Description, req.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create note"})
		return
	}
	c.JSON(http.StatusCreated, dto.NewNoteResponse(n))
}

// Update godoc
// @Summary      Replace a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                    true  "Note ID"
// @Param        body  body  dto.UpdateNoteRequest  true  "Note data"
// @Success      200  {object}  dto.NoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid note id"})
		return
	}
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	n, err := h.svc.Update(c.Request.Context(), user.ID, id, req.Title, req.Description, req.Done, req.Tags)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update note"})
		return
	}
	c.JSON(http.StatusOK, dto.NewNoteResponse(n))
}

// UpdateStatus godoc
// @Summary      Set the done flag of a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                          true  "Note ID"
// @Param        body  body  dto.UpdateNoteStatusRequest  true  "Status"
// @Success      200  {object}  dto.NoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [patch]
func (h *NoteHandler) UpdateStatus(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid note id"})
		return
	}
	var req dto.UpdateNoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	n, err := h.svc.SetDone(c.Request.Context(), user.ID, id, *req.Done)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update note"})
		return
	}
	c.JSON(http.StatusOK, dto.NewNoteResponse(n))
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Note ID"
// @Success      200  {object}  dto.NoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": auth.ErrUnauthenticated.Error()})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid note id"})
		return
	}
	n, err := h.svc.Delete(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete note"})
		return
	}
	c.JSON(http.StatusOK, dto.NewNoteResponse(n))
}

// pagination reads skip/limit query params with the original defaults.
func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}
