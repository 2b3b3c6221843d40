package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// RoomAssignRequest 分类加入房间请求
type RoomAssignRequest struct {
	CategoryID uint `json:"category_id" binding:"required"`
	IsPrimary  bool `json:"is_primary"`
}

// RoomReorderRequest 房间分类重排请求
type RoomReorderRequest struct {
	CategoryIDs []uint `json:"category_ids"`
}

func parseRoom(c *gin.Context) (int, bool) {
	room, err := strconv.Atoi(strings.TrimSpace(c.Param("room")))
	if err != nil {
		return 0, false
	}
	return room, true
}

// ListRoomCategories 房间内分类
func (h *Handler) ListRoomCategories(c *gin.Context) {
	room, ok := parseRoom(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	assignments, err := h.RoomService.List(room)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	response.Success(c, assignments)
}

// AssignRoomCategory 分类加入房间
func (h *Handler) AssignRoomCategory(c *gin.Context) {
	room, ok := parseRoom(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req RoomAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	assignment, err := h.RoomService.Assign(room, req.CategoryID, req.IsPrimary)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	response.Success(c, assignment)
}

// RemoveRoomCategory 分类移出房间
func (h *Handler) RemoveRoomCategory(c *gin.Context) {
	room, ok := parseRoom(c)
	categoryID, idOK := parsePathUint(c, "category_id")
	if !ok || !idOK {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.RoomService.Remove(room, categoryID); err != nil {
		respondRoomError(c, err)
		return
	}
	response.Success(c, nil)
}

// SetRoomPrimaryCategory 设为房间主分类
func (h *Handler) SetRoomPrimaryCategory(c *gin.Context) {
	room, ok := parseRoom(c)
	categoryID, idOK := parsePathUint(c, "category_id")
	if !ok || !idOK {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.RoomService.SetPrimary(room, categoryID); err != nil {
		respondRoomError(c, err)
		return
	}
	assignments, err := h.RoomService.List(room)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	response.Success(c, assignments)
}

// ReorderRoomCategories 房间分类重排
func (h *Handler) ReorderRoomCategories(c *gin.Context) {
	room, ok := parseRoom(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req RoomReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	assignments, err := h.RoomService.Reorder(room, req.CategoryIDs)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	response.Success(c, assignments)
}

func respondRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrRoomAssignmentMissing):
		respondError(c, response.CodeNotFound, "error.room_assignment_missing", nil)
	case errors.Is(err, service.ErrRoomAssignmentExists):
		respondError(c, response.CodeBadRequest, "error.room_assignment_exists", nil)
	default:
		respondError(c, response.CodeInternal, "error.room_assignment_failed", err)
	}
}
