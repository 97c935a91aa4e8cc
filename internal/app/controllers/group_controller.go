package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/app/services"
	"github.com/yigit/roster/internal/middleware"
)

// GroupController handles group endpoints
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// GetAllGroups lists groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} models.Group
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/groups [get]
func (c *GroupController) GetAllGroups(ctx *gin.Context) {
	groups, err := c.groupService.GetAllGroups(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, groups)
}

// GetGroupByID retrieves a group
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/groups/{id} [get]
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "group")
	if !ok {
		return
	}

	group, err := c.groupService.GetGroupByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, group)
}

// CreateGroup creates a group with the next id
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body dto.GroupRequest true "Group name"
// @Success 200 {object} models.Group
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.GroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.CreateGroup(ctx, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, group)
}

// UpdateGroup renames a group
// @Summary Rename a group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body dto.GroupRequest true "Group name"
// @Success 200 {object} models.Group
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "group")
	if !ok {
		return
	}

	var req dto.GroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.UpdateGroup(ctx, id, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, group)
}

// DeleteGroup deletes a group nobody references
// @Summary Delete a group
// @Description Refused with 400 while any student references the group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "cannot delete group with existing students"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "group")
	if !ok {
		return
	}

	if err := c.groupService.DeleteGroup(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "group deleted", ID: id})
}
