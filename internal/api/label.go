package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recipevault/backend/internal/middleware"
	"github.com/recipevault/backend/internal/service"
)

type UpdateLabelRequest struct {
	Name string `json:"name" binding:"required"`
}

// LabelHandler serves one label resource (tags or ingredients). There is
// no create endpoint: labels come into existence through recipe writes.
type LabelHandler struct {
	labelService *service.LabelService
	resource     string
}

func NewTagHandler(labelService *service.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService, resource: "tags"}
}

func NewIngredientHandler(labelService *service.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService, resource: "ingredients"}
}

// RegisterRoutes attaches the label endpoints to an authenticated group.
func (h *LabelHandler) RegisterRoutes(router *gin.RouterGroup) {
	labels := router.Group("/" + h.resource)
	{
		labels.GET("/", h.List)
		labels.GET("/:id/", h.Get)
		labels.PUT("/:id/", h.Update)
		labels.PATCH("/:id/", h.Update)
		labels.DELETE("/:id/", h.Delete)
	}
}

func (h *LabelHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	// Non-numeric values fall back to 0, the "all labels" default.
	assignedOnly, _ := strconv.Atoi(c.DefaultQuery("assigned_only", "0"))

	labels, err := h.labelService.List(userID, assignedOnly != 0)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

func (h *LabelHandler) Get(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	label, err := h.labelService.Get(userID, id)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func (h *LabelHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := h.labelService.Update(userID, id, req.Name)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func (h *LabelHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.labelService.Delete(userID, id); err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
