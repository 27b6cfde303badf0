package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/recipevault/backend/internal/middleware"
	"github.com/recipevault/backend/internal/models"
	"github.com/recipevault/backend/internal/service"
)

// RecipeSummary is the list-view shape: description and image are only
// exposed on the detail view.
type RecipeSummary struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       decimal.Decimal     `json:"price"`
	Link        string              `json:"link"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

func summarize(r models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
}

type RecipeHandler struct {
	recipeService *service.RecipeService
	imageStore    service.ImageStore
	rateLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, imageStore service.ImageStore, rateLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageStore:    imageStore,
		rateLimiter:   rateLimiter,
	}
}

// RegisterRoutes attaches the recipe endpoints to an authenticated group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/", h.List)
		if h.rateLimiter != nil {
			recipes.POST("/", h.rateLimiter.RateLimitMiddleware(), h.Create)
		} else {
			recipes.POST("/", h.Create)
		}
		recipes.GET("/:id/", h.Get)
		recipes.PUT("/:id/", h.Update)
		recipes.PATCH("/:id/", h.Update)
		recipes.DELETE("/:id/", h.Delete)
		recipes.POST("/:id/upload-image/", h.UploadImage)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tags must be a comma-separated list of ids"})
		return
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients must be a comma-separated list of ids"})
		return
	}

	recipes, err := h.recipeService.List(userID, service.RecipeFilters{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}

	summaries := make([]RecipeSummary, len(recipes))
	for i, r := range recipes {
		summaries[i] = summarize(r)
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(userID, id)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var input service.RecipeCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(userID, input)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input service.RecipeUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Update(userID, id, input)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(userID, id); err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Ownership check before touching storage.
	if _, err := h.recipeService.Get(userID, id); err != nil {
		abortServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is empty"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image"})
		return
	}

	key := service.RecipeImageKey(fileHeader.Filename)
	url, err := h.imageStore.Save(c.Request.Context(), key, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	recipe, err := h.recipeService.SetImage(userID, id, url)
	if err != nil {
		// The row was not updated; drop the now-unreferenced object.
		_ = h.imageStore.Delete(c.Request.Context(), key)
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": recipe.ID, "image": recipe.Image})
}
