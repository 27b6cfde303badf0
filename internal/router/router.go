package router

import (
	"github.com/gin-gonic/gin"

	"github.com/recipevault/backend/internal/api"
	"github.com/recipevault/backend/internal/middleware"
	"github.com/recipevault/backend/internal/service"
)

// SetupRouter configures the application routes. Everything under
// /recipe requires a bearer token; /user/me carries its own auth inside
// the user handler.
func SetupRouter(
	authService *service.AuthService,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.LabelHandler,
	ingredientHandler *api.LabelHandler,
) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.CORS())

	userHandler.RegisterRoutes(router)

	protected := router.Group("/recipe")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		recipeHandler.RegisterRoutes(protected)
		tagHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
	}

	return router
}
