package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipevault/backend/internal/api"
	"github.com/recipevault/backend/internal/database"
	"github.com/recipevault/backend/internal/models"
	"github.com/recipevault/backend/internal/router"
	"github.com/recipevault/backend/internal/service"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-jwt-secret"

// TestPassword is the password every fixture user is created with.
const TestPassword = "testpass123"

// SetupTestDB opens a private in-memory sqlite database with the full
// schema migrated. Each test gets its own database keyed by test name.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))
	return db
}

// SetupTestRouter builds the full application router on a test database,
// with images stored under a temp dir and no rate limiting.
func SetupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := SetupTestDB(t)

	authService := service.NewAuthService(db, TestJWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)
	imageStore := service.NewFileImageStore(t.TempDir())

	userHandler := api.NewUserHandler(authService, userService)
	recipeHandler := api.NewRecipeHandler(recipeService, imageStore, nil)
	tagHandler := api.NewTagHandler(tagService)
	ingredientHandler := api.NewIngredientHandler(ingredientService)

	return router.SetupRouter(authService, userHandler, recipeHandler, tagHandler, ingredientHandler), db
}

// CreateUserAndToken registers a user with TestPassword and returns the
// record together with a valid bearer token.
func CreateUserAndToken(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()

	authService := service.NewAuthService(db, TestJWTSecret)
	user, err := authService.Register(email, TestPassword, "Test User")
	require.NoError(t, err)

	token, err := authService.Authenticate(email, TestPassword)
	require.NoError(t, err)

	return user, token
}
