package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipevault/backend/internal/middleware"
	"github.com/recipevault/backend/internal/service"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
	Name     string `json:"name"`
}

type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public shape of an account. The password never
// appears in any response.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UserHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.Engine) {
	user := router.Group("/user")
	{
		user.POST("/create/", h.Create)
		user.POST("/token/", h.Token)

		me := user.Group("/me")
		me.Use(middleware.AuthMiddleware(h.authService))
		{
			me.GET("/", h.Me)
			me.PATCH("/", h.UpdateMe)
		}
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Email: user.Email, Name: user.Name})
}

func (h *UserHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userService.Get(userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Email: user.Email, Name: user.Name})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input service.UserUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(userID, input)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Email: user.Email, Name: user.Name})
}
