package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recipevault/backend/internal/middleware"
	"github.com/recipevault/backend/internal/models"
)

var validate = validator.New()

// AuthService owns account creation and token issuance.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// NormalizeEmail lowercases the domain portion of an email address. The
// local part is preserved verbatim.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	email = NormalizeEmail(email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

// RegisterSuperuser creates an account with the staff and superuser
// flags set.
func (s *AuthService) RegisterSuperuser(email, password string) (*models.User, error) {
	user, err := s.Register(email, password, "")
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"is_staff":     true,
		"is_superuser": true,
	}).Error; err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	return user, nil
}

// Authenticate verifies credentials and returns a signed token. Bad
// email, bad password, and inactive accounts are indistinguishable to
// the caller.
func (s *AuthService) Authenticate(email, password string) (string, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", NormalizeEmail(email), true).First(&user).Error
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(user.ID)
}

func (s *AuthService) generateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses a bearer token and confirms the account behind
// it still exists and is active.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	idVal, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID := uint(idVal)

	var user models.User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return nil, errors.New("user not found or inactive")
	}

	return &middleware.TokenClaims{UserID: userID}, nil
}
