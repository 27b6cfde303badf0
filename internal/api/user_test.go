package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipevault/backend/internal/models"
	"github.com/recipevault/backend/internal/testhelpers"
)

func performJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func jsonUnmarshal(w *httptest.ResponseRecorder, out interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), out)
}

func TestCreateUserEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)

	w := performJSON(t, router, "POST", "/user/create/", "", gin.H{
		"email":    "Test2@Example.com",
		"password": "testpass123",
		"name":     "Test Name",
	})
	require.Equal(t, 201, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Test2@example.com", body["email"])
	assert.Equal(t, "Test Name", body["name"])
	assert.NotContains(t, body, "password")

	var user models.User
	require.NoError(t, db.Where("email = ?", "Test2@example.com").First(&user).Error)
	assert.NotEqual(t, "testpass123", user.PasswordHash)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	testhelpers.CreateUserAndToken(t, db, "user@example.com")

	w := performJSON(t, router, "POST", "/user/create/", "", gin.H{
		"email":    "user@example.com",
		"password": "testpass123",
	})
	assert.Equal(t, 400, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	router, _ := testhelpers.SetupTestRouter(t)

	// Password below the minimum length.
	w := performJSON(t, router, "POST", "/user/create/", "", gin.H{
		"email":    "user@example.com",
		"password": "pw",
	})
	assert.Equal(t, 400, w.Code)

	// Malformed email.
	w = performJSON(t, router, "POST", "/user/create/", "", gin.H{
		"email":    "not-an-email",
		"password": "testpass123",
	})
	assert.Equal(t, 400, w.Code)

	// Missing email.
	w = performJSON(t, router, "POST", "/user/create/", "", gin.H{
		"password": "testpass123",
	})
	assert.Equal(t, 400, w.Code)
}

func TestTokenEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	testhelpers.CreateUserAndToken(t, db, "user@example.com")

	w := performJSON(t, router, "POST", "/user/token/", "", gin.H{
		"email":    "user@example.com",
		"password": testhelpers.TestPassword,
	})
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
}

func TestTokenEndpointBadCredentials(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	testhelpers.CreateUserAndToken(t, db, "user@example.com")

	w := performJSON(t, router, "POST", "/user/token/", "", gin.H{
		"email":    "user@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, 400, w.Code)

	body := decodeBody(t, w)
	assert.NotContains(t, body, "token")

	// Blank password fails validation before hitting the store.
	w = performJSON(t, router, "POST", "/user/token/", "", gin.H{
		"email":    "user@example.com",
		"password": "",
	})
	assert.Equal(t, 400, w.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	router, _ := testhelpers.SetupTestRouter(t)

	w := performJSON(t, router, "GET", "/user/me/", "", nil)
	assert.Equal(t, 401, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	w := performJSON(t, router, "GET", "/user/me/", token, nil)
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, user.Email, body["email"])
	assert.Equal(t, user.Name, body["name"])
	assert.NotContains(t, body, "password")
}

func TestUpdateMeEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	oldHash := user.PasswordHash

	w := performJSON(t, router, "PATCH", "/user/me/", token, gin.H{
		"name":     "Updated Name",
		"password": "newpassword123",
	})
	require.Equal(t, 200, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Updated Name", stored.Name)
	assert.NotEqual(t, oldHash, stored.PasswordHash)
	// Email is immutable through this endpoint.
	assert.Equal(t, user.Email, stored.Email)
}

func TestUpdateMeNameOnly(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	oldHash := user.PasswordHash

	w := performJSON(t, router, "PATCH", "/user/me/", token, gin.H{
		"name": "Just A Name",
	})
	require.Equal(t, 200, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Just A Name", stored.Name)
	assert.Equal(t, oldHash, stored.PasswordHash)
}
