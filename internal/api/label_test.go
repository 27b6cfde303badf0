package api_test

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipevault/backend/internal/models"
	"github.com/recipevault/backend/internal/testhelpers"
)

func TestLabelEndpointsRequireAuth(t *testing.T) {
	router, _ := testhelpers.SetupTestRouter(t)

	w := performJSON(t, router, "GET", "/recipe/tags/", "", nil)
	assert.Equal(t, 401, w.Code)

	w = performJSON(t, router, "GET", "/recipe/ingredients/", "", nil)
	assert.Equal(t, 401, w.Code)
}

func TestListTagsEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	other, _ := testhelpers.CreateUserAndToken(t, db, "other@example.com")

	for _, name := range []string{"Vegan", "Dessert"} {
		require.NoError(t, db.Create(&models.Tag{Name: name, UserID: user.ID}).Error)
	}
	require.NoError(t, db.Create(&models.Tag{Name: "Foreign", UserID: other.ID}).Error)

	w := performJSON(t, router, "GET", "/recipe/tags/", token, nil)
	require.Equal(t, 200, w.Code)

	var list []map[string]interface{}
	require.NoError(t, jsonUnmarshal(w, &list))
	require.Len(t, list, 2)

	// Reverse name order.
	assert.Equal(t, "Vegan", list[0]["name"])
	assert.Equal(t, "Dessert", list[1]["name"])
}

func TestListIngredientsEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	for _, name := range []string{"Kale", "Salt"} {
		require.NoError(t, db.Create(&models.Ingredient{Name: name, UserID: user.ID}).Error)
	}

	w := performJSON(t, router, "GET", "/recipe/ingredients/", token, nil)
	require.Equal(t, 200, w.Code)

	var list []map[string]interface{}
	require.NoError(t, jsonUnmarshal(w, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Salt", list[0]["name"])
	assert.Equal(t, "Kale", list[1]["name"])
}

func TestListTagsAssignedOnlyEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	require.NoError(t, db.Create(&models.Tag{Name: "Orphan", UserID: user.ID}).Error)
	createRecipe(t, db, user.ID, "Pancakes", "Breakfast")

	w := performJSON(t, router, "GET", "/recipe/tags/?assigned_only=1", token, nil)
	require.Equal(t, 200, w.Code)

	var list []map[string]interface{}
	require.NoError(t, jsonUnmarshal(w, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Breakfast", list[0]["name"])

	// Anything non-numeric means the unfiltered default.
	w = performJSON(t, router, "GET", "/recipe/tags/?assigned_only=bogus", token, nil)
	require.Equal(t, 200, w.Code)

	require.NoError(t, jsonUnmarshal(w, &list))
	assert.Len(t, list, 2)
}

func TestGetTagEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	other, _ := testhelpers.CreateUserAndToken(t, db, "other@example.com")

	tag := models.Tag{Name: "Comfort food", UserID: user.ID}
	require.NoError(t, db.Create(&tag).Error)
	foreign := models.Tag{Name: "Private", UserID: other.ID}
	require.NoError(t, db.Create(&foreign).Error)

	w := performJSON(t, router, "GET", fmt.Sprintf("/recipe/tags/%d/", tag.ID), token, nil)
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Comfort food", body["name"])

	w = performJSON(t, router, "GET", fmt.Sprintf("/recipe/tags/%d/", foreign.ID), token, nil)
	assert.Equal(t, 404, w.Code)
}

func TestUpdateTagEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	tag := models.Tag{Name: "After dinner", UserID: user.ID}
	require.NoError(t, db.Create(&tag).Error)

	w := performJSON(t, router, "PATCH", fmt.Sprintf("/recipe/tags/%d/", tag.ID), token, gin.H{
		"name": "Dessert",
	})
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Dessert", body["name"])

	var stored models.Tag
	require.NoError(t, db.First(&stored, tag.ID).Error)
	assert.Equal(t, "Dessert", stored.Name)
}

func TestUpdateTagValidation(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	tag := models.Tag{Name: "Keep", UserID: user.ID}
	require.NoError(t, db.Create(&tag).Error)

	w := performJSON(t, router, "PATCH", fmt.Sprintf("/recipe/tags/%d/", tag.ID), token, gin.H{})
	assert.Equal(t, 400, w.Code)
}

func TestUpdateForeignTagEndpointNotFound(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	_, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	other, _ := testhelpers.CreateUserAndToken(t, db, "other@example.com")

	tag := models.Tag{Name: "Private", UserID: other.ID}
	require.NoError(t, db.Create(&tag).Error)

	w := performJSON(t, router, "PATCH", fmt.Sprintf("/recipe/tags/%d/", tag.ID), token, gin.H{
		"name": "Stolen",
	})
	assert.Equal(t, 404, w.Code)

	var stored models.Tag
	require.NoError(t, db.First(&stored, tag.ID).Error)
	assert.Equal(t, "Private", stored.Name)
}

func TestDeleteIngredientEndpoint(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	user, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	ingredient := models.Ingredient{Name: "Cilantro", UserID: user.ID}
	require.NoError(t, db.Create(&ingredient).Error)

	w := performJSON(t, router, "DELETE", fmt.Sprintf("/recipe/ingredients/%d/", ingredient.ID), token, nil)
	assert.Equal(t, 204, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Where("id = ?", ingredient.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteForeignIngredientEndpointNotFound(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	_, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	other, _ := testhelpers.CreateUserAndToken(t, db, "other@example.com")

	ingredient := models.Ingredient{Name: "Saffron", UserID: other.ID}
	require.NoError(t, db.Create(&ingredient).Error)

	w := performJSON(t, router, "DELETE", fmt.Sprintf("/recipe/ingredients/%d/", ingredient.ID), token, nil)
	assert.Equal(t, 404, w.Code)
}

func TestLabelIDMustBeNumeric(t *testing.T) {
	router, db := testhelpers.SetupTestRouter(t)
	_, token := testhelpers.CreateUserAndToken(t, db, "user@example.com")

	w := performJSON(t, router, "DELETE", "/recipe/tags/abc/", token, nil)
	assert.Equal(t, 404, w.Code)
}
