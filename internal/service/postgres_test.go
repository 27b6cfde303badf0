package service_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipevault/backend/internal/models"
	"github.com/recipevault/backend/internal/service"
	"github.com/recipevault/backend/internal/testhelpers"
)

// Runs reconciliation against a real postgres so the composite unique
// index and its duplicate-key error path are covered on the production
// driver, not just sqlite.
func TestReconciliationOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	user, _ := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	svc := service.NewRecipeService(db)

	for _, title := range []string{"Dal", "Korma"} {
		input := sampleRecipe(title)
		input.Tags = []service.LabelInput{{Name: "Indian"}}
		_, err := svc.Create(user.ID, input)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).
		Where("user_id = ? AND name = ?", user.ID, "Indian").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// A direct duplicate insert must be rejected by the index itself.
	err := db.Create(&models.Tag{Name: "Indian", UserID: user.ID}).Error
	assert.Error(t, err)
}

// Concurrent recipe writes naming the same new tag race on the insert.
// Losing the race must not abort the loser's transaction: every write
// succeeds and the tag exists once.
func TestConcurrentTagReconciliationOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	user, _ := testhelpers.CreateUserAndToken(t, db, "user@example.com")
	svc := service.NewRecipeService(db)

	const writers = 8
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := sampleRecipe(fmt.Sprintf("Dish %d", i))
			input.Tags = []service.LabelInput{{Name: "Contested"}}
			_, errs[i] = svc.Create(user.ID, input)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).
		Where("user_id = ? AND name = ?", user.ID, "Contested").
		Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)

	recipes, err := svc.List(user.ID, service.RecipeFilters{})
	require.NoError(t, err)
	assert.Len(t, recipes, writers)
}

func TestUniqueEmailOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)

	_, err := svc.Register("user@example.com", "testpass123", "")
	require.NoError(t, err)

	_, err = svc.Register("user@EXAMPLE.COM", "otherpass", "")
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}
