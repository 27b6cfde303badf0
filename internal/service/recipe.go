package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/recipevault/backend/internal/models"
)

// RecipeService handles recipe CRUD and the reconciliation of nested
// tag/ingredient payloads. Every operation is scoped to the owning user;
// a recipe belonging to someone else is reported as not found.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeCreate is the payload for creating a recipe. TimeMinutes and
// Price are pointers so that required means "key present": a literal
// zero is a valid value for both.
type RecipeCreate struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	TimeMinutes *int             `json:"time_minutes" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Link        string           `json:"link"`
	Tags        []LabelInput     `json:"tags"`
	Ingredients []LabelInput     `json:"ingredients"`
}

// RecipeUpdate is the payload for partial updates. Nil fields are left
// untouched. For Tags and Ingredients the distinction between a missing
// key and an empty list is contractual: nil preserves the current links,
// an empty list clears them.
type RecipeUpdate struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link"`
	Tags        *[]LabelInput    `json:"tags"`
	Ingredients *[]LabelInput    `json:"ingredients"`
}

// RecipeFilters narrows List results to recipes linked to any of the
// given label ids.
type RecipeFilters struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// List returns the user's recipes, most recently created first. Filters
// are applied through join-table subqueries, so a recipe matching several
// ids still appears once.
func (s *RecipeService) List(userID uint, filters RecipeFilters) ([]models.Recipe, error) {
	query := s.db.Where("user_id = ?", userID)

	if len(filters.TagIDs) > 0 {
		query = query.Where("id IN (?)",
			s.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", filters.TagIDs))
	}
	if len(filters.IngredientIDs) > 0 {
		query = query.Where("id IN (?)",
			s.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", filters.IngredientIDs))
	}

	var recipes []models.Recipe
	err := query.Order("id DESC").
		Preload("Tags").
		Preload("Ingredients").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get returns one of the user's recipes with its labels loaded.
func (s *RecipeService) Get(userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Tags").
		Preload("Ingredients").
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists a recipe and reconciles its nested labels in one
// transaction; a failure anywhere rolls back the whole write.
func (s *RecipeService) Create(userID uint, input RecipeCreate) (*models.Recipe, error) {
	recipe := models.Recipe{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
	}
	if input.TimeMinutes != nil {
		recipe.TimeMinutes = *input.TimeMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if err := s.syncTags(tx, &recipe, input.Tags, false); err != nil {
			return err
		}
		return s.syncIngredients(tx, &recipe, input.Ingredients, false)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(userID, recipe.ID)
}

// Update applies a partial update. Scalar fields absent from the payload
// keep their values; the owner can never change.
func (s *RecipeService) Update(userID, id uint, input RecipeUpdate) (*models.Recipe, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.TimeMinutes != nil {
			updates["time_minutes"] = *input.TimeMinutes
		}
		if input.Price != nil {
			updates["price"] = *input.Price
		}
		if input.Link != nil {
			updates["link"] = *input.Link
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.Tags != nil {
			if err := s.syncTags(tx, &recipe, *input.Tags, true); err != nil {
				return err
			}
		}
		if input.Ingredients != nil {
			if err := s.syncIngredients(tx, &recipe, *input.Ingredients, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(userID, id)
}

// Delete removes a recipe and its label links. The labels themselves
// stay behind as independent records.
func (s *RecipeService) Delete(userID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// SetImage replaces the recipe's image reference.
func (s *RecipeService) SetImage(userID, id uint, image string) (*models.Recipe, error) {
	recipe, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(recipe).Update("image", image).Error; err != nil {
		return nil, err
	}
	recipe.Image = image
	return recipe, nil
}

// syncTags resolves each descriptor to the user's tag, creating missing
// ones, and links the set to the recipe. With replace set the existing
// link set is cleared first; linking is otherwise additive and never
// duplicates a link.
func (s *RecipeService) syncTags(tx *gorm.DB, recipe *models.Recipe, inputs []LabelInput, replace bool) error {
	tags := make([]models.Tag, 0, len(inputs))
	for _, in := range inputs {
		label, err := findOrCreateLabel(tx, "tags", recipe.UserID, in.Name)
		if err != nil {
			return err
		}
		tags = append(tags, models.Tag{ID: label.ID, Name: label.Name, UserID: label.UserID})
	}

	assoc := tx.Model(recipe).Association("Tags")
	if replace {
		if len(tags) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(&tags)
	}
	if len(tags) == 0 {
		return nil
	}
	return assoc.Append(&tags)
}

func (s *RecipeService) syncIngredients(tx *gorm.DB, recipe *models.Recipe, inputs []LabelInput, replace bool) error {
	ingredients := make([]models.Ingredient, 0, len(inputs))
	for _, in := range inputs {
		label, err := findOrCreateLabel(tx, "ingredients", recipe.UserID, in.Name)
		if err != nil {
			return err
		}
		ingredients = append(ingredients, models.Ingredient{ID: label.ID, Name: label.Name, UserID: label.UserID})
	}

	assoc := tx.Model(recipe).Association("Ingredients")
	if replace {
		if len(ingredients) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(&ingredients)
	}
	if len(ingredients) == 0 {
		return nil
	}
	return assoc.Append(&ingredients)
}
