package service

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recipevault/backend/internal/models"
)

// LabelInput is a nested label descriptor as it appears inside recipe
// payloads.
type LabelInput struct {
	Name string `json:"name" binding:"required"`
}

// LabelService manages one label table (tags or ingredients). Labels are
// created only through recipe reconciliation, so the service exposes
// list, rename, and delete.
type LabelService struct {
	db         *gorm.DB
	table      string
	joinTable  string
	joinColumn string
}

func NewTagService(db *gorm.DB) *LabelService {
	return &LabelService{db: db, table: "tags", joinTable: "recipe_tags", joinColumn: "tag_id"}
}

func NewIngredientService(db *gorm.DB) *LabelService {
	return &LabelService{db: db, table: "ingredients", joinTable: "recipe_ingredients", joinColumn: "ingredient_id"}
}

// List returns the user's labels ordered by descending name. With
// assignedOnly set, only labels linked to at least one recipe are
// returned; the subquery keeps each label unique regardless of how many
// recipes reference it.
func (s *LabelService) List(userID uint, assignedOnly bool) ([]models.Label, error) {
	query := s.db.Table(s.table).Where("user_id = ?", userID)
	if assignedOnly {
		query = query.Where("id IN (?)", s.db.Table(s.joinTable).Select(s.joinColumn))
	}

	var labels []models.Label
	if err := query.Order("name DESC").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// Get returns one of the user's labels.
func (s *LabelService) Get(userID, id uint) (*models.Label, error) {
	var label models.Label
	err := s.db.Table(s.table).Where("id = ? AND user_id = ?", id, userID).Take(&label).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &label, nil
}

// Update renames a label owned by the user.
func (s *LabelService) Update(userID, id uint, name string) (*models.Label, error) {
	label, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Table(s.table).Where("id = ?", id).Update("name", name).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLabelExists
		}
		return nil, err
	}
	label.Name = name
	return label, nil
}

// Delete removes a label and its recipe links. Recipes that referenced
// it are otherwise untouched.
func (s *LabelService) Delete(userID, id uint) error {
	if _, err := s.Get(userID, id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+s.joinTable+" WHERE "+s.joinColumn+" = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM "+s.table+" WHERE id = ?", id).Error
	})
}

// findOrCreateLabel resolves a label descriptor to the user's row,
// creating it when absent. The insert carries ON CONFLICT DO NOTHING so
// a concurrent identical write never raises a constraint error, which
// on postgres would abort the enclosing recipe transaction. Zero rows
// affected means the label already exists (or the race was lost) and
// the row is looked up instead; exactly one row exists either way.
func findOrCreateLabel(tx *gorm.DB, table string, userID uint, name string) (*models.Label, error) {
	label := models.Label{UserID: userID, Name: name}
	res := tx.Table(table).Clauses(clause.OnConflict{DoNothing: true}).Create(&label)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &label, nil
	}

	if err := tx.Table(table).Where("user_id = ? AND name = ?", userID, name).Take(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}
