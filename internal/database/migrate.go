package database

import (
	"gorm.io/gorm"

	"github.com/recipevault/backend/internal/models"
)

// RunMigrations brings the schema up to date. The unique composite
// indexes on tags and ingredients are declared on the models and created
// here; they back the find-or-create used during recipe writes.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
}
