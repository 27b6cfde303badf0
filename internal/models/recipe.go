package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tag categorizes recipes. Names are unique per owner; the composite
// index backs the find-or-create used during recipe writes.
type Tag struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_tags_user_name" json:"name"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"-"`
}

// Ingredient has the same shape and ownership rules as Tag.
type Ingredient struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_ingredients_user_name" json:"name"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_ingredients_user_name" json:"-"`
}

// Label is the shared shape of Tag and Ingredient rows. Code that works
// on either table queries through this struct with an explicit table name.
type Label struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	UserID uint   `json:"-"`
}

// Recipe is owned by exactly one user. Tag and ingredient membership is
// a set: link rows are unique per pair and mutable after creation.
type Recipe struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
	UserID      uint            `gorm:"not null;index" json:"-"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	TimeMinutes int             `gorm:"not null" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2)" json:"price"`
	Link        string          `gorm:"size:255" json:"link"`
	Image       string          `gorm:"size:255" json:"image"`
	Tags        []Tag           `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients" json:"ingredients"`
}
