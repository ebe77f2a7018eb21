package models

import "github.com/uptrace/bun"

type DishType struct {
	bun.BaseModel `bun:"table:dish_types,alias:dish_type"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`

	// Relations
	Dishes []*Dish `bun:"rel:has-many,join:id=dish_type_id"`
}
