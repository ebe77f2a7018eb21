package models

import "github.com/uptrace/bun"

type Ingredient struct {
	bun.BaseModel `bun:"table:ingredients,alias:ingredient"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`

	// Relations
	Dishes []*Dish `bun:"m2m:dish_ingredients,join:Ingredient=Dish"`
}
