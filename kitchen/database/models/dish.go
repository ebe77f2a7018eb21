package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Dish struct {
	bun.BaseModel `bun:"table:dishes,alias:dish"`

	ID          int64           `bun:"id,pk,autoincrement"`
	Name        string          `bun:"name,notnull"`
	Description string          `bun:"description,notnull,default:''"`
	Price       decimal.Decimal `bun:"price,type:numeric(8,2),notnull"`
	DishTypeID  int64           `bun:"dish_type_id,notnull"`

	// Relations
	DishType    *DishType     `bun:"rel:belongs-to,join:dish_type_id=id"`
	Cooks       []*Cook       `bun:"m2m:dish_cooks,join:Dish=Cook"`
	Ingredients []*Ingredient `bun:"m2m:dish_ingredients,join:Dish=Ingredient"`
}

// CookIDs returns the ids of the loaded Cooks relation.
func (d *Dish) CookIDs() []int64 {
	ids := make([]int64, 0, len(d.Cooks))
	for _, c := range d.Cooks {
		ids = append(ids, c.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the loaded Ingredients relation.
func (d *Dish) IngredientIDs() []int64 {
	ids := make([]int64, 0, len(d.Ingredients))
	for _, i := range d.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}

// DishCook links a dish to a cook who prepares it.
type DishCook struct {
	bun.BaseModel `bun:"table:dish_cooks,alias:dc"`

	DishID int64 `bun:"dish_id,pk"`
	Dish   *Dish `bun:"rel:belongs-to,join:dish_id=id"`
	CookID int64 `bun:"cook_id,pk"`
	Cook   *Cook `bun:"rel:belongs-to,join:cook_id=id"`
}

// DishIngredient links a dish to one of its ingredients.
type DishIngredient struct {
	bun.BaseModel `bun:"table:dish_ingredients,alias:di"`

	DishID       int64       `bun:"dish_id,pk"`
	Dish         *Dish       `bun:"rel:belongs-to,join:dish_id=id"`
	IngredientID int64       `bun:"ingredient_id,pk"`
	Ingredient   *Ingredient `bun:"rel:belongs-to,join:ingredient_id=id"`
}

// JoinModels must be registered on the bun.DB before m2m relations are queried.
func JoinModels() []interface{} {
	return []interface{}{
		(*DishCook)(nil),
		(*DishIngredient)(nil),
	}
}
