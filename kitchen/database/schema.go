package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/kitchen-service/kitchen/kitchen/database/models"
)

const schemaVersion = 1 // bump when tables or indexes change

// appTables lists every application table, children first.
var appTables = []string{
	"dish_ingredients",
	"dish_cooks",
	"dishes",
	"ingredients",
	"dish_types",
	"cooks",
}

type tableSpec struct {
	model       interface{}
	foreignKeys []string
}

// Parents are created before the tables referencing them.
var tableSpecs = []tableSpec{
	{model: (*models.Cook)(nil)},
	{model: (*models.DishType)(nil)},
	{model: (*models.Ingredient)(nil)},
	{
		model: (*models.Dish)(nil),
		foreignKeys: []string{
			`("dish_type_id") REFERENCES "dish_types" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.DishCook)(nil),
		foreignKeys: []string{
			`("dish_id") REFERENCES "dishes" ("id") ON DELETE CASCADE`,
			`("cook_id") REFERENCES "cooks" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.DishIngredient)(nil),
		foreignKeys: []string{
			`("dish_id") REFERENCES "dishes" ("id") ON DELETE CASCADE`,
			`("ingredient_id") REFERENCES "ingredients" ("id") ON DELETE CASCADE`,
		},
	},
}

var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_dishes_dish_type_id ON dishes(dish_type_id);",
	"CREATE INDEX IF NOT EXISTS idx_dish_cooks_cook_id ON dish_cooks(cook_id);",
	"CREATE INDEX IF NOT EXISTS idx_dish_ingredients_ingredient_id ON dish_ingredients(ingredient_id);",
	"CREATE INDEX IF NOT EXISTS idx_cooks_username_lower ON cooks(LOWER(username));",
	"CREATE INDEX IF NOT EXISTS idx_dishes_name_lower ON dishes(LOWER(name));",
}

// InitializeSchema creates all required tables and indexes. It is idempotent.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create meta table: %w", err)
	}
	if v, err := db.getAppMeta(ctx, "schema_version"); err == nil && v == strconv.Itoa(schemaVersion) {
		slog.Info("Schema up-to-date, skipping initialization",
			slog.String("type", "db"),
			slog.Int("schema_version", schemaVersion))
		return nil
	}

	for _, spec := range tableSpecs {
		query := db.bunDB.NewCreateTable().
			Model(spec.model).
			IfNotExists()
		for _, fk := range spec.foreignKeys {
			query = query.ForeignKey(fk)
		}

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	slog.Info("Schema initialized",
		slog.String("type", "db"),
		slog.Int("schema_version", schemaVersion))
	return nil
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS kitchen_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	row := db.pool.QueryRow(ctx, `SELECT value FROM kitchen_meta WHERE key = $1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.ExecWithLog(ctx, `INSERT INTO kitchen_meta(key, value) VALUES($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
