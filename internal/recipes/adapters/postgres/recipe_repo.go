package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
)

const recipeColumns = "id, nombre, instrucciones, autor, ingredientes, created_at, updated_at"

// ingredientDoc - элемент массива ingredientes в JSONB.
type ingredientDoc struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Cantidad *string `json:"cantidad,omitempty"`
	Unidad   *string `json:"unidad,omitempty"`
	Slug     string  `json:"slug"`
}

func encodeIngredients(ingredients []entities.Ingredient) ([]byte, error) {
	docs := make([]ingredientDoc, 0, len(ingredients))
	for _, ing := range ingredients {
		docs = append(docs, ingredientDoc{
			ID:       ing.ID,
			Nombre:   ing.Nombre,
			Cantidad: ing.Cantidad,
			Unidad:   ing.Unidad,
			Slug:     ing.Slug,
		})
	}
	return json.Marshal(docs)
}

func decodeIngredients(raw []byte) ([]entities.Ingredient, error) {
	var docs []ingredientDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, err
		}
	}
	out := make([]entities.Ingredient, 0, len(docs))
	for _, d := range docs {
		out = append(out, entities.Ingredient{
			ID:       d.ID,
			Nombre:   d.Nombre,
			Cantidad: d.Cantidad,
			Unidad:   d.Unidad,
			Slug:     d.Slug,
		})
	}
	return out, nil
}

// RecipeRepository реализует интерфейс repositories.RecipeRepository для работы с Postgres.
type RecipeRepository struct {
	pool PgxPoolInterface
}

// NewRecipeRepository создает новый экземпляр репозитория рецептов.
func NewRecipeRepository(pool PgxPoolInterface) repositories.RecipeRepository {
	return &RecipeRepository{pool: pool}
}

func scanRecipe(row pgx.Row) (*entities.Recipe, error) {
	var (
		recipe entities.Recipe
		raw    []byte
	)
	err := row.Scan(
		&recipe.ID,
		&recipe.Nombre,
		&recipe.Instrucciones,
		&recipe.Autor,
		&raw,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Ingredientes, err = decodeIngredients(raw)
	if err != nil {
		return nil, fmt.Errorf("error decoding ingredients: %w", err)
	}
	return &recipe, nil
}

// queryOne выполняет запрос, возвращающий один рецепт.
func (r *RecipeRepository) queryOne(ctx context.Context, method, query string, args ...interface{}) (*entities.Recipe, error) {
	log := logger.Log(ctx).With(zap.String("repository", "recipe"), zap.String("method", method))

	recipe, err := scanRecipe(conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "recipe not found")
			return nil, entities.ErrRecipeNotFound
		}
		log.Error(ctx, "error executing recipe query", zap.Error(err))
		return nil, fmt.Errorf("error in recipe %s: %w", method, err)
	}
	return recipe, nil
}

// Create создает новый рецепт.
func (r *RecipeRepository) Create(ctx context.Context, recipe *entities.Recipe) (*entities.Recipe, error) {
	raw, err := encodeIngredients(recipe.Ingredientes)
	if err != nil {
		return nil, fmt.Errorf("error encoding ingredients: %w", err)
	}

	query := `
        INSERT INTO recetas (id, nombre, instrucciones, autor, ingredientes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + recipeColumns

	return r.queryOne(ctx, "Create", query,
		recipe.ID,
		recipe.Nombre,
		recipe.Instrucciones,
		recipe.Autor,
		raw,
	)
}

// FindByID находит рецепт по ID.
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*entities.Recipe, error) {
	return r.queryOne(ctx, "FindByID", `SELECT `+recipeColumns+` FROM recetas WHERE id = $1`, id)
}

// slugContainment возвращает JSONB-шаблон для оператора @>.
func slugContainment(slug string) ([]byte, error) {
	return json.Marshal([]map[string]string{{"slug": slug}})
}

// List возвращает рецепты по фильтру в порядке создания.
func (r *RecipeRepository) List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error) {
	log := logger.Log(ctx).With(zap.String("repository", "recipe"), zap.String("method", "List"))

	var (
		conditions []string
		args       []interface{}
	)
	if filter.Ingrediente != "" {
		pattern, err := slugContainment(filter.Ingrediente)
		if err != nil {
			return nil, fmt.Errorf("error encoding filter: %w", err)
		}
		args = append(args, pattern)
		conditions = append(conditions, "ingredientes @> $"+strconv.Itoa(len(args)))
	}
	if filter.Autor != "" {
		args = append(args, filter.Autor)
		conditions = append(conditions, "autor = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + recipeColumns + ` FROM recetas`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error listing recipes", zap.Error(err))
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*entities.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// Update изменяет название и/или инструкции. nil-поля сохраняют текущее значение.
func (r *RecipeRepository) Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error) {
	query := `
        UPDATE recetas
        SET nombre = COALESCE($2, nombre),
            instrucciones = COALESCE($3, instrucciones),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + recipeColumns

	return r.queryOne(ctx, "Update", query, id, update.Nombre, update.Instrucciones)
}

// Delete удаляет рецепт.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", "recipe"), zap.String("method", "Delete"))

	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM recetas WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting recipe", zap.Error(err))
		return fmt.Errorf("error deleting recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrRecipeNotFound
	}
	return nil
}

// DeleteByAuthor удаляет все рецепты автора.
func (r *RecipeRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "recipe"), zap.String("method", "DeleteByAuthor"))

	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM recetas WHERE autor = $1`, authorID)
	if err != nil {
		log.Error(ctx, "error deleting recipes by author", zap.Error(err))
		return 0, fmt.Errorf("error deleting recipes by author: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AppendIngredients добавляет ингредиенты в конец массива одним UPDATE.
func (r *RecipeRepository) AppendIngredients(ctx context.Context, id string, ingredients []entities.Ingredient) (*entities.Recipe, error) {
	raw, err := encodeIngredients(ingredients)
	if err != nil {
		return nil, fmt.Errorf("error encoding ingredients: %w", err)
	}

	query := `
        UPDATE recetas
        SET ingredientes = ingredientes || $2::jsonb, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + recipeColumns

	return r.queryOne(ctx, "AppendIngredients", query, id, raw)
}

// RemoveIngredient удаляет ингредиент из массива, сохраняя порядок остальных.
// Условие на последний ингредиент проверяется в том же UPDATE под блокировкой строки.
func (r *RecipeRepository) RemoveIngredient(ctx context.Context, id, ingredientID string, allowEmpty bool) (*entities.Recipe, error) {
	query := `
        UPDATE recetas
        SET ingredientes = COALESCE((
                SELECT jsonb_agg(elem ORDER BY ord)
                FROM jsonb_array_elements(ingredientes) WITH ORDINALITY AS t(elem, ord)
                WHERE elem->>'id' <> $2
            ), '[]'::jsonb),
            updated_at = NOW()
        WHERE id = $1
          AND ($3::boolean
               OR jsonb_array_length(ingredientes) > 1
               OR NOT ingredientes @> jsonb_build_array(jsonb_build_object('id', $2::text)))
        RETURNING ` + recipeColumns

	recipe, err := r.queryOne(ctx, "RemoveIngredient", query, id, ingredientID, allowEmpty)
	if allowEmpty || !errors.Is(err, entities.ErrRecipeNotFound) {
		return recipe, err
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, entities.ErrLastIngredient
}

// Count возвращает количество рецептов.
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM recetas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting recipes: %w", err)
	}
	return n, nil
}

// DeleteAll удаляет все рецепты.
func (r *RecipeRepository) DeleteAll(ctx context.Context) error {
	if _, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM recetas`); err != nil {
		return fmt.Errorf("error deleting recipes: %w", err)
	}
	return nil
}
