package cache

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/cache"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
	"recetario/pkg/resilience"
)

const recipeKeyPrefix = "receta:"

// RecipeKey возвращает ключ кэша для рецепта.
func RecipeKey(id string) string {
	return recipeKeyPrefix + id
}

type cachedIngredient struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Cantidad *string `json:"cantidad,omitempty"`
	Unidad   *string `json:"unidad,omitempty"`
	Slug     string  `json:"slug"`
}

type cachedRecipe struct {
	ID            string             `json:"id"`
	Nombre        string             `json:"nombre"`
	Instrucciones string             `json:"instrucciones"`
	Autor         string             `json:"autor"`
	Ingredientes  []cachedIngredient `json:"ingredientes"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func encodeRecipe(r *entities.Recipe) (string, error) {
	doc := cachedRecipe{
		ID:            r.ID,
		Nombre:        r.Nombre,
		Instrucciones: r.Instrucciones,
		Autor:         r.Autor,
		Ingredientes:  make([]cachedIngredient, 0, len(r.Ingredientes)),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	for _, ing := range r.Ingredientes {
		doc.Ingredientes = append(doc.Ingredientes, cachedIngredient(ing))
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeRecipe(raw string) (*entities.Recipe, error) {
	var doc cachedRecipe
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	r := &entities.Recipe{
		ID:            doc.ID,
		Nombre:        doc.Nombre,
		Instrucciones: doc.Instrucciones,
		Autor:         doc.Autor,
		Ingredientes:  make([]entities.Ingredient, 0, len(doc.Ingredientes)),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	for _, ing := range doc.Ingredientes {
		r.Ingredientes = append(r.Ingredientes, entities.Ingredient(ing))
	}
	return r, nil
}

// RecipeRepository кэширует чтение рецепта по ID и сбрасывает кэш при изменениях.
// Ошибки Redis не прерывают операцию: чтение уходит в хранилище,
// а после серии сбоев автомат размыкается и кэш временно не используется.
type RecipeRepository struct {
	next    repositories.RecipeRepository
	cache   cache.Cache
	breaker *resilience.Breaker
	ttl     time.Duration
}

// NewRecipeRepository оборачивает репозиторий рецептов кэшем.
func NewRecipeRepository(
	next repositories.RecipeRepository,
	c cache.Cache,
	breaker *resilience.Breaker,
	ttl time.Duration,
) repositories.RecipeRepository {
	return &RecipeRepository{
		next:    next,
		cache:   c,
		breaker: breaker,
		ttl:     ttl,
	}
}

func (r *RecipeRepository) lookup(ctx context.Context, id string) *entities.Recipe {
	var raw string
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		raw, err = r.cache.Get(ctx, RecipeKey(id))
		return err
	})
	if err != nil || raw == "" {
		return nil
	}

	recipe, err := decodeRecipe(raw)
	if err != nil {
		logger.Log(ctx).Warn(ctx, "discarding malformed cache entry", zap.String("key", RecipeKey(id)), zap.Error(err))
		return nil
	}
	return recipe
}

func (r *RecipeRepository) store(ctx context.Context, recipe *entities.Recipe) {
	raw, err := encodeRecipe(recipe)
	if err != nil {
		return
	}
	_ = r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Set(ctx, RecipeKey(recipe.ID), raw, r.ttl)
	})
}

// invalidate удаляет записи сразу и еще раз после фиксации транзакции: чтение,
// выполненное до фиксации, может вернуть в кэш старую версию.
func (r *RecipeRepository) invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, RecipeKey(id))
	}
	r.deleteKeys(ctx, keys)
	repositories.OnCommit(ctx, func(ctx context.Context) {
		r.deleteKeys(ctx, keys)
	})
}

func (r *RecipeRepository) deleteKeys(ctx context.Context, keys []string) {
	if err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Delete(ctx, keys...)
	}); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to invalidate recipe cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Create сохраняет рецепт.
func (r *RecipeRepository) Create(ctx context.Context, recipe *entities.Recipe) (*entities.Recipe, error) {
	return r.next.Create(ctx, recipe)
}

// FindByID возвращает рецепт из кэша или из хранилища.
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*entities.Recipe, error) {
	if recipe := r.lookup(ctx, id); recipe != nil {
		return recipe, nil
	}

	recipe, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, recipe)
	return recipe, nil
}

// List всегда читает из хранилища.
func (r *RecipeRepository) List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error) {
	return r.next.List(ctx, filter)
}

// Update изменяет рецепт и сбрасывает его запись в кэше.
func (r *RecipeRepository) Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error) {
	defer r.invalidate(ctx, id)
	return r.next.Update(ctx, id, update)
}

// Delete удаляет рецепт и его запись в кэше.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	defer r.invalidate(ctx, id)
	return r.next.Delete(ctx, id)
}

// DeleteByAuthor удаляет рецепты автора и их записи в кэше.
func (r *RecipeRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	recipes, err := r.next.List(ctx, entities.RecipeFilter{Autor: authorID})
	if err != nil {
		return 0, err
	}

	n, err := r.next.DeleteByAuthor(ctx, authorID)

	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}
	r.invalidate(ctx, ids...)

	return n, err
}

// AppendIngredients добавляет ингредиенты и сбрасывает запись рецепта.
func (r *RecipeRepository) AppendIngredients(ctx context.Context, id string, ingredients []entities.Ingredient) (*entities.Recipe, error) {
	defer r.invalidate(ctx, id)
	return r.next.AppendIngredients(ctx, id, ingredients)
}

// RemoveIngredient удаляет ингредиент и сбрасывает запись рецепта.
func (r *RecipeRepository) RemoveIngredient(ctx context.Context, id, ingredientID string, allowEmpty bool) (*entities.Recipe, error) {
	defer r.invalidate(ctx, id)
	return r.next.RemoveIngredient(ctx, id, ingredientID, allowEmpty)
}

// Count возвращает количество рецептов.
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

// DeleteAll удаляет все рецепты и их записи в кэше.
func (r *RecipeRepository) DeleteAll(ctx context.Context) error {
	recipes, err := r.next.List(ctx, entities.RecipeFilter{})
	if err != nil {
		return err
	}
	if err := r.next.DeleteAll(ctx); err != nil {
		return err
	}

	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}
	r.invalidate(ctx, ids...)
	return nil
}
