package memory

import (
	"context"
	"time"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
)

// RecipeRepository реализует repositories.RecipeRepository в памяти.
type RecipeRepository struct {
	store *Store
}

// NewRecipeRepository создает новый экземпляр репозитория рецептов.
func NewRecipeRepository(store *Store) repositories.RecipeRepository {
	return &RecipeRepository{store: store}
}

// Create сохраняет рецепт.
func (r *RecipeRepository) Create(ctx context.Context, recipe *entities.Recipe) (*entities.Recipe, error) {
	defer r.store.lock(ctx)()

	stored := cloneRecipe(recipe)
	if stored.ID == "" {
		stored.ID = entities.NewID()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = stored.CreatedAt

	r.store.recipes[stored.ID] = stored
	r.store.recipeOrder = append(r.store.recipeOrder, stored.ID)

	return cloneRecipe(stored), nil
}

// FindByID находит рецепт по ID.
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*entities.Recipe, error) {
	defer r.store.lock(ctx)()

	rec, ok := r.store.recipes[id]
	if !ok {
		return nil, entities.ErrRecipeNotFound
	}
	return cloneRecipe(rec), nil
}

func matches(rec *entities.Recipe, filter entities.RecipeFilter) bool {
	if filter.Autor != "" && rec.Autor != filter.Autor {
		return false
	}
	if filter.Ingrediente == "" {
		return true
	}
	for _, ing := range rec.Ingredientes {
		if ing.Slug == filter.Ingrediente {
			return true
		}
	}
	return false
}

// List возвращает рецепты, удовлетворяющие фильтру, в порядке создания.
func (r *RecipeRepository) List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error) {
	defer r.store.lock(ctx)()

	recipes := make([]*entities.Recipe, 0)
	for _, id := range r.store.recipeOrder {
		if rec := r.store.recipes[id]; matches(rec, filter) {
			recipes = append(recipes, cloneRecipe(rec))
		}
	}
	return recipes, nil
}

// Update изменяет название и инструкции рецепта.
func (r *RecipeRepository) Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error) {
	defer r.store.lock(ctx)()

	rec, ok := r.store.recipes[id]
	if !ok {
		return nil, entities.ErrRecipeNotFound
	}
	if update.Nombre != nil {
		rec.Nombre = *update.Nombre
	}
	if update.Instrucciones != nil {
		rec.Instrucciones = *update.Instrucciones
	}
	rec.UpdatedAt = time.Now().UTC()

	return cloneRecipe(rec), nil
}

// Delete удаляет рецепт.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.recipes[id]; !ok {
		return entities.ErrRecipeNotFound
	}
	delete(r.store.recipes, id)
	r.store.recipeOrder = removeID(r.store.recipeOrder, id)
	return nil
}

// DeleteByAuthor удаляет все рецепты автора.
func (r *RecipeRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	defer r.store.lock(ctx)()

	var removed int64
	kept := r.store.recipeOrder[:0]
	for _, id := range r.store.recipeOrder {
		if r.store.recipes[id].Autor == authorID {
			delete(r.store.recipes, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.store.recipeOrder = kept

	return removed, nil
}

// AppendIngredients добавляет ингредиенты в конец списка.
func (r *RecipeRepository) AppendIngredients(ctx context.Context, id string, ingredients []entities.Ingredient) (*entities.Recipe, error) {
	defer r.store.lock(ctx)()

	rec, ok := r.store.recipes[id]
	if !ok {
		return nil, entities.ErrRecipeNotFound
	}
	for _, ing := range ingredients {
		rec.Ingredientes = append(rec.Ingredientes, cloneIngredient(ing))
	}
	rec.UpdatedAt = time.Now().UTC()

	return cloneRecipe(rec), nil
}

// RemoveIngredient удаляет ингредиент из рецепта.
func (r *RecipeRepository) RemoveIngredient(ctx context.Context, id, ingredientID string, allowEmpty bool) (*entities.Recipe, error) {
	defer r.store.lock(ctx)()

	rec, ok := r.store.recipes[id]
	if !ok {
		return nil, entities.ErrRecipeNotFound
	}
	if idx := rec.IngredientIndex(ingredientID); idx >= 0 {
		if len(rec.Ingredientes) == 1 && !allowEmpty {
			return nil, entities.ErrLastIngredient
		}
		rec.Ingredientes = append(rec.Ingredientes[:idx], rec.Ingredientes[idx+1:]...)
		rec.UpdatedAt = time.Now().UTC()
	}

	return cloneRecipe(rec), nil
}

// Count возвращает количество рецептов.
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	defer r.store.lock(ctx)()
	return int64(len(r.store.recipes)), nil
}

// DeleteAll удаляет все рецепты.
func (r *RecipeRepository) DeleteAll(ctx context.Context) error {
	defer r.store.lock(ctx)()

	r.store.recipes = make(map[string]*entities.Recipe)
	r.store.recipeOrder = nil
	return nil
}
