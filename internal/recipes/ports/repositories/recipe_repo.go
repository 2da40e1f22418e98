package repositories

import (
	"context"

	"recetario/internal/recipes/domain/entities"
)

// RecipeRepository определяет операции хранения рецептов.
// Отсутствующий рецепт сообщается через entities.ErrRecipeNotFound.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *entities.Recipe) (*entities.Recipe, error)

	FindByID(ctx context.Context, id string) (*entities.Recipe, error)

	List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error)

	Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error)

	Delete(ctx context.Context, id string) error

	// DeleteByAuthor удаляет все рецепты автора и возвращает их количество.
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)

	// AppendIngredients добавляет ингредиенты в конец списка одной операцией.
	AppendIngredients(ctx context.Context, id string, ingredients []entities.Ingredient) (*entities.Recipe, error)

	// RemoveIngredient удаляет ингредиент по идентификатору. Отсутствующий ингредиент не является ошибкой.
	// Без allowEmpty удаление единственного ингредиента отклоняется с entities.ErrLastIngredient
	// атомарно с записью.
	RemoveIngredient(ctx context.Context, id, ingredientID string, allowEmpty bool) (*entities.Recipe, error)

	Count(ctx context.Context) (int64, error)

	DeleteAll(ctx context.Context) error
}
