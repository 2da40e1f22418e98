package api

import (
	"context"

	"recetario/internal/recipes/domain/entities"
)

// CreateRecipeRequest содержит данные нового рецепта.
type CreateRecipeRequest struct {
	Nombre        string
	Instrucciones string
	Autor         string
	Ingredientes  []entities.RawIngredient
}

// RecipeService определяет операции над рецептами.
type RecipeService interface {
	Create(ctx context.Context, req CreateRecipeRequest) (*entities.Recipe, error)

	List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error)

	Get(ctx context.Context, id string) (*entities.Recipe, error)

	Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error)

	Delete(ctx context.Context, id string) error

	AddIngredients(ctx context.Context, id string, raws []entities.RawIngredient) (*entities.Recipe, error)

	ListIngredients(ctx context.Context, id string) ([]entities.Ingredient, error)

	RemoveIngredient(ctx context.Context, id, ingredientID string) (*entities.Recipe, error)

	SearchByIngredient(ctx context.Context, query string) ([]*entities.Recipe, error)
}
