package dto

import (
	"time"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
)

// IngredientInput - ингредиент в запросе.
type IngredientInput struct {
	Nombre   string     `json:"nombre"`
	Cantidad FlexString `json:"cantidad"`
	Unidad   *string    `json:"unidad"`
}

// ToRaw преобразует ингредиент в entities.RawIngredient.
func (i IngredientInput) ToRaw() entities.RawIngredient {
	return entities.RawIngredient{
		Nombre:   i.Nombre,
		Cantidad: i.Cantidad.Value,
		Unidad:   i.Unidad,
	}
}

func toRaws(items []IngredientInput) []entities.RawIngredient {
	raws := make([]entities.RawIngredient, 0, len(items))
	for _, item := range items {
		raws = append(raws, item.ToRaw())
	}
	return raws
}

// CreateRecipeRequest содержит данные для создания рецепта.
type CreateRecipeRequest struct {
	Nombre        string            `json:"nombre"`
	Instrucciones string            `json:"instrucciones"`
	Autor         string            `json:"autor"`
	Ingredientes  []IngredientInput `json:"ingredientes"`
}

// ToAPI преобразует запрос в модель сервиса.
func (r CreateRecipeRequest) ToAPI() api.CreateRecipeRequest {
	return api.CreateRecipeRequest{
		Nombre:        r.Nombre,
		Instrucciones: r.Instrucciones,
		Autor:         r.Autor,
		Ingredientes:  toRaws(r.Ingredientes),
	}
}

// UpdateRecipeRequest содержит изменяемые поля рецепта.
type UpdateRecipeRequest struct {
	Nombre        *string `json:"nombre"`
	Instrucciones *string `json:"instrucciones"`
}

// ToEntity преобразует запрос в entities.RecipeUpdate.
func (r UpdateRecipeRequest) ToEntity() entities.RecipeUpdate {
	return entities.RecipeUpdate{
		Nombre:        r.Nombre,
		Instrucciones: r.Instrucciones,
	}
}

// AddIngredientsRequest - тело запроса на добавление ингредиентов.
type AddIngredientsRequest struct {
	Ingredientes IngredientList `json:"ingredientes"`
}

// ToRaws возвращает ингредиенты в порядке запроса.
func (r AddIngredientsRequest) ToRaws() []entities.RawIngredient {
	return toRaws(r.Ingredientes)
}

// Ingredient представляет ингредиент в ответе.
type Ingredient struct {
	ID       string  `json:"_id"`
	Nombre   string  `json:"nombre"`
	Cantidad *string `json:"cantidad,omitempty"`
	Unidad   *string `json:"unidad,omitempty"`
	Slug     string  `json:"slug"`
}

// NewIngredients формирует список ингредиентов.
func NewIngredients(items []entities.Ingredient) []Ingredient {
	out := make([]Ingredient, 0, len(items))
	for _, ing := range items {
		out = append(out, Ingredient{
			ID:       ing.ID,
			Nombre:   ing.Nombre,
			Cantidad: ing.Cantidad,
			Unidad:   ing.Unidad,
			Slug:     ing.Slug,
		})
	}
	return out
}

// Recipe представляет рецепт в ответе.
type Recipe struct {
	ID            string       `json:"_id"`
	Nombre        string       `json:"nombre"`
	Instrucciones string       `json:"instrucciones"`
	Autor         string       `json:"autor"`
	Ingredientes  []Ingredient `json:"ingredientes"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// NewRecipe формирует ответ из сущности.
func NewRecipe(r *entities.Recipe) Recipe {
	return Recipe{
		ID:            r.ID,
		Nombre:        r.Nombre,
		Instrucciones: r.Instrucciones,
		Autor:         r.Autor,
		Ingredientes:  NewIngredients(r.Ingredientes),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// NewRecipes формирует список рецептов.
func NewRecipes(recipes []*entities.Recipe) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, NewRecipe(r))
	}
	return out
}
