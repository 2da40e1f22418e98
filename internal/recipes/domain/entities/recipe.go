package entities

import "time"

// Recipe - рецепт с упорядоченным списком ингредиентов.
type Recipe struct {
	ID            string
	Nombre        string
	Instrucciones string
	Autor         string
	Ingredientes  []Ingredient
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IngredientIndex возвращает позицию ингредиента с указанным идентификатором или -1.
func (r *Recipe) IngredientIndex(id string) int {
	for i := range r.Ingredientes {
		if r.Ingredientes[i].ID == id {
			return i
		}
	}
	return -1
}

// RecipeFilter задает условия выборки. Пустые поля не участвуют в фильтрации.
type RecipeFilter struct {
	// Ingrediente - slug ингредиента.
	Ingrediente string
	Autor       string
}

// RecipeUpdate содержит изменяемые поля рецепта.
type RecipeUpdate struct {
	Nombre        *string
	Instrucciones *string
}

// IsEmpty сообщает, что ни одно поле не передано.
func (u RecipeUpdate) IsEmpty() bool {
	return u.Nombre == nil && u.Instrucciones == nil
}

// CascadeResult - итог удаления пользователя вместе с его рецептами.
type CascadeResult struct {
	Deleted        bool
	RecipesRemoved int64
}
