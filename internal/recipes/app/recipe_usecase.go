package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
)

const (
	methodCreateRecipe     = "CreateRecipe"
	methodListRecipes      = "ListRecipes"
	methodGetRecipe        = "GetRecipe"
	methodUpdateRecipe     = "UpdateRecipe"
	methodDeleteRecipe     = "DeleteRecipe"
	methodAddIngredients   = "AddIngredients"
	methodRemoveIngredient = "RemoveIngredient"
	methodSearchRecipes    = "SearchByIngredient"

	msgInvalidRecipeInput  = "invalid recipe input"
	msgRecipeCreated       = "recipe created successfully"
	msgRecipeDeleted       = "recipe deleted successfully"
	msgIngredientsAdded    = "ingredients added"
	msgIngredientRemoved   = "ingredient removed"
	msgIngredientNotInList = "ingredient not present, nothing to remove"
	msgLastIngredient      = "refusing to remove last ingredient"

	msgErrCreateRecipe = "failed to create recipe"

	errCtxFindingAuthor    = "finding author"
	errCtxCreatingRecipe   = "creating recipe"
	errCtxFindingRecipe    = "finding recipe"
	errCtxUpdatingRecipe   = "updating recipe"
	errCtxDeletingRecipe   = "deleting recipe"
	errCtxAddingIngredient = "adding ingredients"
	errCtxRemovingIngred   = "removing ingredient"
)

// RecipePolicy содержит настраиваемые правила работы с рецептами.
type RecipePolicy struct {
	// AllowEmptyRecipes разрешает удалить последний ингредиент.
	AllowEmptyRecipes bool
}

// RecipeUseCase реализует api.RecipeService.
type RecipeUseCase struct {
	recipes repositories.RecipeRepository
	users   repositories.UserRepository
	policy  RecipePolicy
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase.
func NewRecipeUseCase(
	recipes repositories.RecipeRepository,
	users repositories.UserRepository,
	policy RecipePolicy,
) *RecipeUseCase {
	return &RecipeUseCase{
		recipes: recipes,
		users:   users,
		policy:  policy,
	}
}

var _ api.RecipeService = (*RecipeUseCase)(nil)

// Create проверяет и сохраняет рецепт. Автор должен существовать.
func (uc *RecipeUseCase) Create(ctx context.Context, req api.CreateRecipeRequest) (*entities.Recipe, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateRecipe))

	nombre := strings.TrimSpace(req.Nombre)
	instrucciones := strings.TrimSpace(req.Instrucciones)
	autor := strings.TrimSpace(req.Autor)

	if nombre == "" || instrucciones == "" || autor == "" {
		log.Debug(ctx, msgInvalidRecipeInput)
		return nil, entities.ErrRecipeFieldsRequired
	}
	if len(req.Ingredientes) == 0 {
		log.Debug(ctx, msgInvalidRecipeInput)
		return nil, entities.ErrIngredientsRequired
	}

	autor, err := entities.ParseID(autor)
	if err != nil {
		log.Debug(ctx, msgInvalidRecipeInput, zap.String("autor", req.Autor))
		return nil, entities.ErrInvalidAuthor
	}

	ingredients, err := newIngredients(req.Ingredientes)
	if err != nil {
		log.Debug(ctx, msgInvalidRecipeInput, zap.Error(err))
		return nil, err
	}

	if _, err := uc.users.FindByID(ctx, autor); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, entities.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingAuthor, err)
	}

	created, err := uc.recipes.Create(ctx, &entities.Recipe{
		ID:            entities.NewID(),
		Nombre:        nombre,
		Instrucciones: instrucciones,
		Autor:         autor,
		Ingredientes:  ingredients,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateRecipe, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingRecipe, err)
	}

	log.Info(ctx, msgRecipeCreated, zap.String("recipeID", created.ID), zap.String("autor", autor))
	return created, nil
}

// newIngredients нормализует ингредиенты и назначает им идентификаторы.
func newIngredients(raws []entities.RawIngredient) ([]entities.Ingredient, error) {
	ingredients, err := entities.NormalizeIngredients(raws)
	if err != nil {
		return nil, err
	}
	for i := range ingredients {
		ingredients[i].ID = entities.NewID()
	}
	return ingredients, nil
}

// List возвращает рецепты по фильтру. Ингредиент сравнивается по slug.
func (uc *RecipeUseCase) List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error) {
	logger.Log(ctx).Debug(ctx, methodListRecipes,
		zap.String("ingrediente", filter.Ingrediente),
		zap.String("autor", filter.Autor))

	normalized := entities.RecipeFilter{Ingrediente: entities.Slugify(filter.Ingrediente)}
	if strings.TrimSpace(filter.Autor) != "" {
		autor, err := entities.ParseID(filter.Autor)
		if err != nil {
			return nil, entities.ErrInvalidAuthor
		}
		normalized.Autor = autor
	}

	recipes, err := uc.recipes.List(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingRecipes, err)
	}
	return recipes, nil
}

// Get возвращает рецепт по идентификатору.
func (uc *RecipeUseCase) Get(ctx context.Context, id string) (*entities.Recipe, error) {
	logger.Log(ctx).Debug(ctx, methodGetRecipe, zap.String("recipeID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}

	recipe, err := uc.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(errCtxFindingRecipe, err, entities.ErrRecipeNotFound)
	}
	return recipe, nil
}

// Update изменяет название и/или инструкции.
func (uc *RecipeUseCase) Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateRecipe), zap.String("recipeID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}

	if update.Nombre != nil {
		v := strings.TrimSpace(*update.Nombre)
		if v == "" {
			return nil, entities.ErrEmptyField("nombre")
		}
		update.Nombre = &v
	}
	if update.Instrucciones != nil {
		v := strings.TrimSpace(*update.Instrucciones)
		if v == "" {
			return nil, entities.ErrEmptyField("instrucciones")
		}
		update.Instrucciones = &v
	}

	if update.IsEmpty() {
		log.Debug(ctx, "no fields to update")
		return uc.Get(ctx, id)
	}

	recipe, err := uc.recipes.Update(ctx, id, update)
	if err != nil {
		return nil, wrapLookup(errCtxUpdatingRecipe, err, entities.ErrRecipeNotFound)
	}
	return recipe, nil
}

// Delete удаляет рецепт.
func (uc *RecipeUseCase) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteRecipe), zap.String("recipeID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return err
	}

	if err := uc.recipes.Delete(ctx, id); err != nil {
		return wrapLookup(errCtxDeletingRecipe, err, entities.ErrRecipeNotFound)
	}

	log.Info(ctx, msgRecipeDeleted)
	return nil
}

// AddIngredients добавляет ингредиенты в конец списка. Повторы допускаются.
func (uc *RecipeUseCase) AddIngredients(ctx context.Context, id string, raws []entities.RawIngredient) (*entities.Recipe, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAddIngredients), zap.String("recipeID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, entities.ErrNoIngredientsSent
	}

	ingredients, err := newIngredients(raws)
	if err != nil {
		log.Debug(ctx, msgInvalidRecipeInput, zap.Error(err))
		return nil, err
	}

	recipe, err := uc.recipes.AppendIngredients(ctx, id, ingredients)
	if err != nil {
		return nil, wrapLookup(errCtxAddingIngredient, err, entities.ErrRecipeNotFound)
	}

	log.Info(ctx, msgIngredientsAdded, zap.Int("count", len(ingredients)))
	return recipe, nil
}

// ListIngredients возвращает ингредиенты рецепта.
func (uc *RecipeUseCase) ListIngredients(ctx context.Context, id string) ([]entities.Ingredient, error) {
	recipe, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return recipe.Ingredientes, nil
}

// RemoveIngredient удаляет ингредиент. Неизвестный ингредиент не является ошибкой.
func (uc *RecipeUseCase) RemoveIngredient(ctx context.Context, id, ingredientID string) (*entities.Recipe, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodRemoveIngredient),
		zap.String("recipeID", id),
		zap.String("ingredientID", ingredientID))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}
	ingredientID, err = entities.ParseID(ingredientID)
	if err != nil {
		return nil, err
	}

	recipe, err := uc.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(errCtxFindingRecipe, err, entities.ErrRecipeNotFound)
	}

	if recipe.IngredientIndex(ingredientID) < 0 {
		log.Debug(ctx, msgIngredientNotInList)
		return recipe, nil
	}

	updated, err := uc.recipes.RemoveIngredient(ctx, id, ingredientID, uc.policy.AllowEmptyRecipes)
	if err != nil {
		if errors.Is(err, entities.ErrLastIngredient) {
			log.Debug(ctx, msgLastIngredient)
			return nil, entities.ErrLastIngredient
		}
		return nil, wrapLookup(errCtxRemovingIngred, err, entities.ErrRecipeNotFound)
	}

	log.Info(ctx, msgIngredientRemoved)
	return updated, nil
}

// SearchByIngredient возвращает рецепты, содержащие ингредиент с указанным slug.
func (uc *RecipeUseCase) SearchByIngredient(ctx context.Context, query string) ([]*entities.Recipe, error) {
	logger.Log(ctx).Debug(ctx, methodSearchRecipes, zap.String("query", query))

	slug := entities.Slugify(query)
	if slug == "" {
		return nil, entities.ErrSearchQueryRequired
	}

	recipes, err := uc.recipes.List(ctx, entities.RecipeFilter{Ingrediente: slug})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingRecipes, err)
	}
	return recipes, nil
}
