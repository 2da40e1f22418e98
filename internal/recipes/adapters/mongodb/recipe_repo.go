package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
)

var creationOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// RecipeRepository реализует интерфейс repositories.RecipeRepository для работы с MongoDB.
// Ингредиенты хранятся во вложенном массиве документа рецепта.
type RecipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository создает новый экземпляр репозитория рецептов.
func NewRecipeRepository(db *mongo.Database) repositories.RecipeRepository {
	return &RecipeRepository{coll: db.Collection(RecipesCollection)}
}

func (r *RecipeRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "recipe"), zap.String("method", method))
}

// Create сохраняет новый рецепт.
func (r *RecipeRepository) Create(ctx context.Context, recipe *entities.Recipe) (*entities.Recipe, error) {
	log := r.log(ctx, "Create")

	if recipe.ID == "" {
		recipe.ID = entities.NewID()
	}
	doc, err := toRecipeDocument(recipe)
	if err != nil {
		return nil, err
	}
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		log.Error(ctx, "error creating recipe", zap.Error(err))
		return nil, fmt.Errorf("error creating recipe: %w", err)
	}
	return doc.toEntity(), nil
}

// FindByID находит рецепт по ID.
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*entities.Recipe, error) {
	log := r.log(ctx, "FindByID")

	oid, err := objectID(id)
	if err != nil {
		return nil, entities.ErrRecipeNotFound
	}

	var doc recipeDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrRecipeNotFound
		}
		log.Error(ctx, "error finding recipe", zap.Error(err))
		return nil, fmt.Errorf("error finding recipe: %w", err)
	}
	return doc.toEntity(), nil
}

// List возвращает рецепты по фильтру в порядке создания.
func (r *RecipeRepository) List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error) {
	log := r.log(ctx, "List")

	query := bson.D{}
	if filter.Ingrediente != "" {
		query = append(query, bson.E{Key: "ingredientes.slug", Value: filter.Ingrediente})
	}
	if filter.Autor != "" {
		autor, err := objectID(filter.Autor)
		if err != nil {
			return []*entities.Recipe{}, nil
		}
		query = append(query, bson.E{Key: "autor", Value: autor})
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(creationOrder))
	if err != nil {
		log.Error(ctx, "error listing recipes", zap.Error(err))
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}

	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding recipes: %w", err)
	}

	recipes := make([]*entities.Recipe, 0, len(docs))
	for i := range docs {
		recipes = append(recipes, docs[i].toEntity())
	}
	return recipes, nil
}

// findAndUpdate применяет update к рецепту и возвращает его новое состояние.
func (r *RecipeRepository) findAndUpdate(ctx context.Context, method, id string, update bson.D) (*entities.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, entities.ErrRecipeNotFound
	}
	return r.findAndUpdateWhere(ctx, method, bson.D{{Key: "_id", Value: oid}}, update)
}

// findAndUpdateWhere обновляет один документ по filter. Несовпадение filter сообщается как ErrRecipeNotFound.
func (r *RecipeRepository) findAndUpdateWhere(ctx context.Context, method string, filter, update bson.D) (*entities.Recipe, error) {
	log := r.log(ctx, method)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc recipeDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrRecipeNotFound
		}
		log.Error(ctx, "error updating recipe", zap.Error(err))
		return nil, fmt.Errorf("error updating recipe: %w", err)
	}
	return doc.toEntity(), nil
}

// Update изменяет переданные поля рецепта.
func (r *RecipeRepository) Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error) {
	set := bson.D{{Key: "updatedAt", Value: now()}}
	if update.Nombre != nil {
		set = append(set, bson.E{Key: "nombre", Value: *update.Nombre})
	}
	if update.Instrucciones != nil {
		set = append(set, bson.E{Key: "instrucciones", Value: *update.Instrucciones})
	}
	return r.findAndUpdate(ctx, "Update", id, bson.D{{Key: "$set", Value: set}})
}

// Delete удаляет рецепт.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	log := r.log(ctx, "Delete")

	oid, err := objectID(id)
	if err != nil {
		return entities.ErrRecipeNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		log.Error(ctx, "error deleting recipe", zap.Error(err))
		return fmt.Errorf("error deleting recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return entities.ErrRecipeNotFound
	}
	return nil
}

// DeleteByAuthor удаляет все рецепты автора.
func (r *RecipeRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	log := r.log(ctx, "DeleteByAuthor")

	autor, err := objectID(authorID)
	if err != nil {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "autor", Value: autor}})
	if err != nil {
		log.Error(ctx, "error deleting recipes by author", zap.Error(err))
		return 0, fmt.Errorf("error deleting recipes by author: %w", err)
	}
	return res.DeletedCount, nil
}

// AppendIngredients добавляет ингредиенты одним $push.
func (r *RecipeRepository) AppendIngredients(ctx context.Context, id string, ingredients []entities.Ingredient) (*entities.Recipe, error) {
	docs, err := toIngredientDocuments(ingredients)
	if err != nil {
		return nil, err
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "ingredientes", Value: bson.D{{Key: "$each", Value: docs}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
	}
	return r.findAndUpdate(ctx, "AppendIngredients", id, update)
}

// RemoveIngredient удаляет ингредиент через $pull. Без allowEmpty filter совпадает, только если
// после удаления останется хотя бы один ингредиент.
func (r *RecipeRepository) RemoveIngredient(ctx context.Context, id, ingredientID string, allowEmpty bool) (*entities.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, entities.ErrRecipeNotFound
	}
	ingOID, err := objectID(ingredientID)
	if err != nil {
		return r.FindByID(ctx, id)
	}

	filter := bson.D{{Key: "_id", Value: oid}}
	if !allowEmpty {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "ingredientes.1", Value: bson.D{{Key: "$exists", Value: true}}}},
			bson.D{{Key: "ingredientes._id", Value: bson.D{{Key: "$ne", Value: ingOID}}}},
		}})
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "ingredientes", Value: bson.D{{Key: "_id", Value: ingOID}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
	}

	recipe, err := r.findAndUpdateWhere(ctx, "RemoveIngredient", filter, update)
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
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting recipes: %w", err)
	}
	return n, nil
}

// DeleteAll удаляет все рецепты.
func (r *RecipeRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("error deleting recipes: %w", err)
	}
	return nil
}
