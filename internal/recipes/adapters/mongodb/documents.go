// Package mongodb реализует хранилище рецептов в MongoDB.
package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recetario/internal/recipes/domain/entities"
)

// Имена коллекций.
const (
	UsersCollection   = "usuarios"
	RecipesCollection = "recetas"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Nombre    string             `bson:"nombre"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type ingredientDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Nombre   string             `bson:"nombre"`
	Cantidad *string            `bson:"cantidad,omitempty"`
	Unidad   *string            `bson:"unidad,omitempty"`
	Slug     string             `bson:"slug"`
}

type recipeDocument struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Nombre        string               `bson:"nombre"`
	Instrucciones string               `bson:"instrucciones"`
	Autor         primitive.ObjectID   `bson:"autor"`
	Ingredientes  []ingredientDocument `bson:"ingredientes"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

// objectID преобразует hex-строку в ObjectID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, entities.ErrInvalidID
	}
	return oid, nil
}

// now возвращает текущее время с точностью, которую хранит BSON.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func toUserDocument(u *entities.User) (*userDocument, error) {
	oid, err := objectID(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:        oid,
		Nombre:    u.Nombre,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (d *userDocument) toEntity() *entities.User {
	return &entities.User{
		ID:           d.ID.Hex(),
		Nombre:       d.Nombre,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func toIngredientDocuments(ingredients []entities.Ingredient) ([]ingredientDocument, error) {
	docs := make([]ingredientDocument, 0, len(ingredients))
	for _, ing := range ingredients {
		oid, err := objectID(ing.ID)
		if err != nil {
			return nil, err
		}
		docs = append(docs, ingredientDocument{
			ID:       oid,
			Nombre:   ing.Nombre,
			Cantidad: ing.Cantidad,
			Unidad:   ing.Unidad,
			Slug:     ing.Slug,
		})
	}
	return docs, nil
}

func toRecipeDocument(r *entities.Recipe) (*recipeDocument, error) {
	oid, err := objectID(r.ID)
	if err != nil {
		return nil, err
	}
	autor, err := objectID(r.Autor)
	if err != nil {
		return nil, err
	}
	ingredients, err := toIngredientDocuments(r.Ingredientes)
	if err != nil {
		return nil, err
	}
	return &recipeDocument{
		ID:            oid,
		Nombre:        r.Nombre,
		Instrucciones: r.Instrucciones,
		Autor:         autor,
		Ingredientes:  ingredients,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

func (d *recipeDocument) toEntity() *entities.Recipe {
	ingredients := make([]entities.Ingredient, 0, len(d.Ingredientes))
	for _, ing := range d.Ingredientes {
		ingredients = append(ingredients, entities.Ingredient{
			ID:       ing.ID.Hex(),
			Nombre:   ing.Nombre,
			Cantidad: ing.Cantidad,
			Unidad:   ing.Unidad,
			Slug:     ing.Slug,
		})
	}
	return &entities.Recipe{
		ID:            d.ID.Hex(),
		Nombre:        d.Nombre,
		Instrucciones: d.Instrucciones,
		Autor:         d.Autor.Hex(),
		Ingredientes:  ingredients,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}
