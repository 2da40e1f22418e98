package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recetario/pkg/logger"
)

// EnsureIndexes создает индексы коллекций: уникальный email пользователя,
// рецепты по автору и по slug ингредиента.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	log := logger.Log(ctx)

	users := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("error creating user indexes: %w", err)
	}

	recipes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "autor", Value: 1}, {Key: "nombre", Value: 1}},
			Options: options.Index().SetName("autor_nombre"),
		},
		{
			Keys:    bson.D{{Key: "ingredientes.slug", Value: 1}},
			Options: options.Index().SetName("ingredientes_slug"),
		},
	}
	if _, err := db.Collection(RecipesCollection).Indexes().CreateMany(ctx, recipes); err != nil {
		return fmt.Errorf("error creating recipe indexes: %w", err)
	}

	log.Info(ctx, "mongo indexes ensured")
	return nil
}
