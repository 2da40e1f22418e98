package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"

	"recetario/internal/recipes/ports/repositories"
)

// RepositoryFactory создает все необходимые репозитории для работы с MongoDB.
type RepositoryFactory struct {
	userRepo   repositories.UserRepository
	recipeRepo repositories.RecipeRepository
	txManager  repositories.TxManager
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(client *mongo.Client, db *mongo.Database, transactions bool) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:   NewUserRepository(db),
		recipeRepo: NewRecipeRepository(db),
		txManager:  NewTxManager(client, transactions),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// RecipeRepository возвращает репозиторий рецептов.
func (f *RepositoryFactory) RecipeRepository() repositories.RecipeRepository {
	return f.recipeRepo
}

// TxManager возвращает менеджер транзакций.
func (f *RepositoryFactory) TxManager() repositories.TxManager {
	return f.txManager
}
