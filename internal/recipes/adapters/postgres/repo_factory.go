package postgres

import (
	"recetario/internal/recipes/ports/repositories"
)

// RepositoryFactory создает все необходимые репозитории для работы с PostgreSQL.
type RepositoryFactory struct {
	userRepo   repositories.UserRepository
	recipeRepo repositories.RecipeRepository
	txManager  repositories.TxManager
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:   NewUserRepository(pool),
		recipeRepo: NewRecipeRepository(pool),
		txManager:  NewTxManager(pool),
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
