// Package memory содержит хранилище в памяти процесса для разработки и тестов.
package memory

import (
	"context"
	"sync"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
)

type txKey struct{}

// Store хранит пользователей и рецепты. Все операции выполняются под одним мьютексом,
// что соответствует атомарности отдельного документа в базе.
type Store struct {
	mu sync.Mutex

	users     map[string]*entities.User
	userOrder []string

	recipes     map[string]*entities.Recipe
	recipeOrder []string
}

// NewStore создает пустое хранилище.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*entities.User),
		recipes: make(map[string]*entities.Recipe),
	}
}

// lock захватывает мьютекс, если вызов не выполняется внутри WithinTx этого же хранилища.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTx удерживает мьютекс на время выполнения fn.
// Изменения, сделанные до ошибки, не откатываются.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	unlock := s.lock(ctx)
	defer unlock()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// RepositoryFactory создает репозитории поверх общего Store.
type RepositoryFactory struct {
	store      *Store
	userRepo   repositories.UserRepository
	recipeRepo repositories.RecipeRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(store *Store) *RepositoryFactory {
	return &RepositoryFactory{
		store:      store,
		userRepo:   NewUserRepository(store),
		recipeRepo: NewRecipeRepository(store),
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
	return f.store
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneUser(u *entities.User) *entities.User {
	c := *u
	return &c
}

func cloneRecipe(r *entities.Recipe) *entities.Recipe {
	c := *r
	c.Ingredientes = make([]entities.Ingredient, len(r.Ingredientes))
	for i, ing := range r.Ingredientes {
		c.Ingredientes[i] = cloneIngredient(ing)
	}
	return &c
}

func cloneIngredient(ing entities.Ingredient) entities.Ingredient {
	if ing.Cantidad != nil {
		v := *ing.Cantidad
		ing.Cantidad = &v
	}
	if ing.Unidad != nil {
		v := *ing.Unidad
		ing.Unidad = &v
	}
	return ing
}
