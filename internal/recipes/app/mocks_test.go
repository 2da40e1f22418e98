package app_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recetario/internal/recipes/domain/entities"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockRecipeRepository struct {
	mock.Mock
}

func (m *mockRecipeRepository) recipe(args mock.Arguments) (*entities.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) Create(ctx context.Context, recipe *entities.Recipe) (*entities.Recipe, error) {
	return m.recipe(m.Called(ctx, recipe))
}

func (m *mockRecipeRepository) FindByID(ctx context.Context, id string) (*entities.Recipe, error) {
	return m.recipe(m.Called(ctx, id))
}

func (m *mockRecipeRepository) List(ctx context.Context, filter entities.RecipeFilter) ([]*entities.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) Update(ctx context.Context, id string, update entities.RecipeUpdate) (*entities.Recipe, error) {
	return m.recipe(m.Called(ctx, id, update))
}

func (m *mockRecipeRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRecipeRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecipeRepository) AppendIngredients(ctx context.Context, id string, ingredients []entities.Ingredient) (*entities.Recipe, error) {
	return m.recipe(m.Called(ctx, id, ingredients))
}

func (m *mockRecipeRepository) RemoveIngredient(ctx context.Context, id, ingredientID string, allowEmpty bool) (*entities.Recipe, error) {
	return m.recipe(m.Called(ctx, id, ingredientID, allowEmpty))
}

func (m *mockRecipeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecipeRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

// passthroughTx выполняет fn без транзакции.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
