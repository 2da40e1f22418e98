package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recetario/internal/recipes/adapters/memory"
	"recetario/internal/recipes/adapters/services"
	"recetario/internal/recipes/app"
	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
	"recetario/internal/recipes/ports/repositories"
)

var errDB = errors.New("database is down")

type fixture struct {
	users   *app.UserUseCase
	recipes *app.RecipeUseCase
	factory *memory.RepositoryFactory
}

func newFixture(policy app.RecipePolicy) *fixture {
	f := memory.NewRepositoryFactory(memory.NewStore())
	cascade := app.NewCascade(f.UserRepository(), f.RecipeRepository(), f.TxManager())
	return &fixture{
		users:   app.NewUserUseCase(f.UserRepository(), f.RecipeRepository(), services.NewBcrypt(bcrypt.MinCost), cascade),
		recipes: app.NewRecipeUseCase(f.RecipeRepository(), f.UserRepository(), policy),
		factory: f,
	}
}

func (f *fixture) register(t *testing.T, nombre, email string) *entities.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), api.RegisterUserRequest{Nombre: nombre, Email: email, Password: "secret123"})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and hashes", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})

		u, err := f.users.Register(ctx, api.RegisterUserRequest{Nombre: "  Ana Gómez ", Email: " Ana@Example.COM ", Password: "secret123"})
		require.NoError(t, err)
		assert.Len(t, u.ID, 24)
		assert.Equal(t, "Ana Gómez", u.Nombre)
		assert.Equal(t, "ana@example.com", u.Email)
		assert.NotEqual(t, "secret123", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
	})

	t.Run("duplicate email differing in case", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		f.register(t, "Ana", "ana@example.com")

		_, err := f.users.Register(ctx, api.RegisterUserRequest{Nombre: "Ana 2", Email: "ANA@example.com ", Password: "secret123"})
		require.ErrorIs(t, err, entities.ErrEmailTaken)
		assert.ErrorIs(t, err, entities.ErrConflict)
	})

	tests := []struct {
		name string
		req  api.RegisterUserRequest
		want error
	}{
		{"missing name", api.RegisterUserRequest{Email: "a@b.co", Password: "x"}, entities.ErrUserFieldsRequired},
		{"blank name", api.RegisterUserRequest{Nombre: "  ", Email: "a@b.co", Password: "x"}, entities.ErrUserFieldsRequired},
		{"missing email", api.RegisterUserRequest{Nombre: "A", Password: "x"}, entities.ErrUserFieldsRequired},
		{"missing password", api.RegisterUserRequest{Nombre: "A", Email: "a@b.co"}, entities.ErrUserFieldsRequired},
		{"bad email", api.RegisterUserRequest{Nombre: "A", Email: "not-an-email", Password: "x"}, entities.ErrInvalidEmail},
		{"short password", api.RegisterUserRequest{Nombre: "A", Email: "a@b.co", Password: "12345"}, entities.ErrPasswordTooShort},
		{"short multibyte password", api.RegisterUserRequest{Nombre: "A", Email: "a@b.co", Password: "ñññññ"}, entities.ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(app.RecipePolicy{})
			_, err := f.users.Register(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, entities.ErrValidation)
		})
	}
}

func TestRegister_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	req := api.RegisterUserRequest{Nombre: "Ana", Email: "ana@example.com", Password: "secret123"}

	t.Run("lookup failure", func(t *testing.T) {
		users := new(mockUserRepository)
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, errDB)

		uc := app.NewUserUseCase(users, new(mockRecipeRepository), new(mockPasswordService), nil)
		_, err := uc.Register(ctx, req)

		require.ErrorIs(t, err, errDB)
		users.AssertExpectations(t)
	})

	t.Run("unique index race reported as conflict", func(t *testing.T) {
		users := new(mockUserRepository)
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, entities.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil, entities.ErrEmailTaken)
		pass := new(mockPasswordService)
		pass.On("Hash", mock.Anything, "secret123").Return("hash", nil)

		uc := app.NewUserUseCase(users, new(mockRecipeRepository), pass, nil)
		_, err := uc.Register(ctx, req)

		require.ErrorIs(t, err, entities.ErrConflict)
		users.AssertExpectations(t)
		pass.AssertExpectations(t)
	})

	t.Run("create failure is wrapped", func(t *testing.T) {
		users := new(mockUserRepository)
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, entities.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == "ana@example.com" && u.PasswordHash == "hash" && len(u.ID) == 24
		})).Return(nil, errDB)
		pass := new(mockPasswordService)
		pass.On("Hash", mock.Anything, "secret123").Return("hash", nil)

		uc := app.NewUserUseCase(users, new(mockRecipeRepository), pass, nil)
		_, err := uc.Register(ctx, req)

		require.ErrorIs(t, err, errDB)
		assert.Contains(t, err.Error(), "creating user")
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(app.RecipePolicy{})
	ana := f.register(t, "Ana", "ana@example.com")

	got, err := f.users.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.Email, got.Email)

	_, err = f.users.Get(ctx, "nope")
	require.ErrorIs(t, err, entities.ErrInvalidID)

	_, err = f.users.Get(ctx, entities.NewID())
	require.ErrorIs(t, err, entities.ErrUserNotFound)

	list, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func strPtr(s string) *string { return &s }

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("applies provided fields", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		ana := f.register(t, "Ana", "ana@example.com")

		got, err := f.users.Update(ctx, ana.ID, entities.UserUpdate{
			Nombre:   strPtr(" Ana María "),
			Email:    strPtr("ANA.M@example.com"),
			Password: strPtr("nueva123"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", got.Nombre)
		assert.Equal(t, "ana.m@example.com", got.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("nueva123")))
	})

	t.Run("keeping own email is not a conflict", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		ana := f.register(t, "Ana", "ana@example.com")

		got, err := f.users.Update(ctx, ana.ID, entities.UserUpdate{Email: strPtr("Ana@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", got.Email)
	})

	t.Run("email of another user", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		f.register(t, "Ana", "ana@example.com")
		carlos := f.register(t, "Carlos", "carlos@example.com")

		_, err := f.users.Update(ctx, carlos.ID, entities.UserUpdate{Email: strPtr("ana@example.com")})
		require.ErrorIs(t, err, entities.ErrEmailTaken)
	})

	t.Run("blank values", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		ana := f.register(t, "Ana", "ana@example.com")

		for _, upd := range []entities.UserUpdate{
			{Nombre: strPtr(" ")},
			{Email: strPtr("")},
			{Email: strPtr("bad")},
			{Password: strPtr("")},
			{Password: strPtr("12345")},
		} {
			_, err := f.users.Update(ctx, ana.ID, upd)
			assert.ErrorIs(t, err, entities.ErrValidation)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		_, err := f.users.Update(ctx, entities.NewID(), entities.UserUpdate{Nombre: strPtr("x")})
		require.ErrorIs(t, err, entities.ErrUserNotFound)
	})

	t.Run("empty update returns user unchanged", func(t *testing.T) {
		f := newFixture(app.RecipePolicy{})
		ana := f.register(t, "Ana", "ana@example.com")

		got, err := f.users.Update(ctx, ana.ID, entities.UserUpdate{})
		require.NoError(t, err)
		assert.Equal(t, ana.Nombre, got.Nombre)
	})
}

func TestDeleteUser_Cascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(app.RecipePolicy{})
	ana := f.register(t, "Ana", "ana@example.com")
	carlos := f.register(t, "Carlos", "carlos@example.com")

	for i := 0; i < 3; i++ {
		_, err := f.recipes.Create(ctx, api.CreateRecipeRequest{
			Nombre: "R", Instrucciones: "I", Autor: ana.ID,
			Ingredientes: []entities.RawIngredient{{Nombre: "Sal"}},
		})
		require.NoError(t, err)
	}
	_, err := f.recipes.Create(ctx, api.CreateRecipeRequest{
		Nombre: "R", Instrucciones: "I", Autor: carlos.ID,
		Ingredientes: []entities.RawIngredient{{Nombre: "Sal"}},
	})
	require.NoError(t, err)

	res, err := f.users.Delete(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.EqualValues(t, 3, res.RecipesRemoved)

	left, err := f.users.ListRecipes(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	res, err = f.users.Delete(ctx, carlos.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.RecipesRemoved)

	_, err = f.users.Delete(ctx, ana.ID)
	require.ErrorIs(t, err, entities.ErrUserNotFound)

	_, err = f.users.Delete(ctx, "123")
	require.ErrorIs(t, err, entities.ErrInvalidID)
}

func TestDeleteUser_NoRecipesReportsZero(t *testing.T) {
	f := newFixture(app.RecipePolicy{})
	laura := f.register(t, "Laura", "laura@example.com")

	res, err := f.users.Delete(context.Background(), laura.ID)
	require.NoError(t, err)
	assert.Zero(t, res.RecipesRemoved)
}

func TestCascade_RecipeDeletionFailure(t *testing.T) {
	ctx := context.Background()
	id := entities.NewID()

	users := new(mockUserRepository)
	recipes := new(mockRecipeRepository)
	recipes.On("DeleteByAuthor", mock.Anything, id).Return(int64(0), errDB)

	cascade := app.NewCascade(users, recipes, passthroughTx{})
	_, err := cascade.DeleteUser(ctx, id)

	require.ErrorIs(t, err, errDB)
	recipes.AssertExpectations(t)
	users.AssertNotCalled(t, "Delete", mock.Anything, id)
}

func TestCascade_DeletesRecipesBeforeUser(t *testing.T) {
	ctx := context.Background()
	id := entities.NewID()
	var order []string

	recipes := new(mockRecipeRepository)
	recipes.On("DeleteByAuthor", mock.Anything, id).
		Run(func(mock.Arguments) { order = append(order, "recipes") }).
		Return(int64(2), nil)
	users := new(mockUserRepository)
	users.On("Delete", mock.Anything, id).
		Run(func(mock.Arguments) { order = append(order, "user") }).
		Return(nil)

	res, err := app.NewCascade(users, recipes, passthroughTx{}).DeleteUser(ctx, id)

	require.NoError(t, err)
	assert.EqualValues(t, 2, res.RecipesRemoved)
	assert.Equal(t, []string{"recipes", "user"}, order)
}

// commitTx фиксирует, вызывались ли отложенные действия до окончания транзакции.
type commitTx struct {
	firedInside *bool
	fired       *bool
}

func (tx commitTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	*tx.firedInside = *tx.fired
	return err
}

func TestCascade_RunsCommitHooksAfterTx(t *testing.T) {
	ctx := context.Background()
	id := entities.NewID()
	var fired, firedInside bool

	recipes := new(mockRecipeRepository)
	recipes.On("DeleteByAuthor", mock.Anything, id).
		Run(func(args mock.Arguments) {
			repositories.OnCommit(args.Get(0).(context.Context), func(context.Context) { fired = true })
		}).
		Return(int64(1), nil)
	users := new(mockUserRepository)
	users.On("Delete", mock.Anything, id).Return(nil)

	_, err := app.NewCascade(users, recipes, commitTx{firedInside: &firedInside, fired: &fired}).DeleteUser(ctx, id)

	require.NoError(t, err)
	assert.False(t, firedInside)
	assert.True(t, fired)
}

func TestCascade_SkipsCommitHooksOnFailure(t *testing.T) {
	ctx := context.Background()
	id := entities.NewID()
	var fired bool

	recipes := new(mockRecipeRepository)
	recipes.On("DeleteByAuthor", mock.Anything, id).
		Run(func(args mock.Arguments) {
			repositories.OnCommit(args.Get(0).(context.Context), func(context.Context) { fired = true })
		}).
		Return(int64(1), nil)
	users := new(mockUserRepository)
	users.On("Delete", mock.Anything, id).Return(errDB)

	_, err := app.NewCascade(users, recipes, passthroughTx{}).DeleteUser(ctx, id)

	require.ErrorIs(t, err, errDB)
	assert.False(t, fired)
}

func TestListUserRecipes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(app.RecipePolicy{})

	_, err := f.users.ListRecipes(ctx, "bad")
	require.ErrorIs(t, err, entities.ErrInvalidID)

	got, err := f.users.ListRecipes(ctx, entities.NewID())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRegister_MinimumPasswordLength(t *testing.T) {
	f := newFixture(app.RecipePolicy{})

	u, err := f.users.Register(context.Background(), api.RegisterUserRequest{Nombre: "Ana", Email: "ana@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)

	n, err := f.factory.UserRepository().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
