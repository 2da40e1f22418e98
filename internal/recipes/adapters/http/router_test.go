package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	recipehttp "recetario/internal/recipes/adapters/http"
	"recetario/internal/recipes/adapters/http/dto"
	"recetario/internal/recipes/adapters/memory"
	"recetario/internal/recipes/adapters/services"
	"recetario/internal/recipes/app"
	"recetario/internal/recipes/config"
	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
)

func newApp(t *testing.T, userSvc api.UserService, recipeSvc api.RecipeService) *fiber.App {
	t.Helper()
	a := recipehttp.NewApp(&config.HTTPConfig{BodyLimit: 1 << 20})
	recipehttp.SetupRouter(a, []string{"http://localhost:3001"}, userSvc, recipeSvc)
	return a
}

func newMemoryApp(t *testing.T, policy app.RecipePolicy) *fiber.App {
	t.Helper()
	f := memory.NewRepositoryFactory(memory.NewStore())
	cascade := app.NewCascade(f.UserRepository(), f.RecipeRepository(), f.TxManager())
	userSvc := app.NewUserUseCase(f.UserRepository(), f.RecipeRepository(), services.NewBcrypt(bcrypt.MinCost), cascade)
	recipeSvc := app.NewRecipeUseCase(f.RecipeRepository(), f.UserRepository(), policy)
	return newApp(t, userSvc, recipeSvc)
}

func do(t *testing.T, a *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, raw).Error
}

func TestHealthAndUnknownRoute(t *testing.T) {
	a := newMemoryApp(t, app.RecipePolicy{})

	status, raw := do(t, a, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	status, raw = do(t, a, http.MethodGet, "/api/nada", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Ruta no encontrada: GET /api/nada", errorMessage(t, raw))
}

func TestEndToEndScenario(t *testing.T) {
	a := newMemoryApp(t, app.RecipePolicy{})

	status, raw := do(t, a, http.MethodPost, "/api/usuarios",
		`{"nombre":"Ana Gómez","email":"Ana@Example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.NotContains(t, string(raw), "password")
	ana := decode[dto.User](t, raw)
	assert.Len(t, ana.ID, 24)
	assert.Equal(t, "ana@example.com", ana.Email)

	status, raw = do(t, a, http.MethodPost, "/api/recetas", `{
		"nombre": "Pollo al Horno",
		"instrucciones": "Hornear 1 hora a 180°C",
		"autor": "`+ana.ID+`",
		"ingredientes": [
			{"nombre": " Pollo ", "cantidad": 1, "unidad": "kg"},
			{"nombre": "Ajo", "cantidad": "3", "unidad": "dientes"},
			{"nombre": "Sal"}
		]
	}`)
	require.Equal(t, http.StatusCreated, status, string(raw))
	recipe := decode[dto.Recipe](t, raw)
	require.Len(t, recipe.Ingredientes, 3)
	assert.Equal(t, "Pollo", recipe.Ingredientes[0].Nombre)
	assert.Equal(t, "pollo", recipe.Ingredientes[0].Slug)
	require.NotNil(t, recipe.Ingredientes[0].Cantidad)
	assert.Equal(t, "1", *recipe.Ingredientes[0].Cantidad)
	assert.Nil(t, recipe.Ingredientes[2].Cantidad)
	assert.Equal(t, ana.ID, recipe.Autor)

	status, raw = do(t, a, http.MethodGet, "/api/recetas?ingrediente=pollo", "")
	require.Equal(t, http.StatusOK, status)
	found := decode[[]dto.Recipe](t, raw)
	require.Len(t, found, 1)
	assert.Equal(t, recipe.ID, found[0].ID)

	status, raw = do(t, a, http.MethodGet, "/api/recetas/buscar?ingrediente=%20POLLO%20", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.Recipe](t, raw), 1)

	status, raw = do(t, a, http.MethodDelete, "/api/usuarios/"+ana.ID, "")
	require.Equal(t, http.StatusOK, status)
	deleted := decode[dto.DeleteUserResponse](t, raw)
	assert.Equal(t, "Usuario eliminado", deleted.Mensaje)
	assert.EqualValues(t, 1, deleted.RecetasEliminadas)

	status, raw = do(t, a, http.MethodGet, "/api/recetas?autor="+ana.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, _ = do(t, a, http.MethodGet, "/api/usuarios/"+ana.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserRoutes(t *testing.T) {
	a := newMemoryApp(t, app.RecipePolicy{})

	_, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":"Ana","email":"ana@example.com","password":"secret123"}`)
	ana := decode[dto.User](t, raw)

	t.Run("duplicate email", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":"Otra","email":"ANA@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "El email ya está registrado", errorMessage(t, raw))
	})

	t.Run("missing fields", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":"Ana"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "nombre, email y password son requeridos", errorMessage(t, raw))
	})

	t.Run("short password", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":"Eva","email":"eva@example.com","password":"12345"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "La contraseña debe tener al menos 6 caracteres", errorMessage(t, raw))

		status, raw = do(t, a, http.MethodPut, "/api/usuarios/"+ana.ID, `{"password":"12345"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "La contraseña debe tener al menos 6 caracteres", errorMessage(t, raw))
	})

	t.Run("malformed body", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, errorMessage(t, raw))
	})

	t.Run("malformed id", func(t *testing.T) {
		status, raw := do(t, a, http.MethodGet, "/api/usuarios/123", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "ID inválido", errorMessage(t, raw))
	})

	t.Run("unknown id", func(t *testing.T) {
		status, raw := do(t, a, http.MethodDelete, "/api/usuarios/"+entities.NewID(), "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Usuario no encontrado", errorMessage(t, raw))
	})

	t.Run("update", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPut, "/api/usuarios/"+ana.ID, `{"nombre":"Ana G."}`)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, "Ana G.", decode[dto.User](t, raw).Nombre)
	})

	t.Run("list", func(t *testing.T) {
		status, raw := do(t, a, http.MethodGet, "/api/usuarios", "")
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[[]dto.User](t, raw), 1)
	})

	t.Run("recipes of user", func(t *testing.T) {
		status, raw := do(t, a, http.MethodGet, "/api/usuarios/"+ana.ID+"/recetas", "")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(raw))
	})
}

func TestRecipeRoutes(t *testing.T) {
	a := newMemoryApp(t, app.RecipePolicy{})

	_, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":"Laura","email":"laura@example.com","password":"secret123"}`)
	laura := decode[dto.User](t, raw)

	_, raw = do(t, a, http.MethodPost, "/api/recetas",
		`{"nombre":"Arepas","instrucciones":"Amasar","autor":"`+laura.ID+`","ingredientes":[{"nombre":"Harina"}]}`)
	recipe := decode[dto.Recipe](t, raw)
	require.Len(t, recipe.Ingredientes, 1)

	t.Run("empty ingredient list", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/recetas",
			`{"nombre":"X","instrucciones":"Y","autor":"`+laura.ID+`","ingredientes":[]}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Debes incluir al menos un ingrediente", errorMessage(t, raw))
	})

	t.Run("unknown author", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/recetas",
			`{"nombre":"X","instrucciones":"Y","autor":"`+entities.NewID()+`","ingredientes":[{"nombre":"Sal"}]}`)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Autor no encontrado", errorMessage(t, raw))
	})

	t.Run("search without query", func(t *testing.T) {
		status, raw := do(t, a, http.MethodGet, "/api/recetas/buscar", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, `Falta query "ingrediente"`, errorMessage(t, raw))
	})

	t.Run("add single object", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/recetas/"+recipe.ID+"/ingredientes",
			`{"ingredientes":{"nombre":"Queso","cantidad":200,"unidad":"g"}}`)
		require.Equal(t, http.StatusOK, status, string(raw))
		got := decode[dto.Recipe](t, raw)
		require.Len(t, got.Ingredientes, 2)
		assert.Equal(t, "queso", got.Ingredientes[1].Slug)
		assert.Equal(t, "200", *got.Ingredientes[1].Cantidad)
	})

	t.Run("add array", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/recetas/"+recipe.ID+"/ingredientes",
			`{"ingredientes":[{"nombre":"Sal"},{"nombre":"Agua","cantidad":"1","unidad":"taza"}]}`)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Len(t, decode[dto.Recipe](t, raw).Ingredientes, 4)
	})

	t.Run("add nothing", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPost, "/api/recetas/"+recipe.ID+"/ingredientes", `{"ingredientes":[]}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Debes enviar ingredientes", errorMessage(t, raw))
	})

	t.Run("list and remove ingredients", func(t *testing.T) {
		status, raw := do(t, a, http.MethodGet, "/api/recetas/"+recipe.ID+"/ingredientes", "")
		require.Equal(t, http.StatusOK, status)
		ingredients := decode[[]dto.Ingredient](t, raw)
		require.Len(t, ingredients, 4)

		status, raw = do(t, a, http.MethodDelete, "/api/recetas/"+recipe.ID+"/ingredientes/"+ingredients[1].ID, "")
		require.Equal(t, http.StatusOK, status, string(raw))
		got := decode[dto.Recipe](t, raw)
		require.Len(t, got.Ingredientes, 3)
		assert.Equal(t, "Harina", got.Ingredientes[0].Nombre)
		assert.Equal(t, "Sal", got.Ingredientes[1].Nombre)

		status, raw = do(t, a, http.MethodDelete, "/api/recetas/"+recipe.ID+"/ingredientes/"+entities.NewID(), "")
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[dto.Recipe](t, raw).Ingredientes, 3)
	})

	t.Run("update and delete", func(t *testing.T) {
		status, raw := do(t, a, http.MethodPut, "/api/recetas/"+recipe.ID, `{"instrucciones":"Amasar y asar"}`)
		require.Equal(t, http.StatusOK, status, string(raw))
		got := decode[dto.Recipe](t, raw)
		assert.Equal(t, "Arepas", got.Nombre)
		assert.Equal(t, "Amasar y asar", got.Instrucciones)

		status, raw = do(t, a, http.MethodDelete, "/api/recetas/"+recipe.ID, "")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"mensaje":"Receta eliminada"}`, string(raw))

		status, _ = do(t, a, http.MethodGet, "/api/recetas/"+recipe.ID, "")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestLastIngredientPolicy(t *testing.T) {
	for _, tc := range []struct {
		name   string
		policy app.RecipePolicy
		status int
	}{
		{name: "rejected by default", policy: app.RecipePolicy{}, status: http.StatusBadRequest},
		{name: "allowed when configured", policy: app.RecipePolicy{AllowEmptyRecipes: true}, status: http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := newMemoryApp(t, tc.policy)
			_, raw := do(t, a, http.MethodPost, "/api/usuarios", `{"nombre":"C","email":"c@example.com","password":"secret123"}`)
			user := decode[dto.User](t, raw)
			_, raw = do(t, a, http.MethodPost, "/api/recetas",
				`{"nombre":"R","instrucciones":"I","autor":"`+user.ID+`","ingredientes":[{"nombre":"Sal"}]}`)
			recipe := decode[dto.Recipe](t, raw)

			status, raw := do(t, a, http.MethodDelete,
				"/api/recetas/"+recipe.ID+"/ingredientes/"+recipe.Ingredientes[0].ID, "")
			assert.Equal(t, tc.status, status, string(raw))
		})
	}
}

type failingUsers struct {
	api.UserService
	err      error
	panicMsg string
}

func (f failingUsers) List(context.Context) ([]*entities.User, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return nil, f.err
}

func TestInternalErrors(t *testing.T) {
	t.Run("unexpected error is hidden", func(t *testing.T) {
		a := newApp(t, failingUsers{err: errors.New("connection reset")}, nil)

		status, raw := do(t, a, http.MethodGet, "/api/usuarios", "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Error interno del servidor", errorMessage(t, raw))
	})

	t.Run("panic is recovered", func(t *testing.T) {
		a := newApp(t, failingUsers{panicMsg: "boom"}, nil)

		status, raw := do(t, a, http.MethodGet, "/api/usuarios", "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Error interno del servidor", errorMessage(t, raw))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		a := newApp(t, failingUsers{err: errors.New("x")}, nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-42")
		resp, err := a.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
	})
}
