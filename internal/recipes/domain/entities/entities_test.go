package entities_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recetario/internal/recipes/domain/entities"
)

func strPtr(s string) *string { return &s }

func TestNormalizeIngredient(t *testing.T) {
	tests := []struct {
		name    string
		raw     entities.RawIngredient
		want    entities.Ingredient
		wantErr error
	}{
		{
			name: "trims name and derives slug",
			raw:  entities.RawIngredient{Nombre: "  Pollo  ", Cantidad: strPtr("1"), Unidad: strPtr("unidad")},
			want: entities.Ingredient{Nombre: "Pollo", Cantidad: strPtr("1"), Unidad: strPtr("unidad"), Slug: "pollo"},
		},
		{
			name: "mixed case name",
			raw:  entities.RawIngredient{Nombre: "Aceite de Oliva"},
			want: entities.Ingredient{Nombre: "Aceite de Oliva", Slug: "aceite de oliva"},
		},
		{
			name: "blank quantity and unit become absent",
			raw:  entities.RawIngredient{Nombre: "Sal", Cantidad: strPtr("  "), Unidad: strPtr("")},
			want: entities.Ingredient{Nombre: "Sal", Slug: "sal"},
		},
		{
			name: "quantity is trimmed",
			raw:  entities.RawIngredient{Nombre: "Agua", Cantidad: strPtr(" 1.5 ")},
			want: entities.Ingredient{Nombre: "Agua", Cantidad: strPtr("1.5"), Slug: "agua"},
		},
		{
			name:    "empty name",
			raw:     entities.RawIngredient{Nombre: "   "},
			wantErr: entities.ErrIngredientNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entities.NormalizeIngredient(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, entities.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, got.ID)
		})
	}
}

func TestNormalizeIngredient_SlugMatchesName(t *testing.T) {
	for _, name := range []string{"Tomate", " LIMÓN ", "Harina de maíz", "queso Mozzarella\t"} {
		got, err := entities.NormalizeIngredient(entities.RawIngredient{Nombre: name})
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(name), got.Nombre)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(name)), got.Slug)
	}
}

func TestNormalizeIngredients(t *testing.T) {
	got, err := entities.NormalizeIngredients([]entities.RawIngredient{{Nombre: "B"}, {Nombre: "A"}, {Nombre: "B"}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a", "b"}, []string{got[0].Slug, got[1].Slug, got[2].Slug})

	_, err = entities.NormalizeIngredients([]entities.RawIngredient{{Nombre: "A"}, {Nombre: ""}})
	require.ErrorIs(t, err, entities.ErrIngredientNameRequired)
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", entities.NormalizeEmail("  Ana@Example.COM "))

	for _, valid := range []string{"ana@example.com", "a.b@c.d"} {
		assert.NoError(t, entities.ValidateEmail(valid), valid)
	}
	for _, invalid := range []string{"", "ana", "ana@example", "ana @example.com", "@example.com"} {
		assert.ErrorIs(t, entities.ValidateEmail(invalid), entities.ErrInvalidEmail, invalid)
	}
}

func TestParseID(t *testing.T) {
	id := entities.NewID()
	assert.Len(t, id, 24)
	assert.True(t, entities.IsValidID(id))

	got, err := entities.ParseID(strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id + "0"} {
		_, err := entities.ParseID(bad)
		assert.ErrorIs(t, err, entities.ErrInvalidID, bad)
		assert.ErrorIs(t, err, entities.ErrValidation, bad)
	}
}

func TestDomainError(t *testing.T) {
	err := entities.ErrEmptyField("nombre")
	assert.Equal(t, "nombre no puede estar vacío", err.Error())
	assert.ErrorIs(t, err, entities.ErrValidation)

	var de *entities.DomainError
	require.True(t, errors.As(entities.ErrUserNotFound, &de))
	assert.ErrorIs(t, entities.ErrUserNotFound, entities.ErrNotFound)
	assert.ErrorIs(t, entities.ErrEmailTaken, entities.ErrConflict)
	assert.NotErrorIs(t, entities.ErrEmailTaken, entities.ErrNotFound)
}

func TestRecipe_IngredientIndex(t *testing.T) {
	r := entities.Recipe{Ingredientes: []entities.Ingredient{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, r.IngredientIndex("b"))
	assert.Equal(t, -1, r.IngredientIndex("c"))
}
