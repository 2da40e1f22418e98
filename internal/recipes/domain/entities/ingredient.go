package entities

import "strings"

// Ingredient - ингредиент, встроенный в рецепт.
type Ingredient struct {
	ID       string
	Nombre   string
	Cantidad *string
	Unidad   *string
	Slug     string
}

// RawIngredient - ингредиент в том виде, в котором его прислал клиент.
type RawIngredient struct {
	Nombre   string
	Cantidad *string
	Unidad   *string
}

// Slugify возвращает ключ поиска для названия ингредиента.
func Slugify(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeIngredient приводит ингредиент к хранимому виду. Идентификатор не назначается.
func NormalizeIngredient(raw RawIngredient) (Ingredient, error) {
	name := strings.TrimSpace(raw.Nombre)
	if name == "" {
		return Ingredient{}, ErrIngredientNameRequired
	}

	return Ingredient{
		Nombre:   name,
		Cantidad: optionalText(raw.Cantidad),
		Unidad:   optionalText(raw.Unidad),
		Slug:     strings.ToLower(name),
	}, nil
}

// NormalizeIngredients нормализует список, сохраняя порядок.
func NormalizeIngredients(raws []RawIngredient) ([]Ingredient, error) {
	out := make([]Ingredient, 0, len(raws))
	for _, raw := range raws {
		ing, err := NormalizeIngredient(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
