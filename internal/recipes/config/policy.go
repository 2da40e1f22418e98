package config

// SeedConfig управляет загрузкой демонстрационных данных при старте.
type SeedConfig struct {
	// Force очищает коллекции и загружает данные заново.
	Force bool `yaml:"force" env:"FORCE_SEED" env-default:"false"`
	// Skip отключает загрузку полностью.
	Skip bool `yaml:"skip" env:"SKIP_SEED" env-default:"false"`
}

// SecurityConfig содержит параметры хеширования паролей.
type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"RECETARIO_BCRYPT_COST" env-default:"10"`
}

// RecipesConfig содержит правила предметной области.
type RecipesConfig struct {
	// AllowEmptyRecipes разрешает удалить последний ингредиент рецепта.
	AllowEmptyRecipes bool `yaml:"allow_empty_recipes" env:"RECETARIO_ALLOW_EMPTY_RECIPES" env-default:"false"`
}
