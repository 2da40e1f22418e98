package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
)

const (
	msgSeedSkipped     = "seeding disabled"
	msgSeedDataPresent = "users or recipes already exist, demo data not loaded"
	msgSeedWiped       = "users and recipes collections wiped before seeding"
	msgSeedDone        = "demo data loaded"

	errCtxSeedCount = "counting existing data"
	errCtxSeedWipe  = "wiping existing data"
	errCtxSeedUser  = "seeding user"
	errCtxSeedRecip = "seeding recipe"
)

// SeedOptions управляет поведением Seeder.Run.
type SeedOptions struct {
	// Force очищает пользователей и рецепты перед загрузкой.
	Force bool
	// Skip отключает загрузку. Имеет приоритет над Force.
	Skip bool
}

// SeedReport описывает результат загрузки.
type SeedReport struct {
	Seeded  bool
	Users   int
	Recipes int
}

// DemoPassword - пароль демонстрационных пользователей.
const DemoPassword = "secret123"

type seedRecipe struct {
	nombre        string
	instrucciones string
	authorEmail   string
	ingredients   []entities.RawIngredient
}

func ing(nombre, cantidad, unidad string) entities.RawIngredient {
	return entities.RawIngredient{Nombre: nombre, Cantidad: &cantidad, Unidad: &unidad}
}

var demoUsers = []api.RegisterUserRequest{
	{Nombre: "Ana Gómez", Email: "ana@example.com", Password: DemoPassword},
	{Nombre: "Carlos Ruiz", Email: "carlos@example.com", Password: DemoPassword},
	{Nombre: "Laura M.", Email: "laura@example.com", Password: DemoPassword},
}

var demoRecipes = []seedRecipe{
	{
		nombre:        "Pollo al Horno",
		instrucciones: "Sazonar el pollo, hornear a 200°C por 45 min. Dejar reposar 5 min.",
		authorEmail:   "ana@example.com",
		ingredients: []entities.RawIngredient{
			ing("Pollo", "1", "unidad"),
			ing("Sal", "1", "cdita"),
			ing("Pimienta", "1", "cdita"),
			ing("Aceite de oliva", "2", "cdas"),
		},
	},
	{
		nombre:        "Ensalada Veggie",
		instrucciones: "Cortar, mezclar y aderezar. Servir fresca.",
		authorEmail:   "carlos@example.com",
		ingredients: []entities.RawIngredient{
			ing("Lechuga", "1", "unidad"),
			ing("Tomate", "2", "unidad"),
			ing("Aceite de oliva", "1", "cda"),
			ing("Limón", "1", "unidad"),
			ing("Sal", "1", "pizca"),
		},
	},
	{
		nombre:        "Pasta con Champiñones",
		instrucciones: "Saltear champiñones, hervir pasta, mezclar y servir con queso.",
		authorEmail:   "laura@example.com",
		ingredients: []entities.RawIngredient{
			ing("Pasta", "200", "g"),
			ing("Champiñones", "150", "g"),
			ing("Ajo", "2", "dientes"),
			ing("Aceite de oliva", "1", "cda"),
			ing("Sal", "1", "cdita"),
		},
	},
	{
		nombre:        "Arepas de Queso",
		instrucciones: "Mezclar harina con agua y sal, formar arepas, asar y agregar queso.",
		authorEmail:   "ana@example.com",
		ingredients: []entities.RawIngredient{
			ing("Harina de maíz", "2", "tazas"),
			ing("Agua", "1.5", "tazas"),
			ing("Sal", "1", "cdita"),
			ing("Queso mozzarella", "100", "g"),
		},
	},
}

// Seeder загружает демонстрационные данные. Записи проходят ту же валидацию, что и запросы клиентов.
type Seeder struct {
	users     repositories.UserRepository
	recipes   repositories.RecipeRepository
	userSvc   api.UserService
	recipeSvc api.RecipeService
}

// NewSeeder создает новый экземпляр Seeder.
func NewSeeder(
	users repositories.UserRepository,
	recipes repositories.RecipeRepository,
	userSvc api.UserService,
	recipeSvc api.RecipeService,
) *Seeder {
	return &Seeder{users: users, recipes: recipes, userSvc: userSvc, recipeSvc: recipeSvc}
}

// Run загружает данные. Без Force загрузка выполняется только в пустое хранилище.
func (s *Seeder) Run(ctx context.Context, opts SeedOptions) (*SeedReport, error) {
	log := logger.Log(ctx).With(zap.String("method", "Seed"), zap.Bool("force", opts.Force))

	if opts.Skip {
		log.Info(ctx, msgSeedSkipped)
		return &SeedReport{}, nil
	}

	if opts.Force {
		if err := s.recipes.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxSeedWipe, err)
		}
		if err := s.users.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxSeedWipe, err)
		}
		log.Warn(ctx, msgSeedWiped)
	} else {
		users, err := s.users.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxSeedCount, err)
		}
		recipes, err := s.recipes.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxSeedCount, err)
		}
		if users > 0 || recipes > 0 {
			log.Info(ctx, msgSeedDataPresent, zap.Int64("users", users), zap.Int64("recipes", recipes))
			return &SeedReport{}, nil
		}
	}

	report := &SeedReport{Seeded: true}
	authors := make(map[string]string, len(demoUsers))

	for _, u := range demoUsers {
		created, err := s.userSvc.Register(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", errCtxSeedUser, u.Email, err)
		}
		authors[created.Email] = created.ID
		report.Users++
	}

	for _, r := range demoRecipes {
		_, err := s.recipeSvc.Create(ctx, api.CreateRecipeRequest{
			Nombre:        r.nombre,
			Instrucciones: r.instrucciones,
			Autor:         authors[r.authorEmail],
			Ingredientes:  r.ingredients,
		})
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", errCtxSeedRecip, r.nombre, err)
		}
		report.Recipes++
	}

	log.Info(ctx, msgSeedDone, zap.Int("users", report.Users), zap.Int("recipes", report.Recipes))
	return report, nil
}
