package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
	"recetario/pkg/logger"
)

const (
	msgCascadeDone      = "user deleted with recipes"
	msgErrCascadeFailed = "failed to delete user with recipes"

	errCtxDeletingUser    = "deleting user"
	errCtxDeletingRecipes = "deleting user recipes"
)

// Cascade удаляет пользователя вместе с его рецептами в одной области транзакции.
type Cascade struct {
	users   repositories.UserRepository
	recipes repositories.RecipeRepository
	tx      repositories.TxManager
}

// NewCascade создает новый экземпляр Cascade.
func NewCascade(users repositories.UserRepository, recipes repositories.RecipeRepository, tx repositories.TxManager) *Cascade {
	return &Cascade{users: users, recipes: recipes, tx: tx}
}

// DeleteUser удаляет рецепты пользователя, затем самого пользователя. Количество удаленных
// рецептов возвращается всегда, в том числе нулевое. Записи кэша, зарегистрированные через
// repositories.OnCommit, сбрасываются после фиксации.
func (c *Cascade) DeleteUser(ctx context.Context, userID string) (*entities.CascadeResult, error) {
	log := logger.Log(ctx).With(zap.String("method", "DeleteUser"), zap.String("userID", userID))

	txCtx, afterCommit := repositories.WithOnCommit(ctx)

	var removed int64
	err := c.tx.WithinTx(txCtx, func(ctx context.Context) error {
		n, err := c.recipes.DeleteByAuthor(ctx, userID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxDeletingRecipes, err)
		}
		removed = n

		if err := c.users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
		}
		return nil
	})
	if err != nil {
		log.Debug(ctx, msgErrCascadeFailed, zap.Error(err))
		return nil, err
	}
	afterCommit(ctx)

	log.Info(ctx, msgCascadeDone, zap.Int64("recipesRemoved", removed))
	return &entities.CascadeResult{Deleted: true, RecipesRemoved: removed}, nil
}
