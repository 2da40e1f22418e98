// Package repositories описывает порты хранилища.
package repositories

import (
	"context"

	"recetario/internal/recipes/domain/entities"
)

// UserRepository определяет операции хранения пользователей.
// Отсутствующий пользователь сообщается через entities.ErrUserNotFound,
// занятый email - через entities.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	List(ctx context.Context) ([]*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)

	DeleteAll(ctx context.Context) error
}
