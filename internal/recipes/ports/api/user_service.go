// Package api описывает операции, которые сервис предоставляет транспортному слою.
package api

import (
	"context"

	"recetario/internal/recipes/domain/entities"
)

// RegisterUserRequest содержит данные регистрации.
type RegisterUserRequest struct {
	Nombre   string
	Email    string
	Password string
}

// UserService определяет операции над пользователями.
type UserService interface {
	Register(ctx context.Context, req RegisterUserRequest) (*entities.User, error)

	List(ctx context.Context) ([]*entities.User, error)

	Get(ctx context.Context, id string) (*entities.User, error)

	Update(ctx context.Context, id string, update entities.UserUpdate) (*entities.User, error)

	// Delete удаляет пользователя вместе с его рецептами.
	Delete(ctx context.Context, id string) (*entities.CascadeResult, error)

	ListRecipes(ctx context.Context, id string) ([]*entities.Recipe, error)
}
