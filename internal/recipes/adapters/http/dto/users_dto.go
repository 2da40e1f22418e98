package dto

import (
	"time"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
)

// RegisterUserRequest содержит данные для регистрации пользователя.
type RegisterUserRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToAPI преобразует запрос в модель сервиса.
func (r RegisterUserRequest) ToAPI() api.RegisterUserRequest {
	return api.RegisterUserRequest{
		Nombre:   r.Nombre,
		Email:    r.Email,
		Password: r.Password,
	}
}

// UpdateUserRequest содержит изменяемые поля пользователя.
type UpdateUserRequest struct {
	Nombre   *string `json:"nombre"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// ToEntity преобразует запрос в entities.UserUpdate.
func (r UpdateUserRequest) ToEntity() entities.UserUpdate {
	return entities.UserUpdate{
		Nombre:   r.Nombre,
		Email:    r.Email,
		Password: r.Password,
	}
}

// User представляет пользователя в ответе. Хеш пароля не передается.
type User struct {
	ID        string    `json:"_id"`
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser формирует ответ из сущности.
func NewUser(u *entities.User) User {
	return User{
		ID:        u.ID,
		Nombre:    u.Nombre,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUsers формирует список пользователей.
func NewUsers(users []*entities.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, NewUser(u))
	}
	return out
}

// DeleteUserResponse - ответ на удаление пользователя.
type DeleteUserResponse struct {
	Mensaje           string `json:"mensaje"`
	RecetasEliminadas int64  `json:"recetasEliminadas"`
}

// MessageResponse - ответ с сообщением.
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}

// ErrorResponse - тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}
