package entities

import (
	"errors"
	"fmt"
)

// Виды ошибок домена. Конкретные ошибки разворачиваются в один из них.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// DomainError - ошибка с сообщением для клиента и видом для сопоставления через errors.Is.
type DomainError struct {
	kind error
	msg  string
}

// Error возвращает сообщение для клиента.
func (e *DomainError) Error() string {
	return e.msg
}

// Unwrap возвращает вид ошибки.
func (e *DomainError) Unwrap() error {
	return e.kind
}

// NewValidationError создает ошибку валидации.
func NewValidationError(format string, args ...any) error {
	return &DomainError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NewNotFoundError создает ошибку отсутствующей сущности.
func NewNotFoundError(format string, args ...any) error {
	return &DomainError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// NewConflictError создает ошибку конфликта.
func NewConflictError(format string, args ...any) error {
	return &DomainError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Ошибки домена.
var (
	ErrInvalidID = NewValidationError("ID inválido")

	ErrUserFieldsRequired = NewValidationError("nombre, email y password son requeridos")
	ErrInvalidEmail       = NewValidationError("Email inválido")
	ErrPasswordTooShort   = NewValidationError("La contraseña debe tener al menos %d caracteres", MinPasswordLength)
	ErrPasswordTooLong    = NewValidationError("La contraseña es demasiado larga")
	ErrUserNotFound       = NewNotFoundError("Usuario no encontrado")
	ErrEmailTaken         = NewConflictError("El email ya está registrado")

	ErrRecipeFieldsRequired   = NewValidationError("nombre, instrucciones y autor son requeridos")
	ErrIngredientsRequired    = NewValidationError("Debes incluir al menos un ingrediente")
	ErrNoIngredientsSent      = NewValidationError("Debes enviar ingredientes")
	ErrIngredientNameRequired = NewValidationError("El nombre del ingrediente es requerido")
	ErrInvalidAuthor          = NewValidationError("autor inválido")
	ErrSearchQueryRequired    = NewValidationError(`Falta query "ingrediente"`)
	ErrLastIngredient         = NewValidationError("La receta debe conservar al menos un ingrediente")
	ErrRecipeNotFound         = NewNotFoundError("Receta no encontrada")
	ErrAuthorNotFound         = NewNotFoundError("Autor no encontrado")
)

// ErrEmptyField возвращает ошибку валидации для переданного пустым поля.
func ErrEmptyField(field string) error {
	return NewValidationError("%s no puede estar vacío", field)
}
