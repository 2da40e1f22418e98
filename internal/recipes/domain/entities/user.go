// Package entities содержит сущности домена рецептов и правила их валидации.
package entities

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MinPasswordLength - минимальная длина пароля в символах.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User - автор рецептов.
type User struct {
	ID           string
	Nombre       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate содержит изменяемые поля пользователя. nil означает "не менять".
type UserUpdate struct {
	Nombre   *string
	Email    *string
	Password *string
}

// IsEmpty сообщает, что ни одно поле не передано.
func (u UserUpdate) IsEmpty() bool {
	return u.Nombre == nil && u.Email == nil && u.Password == nil
}

// NormalizeEmail приводит email к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат нормализованного email.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword проверяет минимальную длину пароля.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
