package entities

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID генерирует идентификатор из 24 шестнадцатеричных символов.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID проверяет синтаксис идентификатора и возвращает его в нижнем регистре.
func ParseID(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidID
	}
	return oid.Hex(), nil
}

// IsValidID сообщает, является ли строка допустимым идентификатором.
func IsValidID(id string) bool {
	_, err := ParseID(id)
	return err == nil
}
