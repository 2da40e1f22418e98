// Package dto содержит схемы запросов и ответов HTTP API.
package dto

import (
	"bytes"
	"errors"
	"strings"

	json "github.com/goccy/go-json"
)

var errUnsupportedText = errors.New("value must be a string or a number")

// FlexString принимает строку, число или логическое значение и хранит его как текст.
// null и отсутствующее поле дают nil.
type FlexString struct {
	Value *string
}

// UnmarshalJSON реализует json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Value = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Value = &s
	case '{', '[':
		return errUnsupportedText
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			s := n.String()
			f.Value = &s
			return nil
		}
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return errUnsupportedText
		}
		s := "false"
		if b {
			s = "true"
		}
		f.Value = &s
	}
	return nil
}

// IngredientList принимает как один объект ингредиента, так и массив.
type IngredientList []IngredientInput

// UnmarshalJSON реализует json.Unmarshaler.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "" || trimmed == "null":
		*l = nil
		return nil
	case strings.HasPrefix(trimmed, "["):
		var items []IngredientInput
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		var item IngredientInput
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*l = IngredientList{item}
		return nil
	}
}
