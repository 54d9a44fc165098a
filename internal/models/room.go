package models

import (
	"encoding/json"
	"strings"
)

// RoomMeta — метаданные комнаты из hash-записи meta:<roomId>.
type RoomMeta struct {
	Connected []string
	CreatedAt int64
}

// DecodeTokenSet разбирает поле connected из метаданных комнаты.
// Исторически поле встречается в нескольких видах: пустая строка,
// "[]" или JSON-массив. Любое нечитаемое значение трактуется как
// пустой набор, ошибка возвращается только для диагностики.
func DecodeTokenSet(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "[]" {
		return []string{}, nil
	}

	var tokens []string
	if err := json.Unmarshal([]byte(trimmed), &tokens); err != nil {
		return []string{}, err
	}
	return tokens, nil
}

// EncodeTokenSet сериализует набор токенов в каноничный вид (JSON-массив).
func EncodeTokenSet(tokens []string) string {
	if len(tokens) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return "[]"
	}
	return string(data)
}
