package models

// Схема ключей комнаты в хранилище. Все зависимые ключи живут не дольше
// метаданных: их срок жизни подтягивается координатором TTL.

func MetaKey(roomID string) string { return "meta:" + roomID }

func MessagesKey(roomID string) string { return "messages:" + roomID }

func HistoryKey(roomID string) string { return "history:" + roomID }
