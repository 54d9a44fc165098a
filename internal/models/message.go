package models

// Message — запись в логе комнаты в том виде, в котором она хранится.
// Поле Token сохраняется для аудита и никогда не отдаётся наружу.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timeStamp"`
	Token     string `json:"token,omitempty"`
}

// MessageView — публичное представление сообщения, без токена.
type MessageView struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timeStamp"`
}

func (m Message) Public() MessageView {
	return MessageView{
		ID:        m.ID,
		Sender:    m.Sender,
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
}
