package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Message is a single chat line between two users. DepartureDate is the
// send instant in unix seconds; Declaim marks the message as read by the
// receiver.
type Message struct {
	MessageID     int64  `db:"message_id"`
	SenderID      int    `db:"sender_id"`
	ReceiverID    int    `db:"receiver_id"`
	Text          string `db:"text"`
	DepartureDate int64  `db:"departure_date"`
	Declaim       bool   `db:"declaim"`
}

// MessageDto is the send request body.
type MessageDto struct {
	UserID int    `json:"receiverId"`
	Text   string `json:"text"`
}

func (d MessageDto) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.UserID,
			validation.Required.Error("Получатель не указан"),
			validation.Min(1).Error("Получатель не указан")),
		validation.Field(&d.Text,
			validation.Required.Error("Сообщение не может быть пустым"),
			validation.Length(1, 2000).Error("Сообщение слишком длинное")),
	)
}

// MessageResponse is a message rendered for a reader in a given time zone.
type MessageResponse struct {
	MessageID int64  `json:"messageId"`
	UserID    int    `json:"userId"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Declaim   bool   `json:"declaim"`
}

// ToResponse formats the message for a reader offset zone hours from UTC.
func (m *Message) ToResponse(zone int) MessageResponse {
	loc := time.FixedZone("", zone*3600)
	return MessageResponse{
		MessageID: m.MessageID,
		UserID:    m.SenderID,
		Text:      m.Text,
		Date:      time.Unix(m.DepartureDate, 0).In(loc).Format("2006-01-02 15:04"),
		Declaim:   m.Declaim,
	}
}
