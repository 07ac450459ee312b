package models

import "time"

// Message is a contact-form inbox entry.
type Message struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
	Read   bool      `json:"read"`
}
