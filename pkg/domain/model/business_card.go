package model

import (
	"time"

	"github.com/google/uuid"
)

// CardID is a UUID-based identifier for a BusinessCard
type CardID string

// NewCardID generates a new UUID v4 CardID
func NewCardID() CardID {
	return CardID(uuid.New().String())
}

// String returns the string representation of the card ID
func (id CardID) String() string {
	return string(id)
}

// BusinessCard holds contact fields extracted from a photographed card via
// OCR, together with the raw detected text and the original image. It has no
// relationship to Note.
type BusinessCard struct {
	ID          CardID    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company"`
	Role        string    `json:"role"`
	RawText     string    `json:"rawText,omitempty"`
	ImageData   string    `json:"imageData,omitempty"` // data URL of the captured image
	ProcessedAt time.Time `json:"processedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
