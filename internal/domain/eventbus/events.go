package eventbus

import "time"

// Topics published by the domain services.
const (
	EventTokenIssued     = "auth:token_issued"
	EventDeckGenerated   = "flashcards:deck_generated"
	EventSearchCompleted = "catalog:search_completed"
)

// TokenIssuedData accompanies auth:token_issued.
type TokenIssuedData struct {
	DeviceID string    `json:"device_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// DeckGeneratedData accompanies flashcards:deck_generated.
type DeckGeneratedData struct {
	DeckID    string `json:"deck_id"`
	DeviceID  string `json:"device_id"`
	Topic     string `json:"topic"`
	Provider  string `json:"provider"`
	CardCount int    `json:"card_count"`
}

// SearchCompletedData accompanies catalog:search_completed.
type SearchCompletedData struct {
	DeviceID string `json:"device_id"`
	Artist   string `json:"artist"`
	Results  int    `json:"results"`
}
