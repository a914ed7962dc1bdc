package deck

import (
	"time"

	"github.com/google/uuid"
	"github.com/ygo/ydk-maker/internal/models"
)

const (
	EventTypeConverted = "deck.converted"
	EventSource        = "ydk-maker"
	EventVersion       = "v1"
)

// CreateDeckEvent creates a Kafka event for a written deck file
func CreateDeckEvent(path, format string, deck models.Deck, summary Summary) models.DeckEvent {
	return models.DeckEvent{
		KafkaEvent: models.KafkaEvent{
			EventType: EventTypeConverted,
			EventID:   uuid.New().String(),
			Timestamp: time.Now(),
			Source:    EventSource,
			Version:   EventVersion,
		},
		Data: models.ConvertedDeck{
			Path:       path,
			Format:     format,
			Deck:       deck,
			Records:    summary.Records,
			Resolved:   summary.Resolved,
			NotFound:   summary.NotFound,
			Failed:     summary.Failed,
			TotalCards: summary.TotalCards,
		},
	}
}
