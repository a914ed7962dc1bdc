package models

import (
	"fmt"
	"time"
)

// Section identifies which part of a deck a card belongs to
type Section int

const (
	Main Section = iota
	Extra
	Side
)

func (s Section) String() string {
	switch s {
	case Main:
		return "main"
	case Extra:
		return "extra"
	case Side:
		return "side"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// DeckRecord is a single parsed deck-list line
type DeckRecord struct {
	Section  Section `json:"section"`
	Quantity int     `json:"quantity"`
	CardName string  `json:"card_name"`
}

// Deck holds resolved card identifiers per section in input order
type Deck struct {
	Main  []string `json:"main"`
	Extra []string `json:"extra"`
	Side  []string `json:"side"`
}

// Add appends id to the given section n times
func (d *Deck) Add(section Section, id string, n int) {
	for i := 0; i < n; i++ {
		switch section {
		case Extra:
			d.Extra = append(d.Extra, id)
		case Side:
			d.Side = append(d.Side, id)
		default:
			d.Main = append(d.Main, id)
		}
	}
}

// Total returns the number of identifiers across all sections
func (d Deck) Total() int {
	return len(d.Main) + len(d.Extra) + len(d.Side)
}

// LookupStatus is the outcome kind of a card lookup
type LookupStatus int

const (
	Resolved LookupStatus = iota
	NotFound
	TransportError
)

func (s LookupStatus) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case TransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// LookupResult is what a resolver returns for one card name
type LookupResult struct {
	Status     LookupStatus
	Identifier string
	Err        error
}

// KafkaEvent represents an event to be published to Kafka
type KafkaEvent struct {
	EventType string    `json:"eventType"`
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// ConvertedDeck is the payload of a deck.converted event
type ConvertedDeck struct {
	Path       string `json:"path"`
	Format     string `json:"format,omitempty"`
	Deck       Deck   `json:"deck"`
	Records    int    `json:"records"`
	Resolved   int    `json:"resolved"`
	NotFound   int    `json:"not_found"`
	Failed     int    `json:"failed"`
	TotalCards int    `json:"total_cards"`
}

// DeckEvent is a Kafka event for a converted deck
type DeckEvent struct {
	KafkaEvent
	Data ConvertedDeck `json:"data"`
}
