package deck

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ygo/ydk-maker/internal/models"
)

// ErrLookupAborted is returned when a transport failure stops the conversion
var ErrLookupAborted = errors.New("card lookup aborted")

// Resolver maps a card name, optionally restricted to a format, to its identifier
type Resolver interface {
	Resolve(ctx context.Context, name, format string) models.LookupResult
}

// Summary counts what happened to the records of one conversion
type Summary struct {
	Records    int
	Resolved   int
	NotFound   int
	Failed     int
	TotalCards int
}

// Converter resolves parsed records into a deck
type Converter struct {
	resolver         Resolver
	logger           *logrus.Logger
	abortOnTransport bool
}

// ConverterOption configures a Converter
type ConverterOption func(*Converter)

// WithAbortOnTransportError makes transport failures fatal instead of skipping the record
func WithAbortOnTransportError(abort bool) ConverterOption {
	return func(c *Converter) {
		c.abortOnTransport = abort
	}
}

// NewConverter creates a new converter backed by resolver
func NewConverter(resolver Resolver, logger *logrus.Logger, opts ...ConverterOption) *Converter {
	c := &Converter{
		resolver: resolver,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert resolves every record in order. Unresolved records are dropped;
// a resolved record adds its identifier Quantity times to its section.
func (c *Converter) Convert(ctx context.Context, records []models.DeckRecord, format string) (models.Deck, Summary, error) {
	var deck models.Deck
	summary := Summary{Records: len(records)}

	for _, record := range records {
		result := c.resolver.Resolve(ctx, record.CardName, format)
		log := c.logger.WithFields(logrus.Fields{
			"card":    record.CardName,
			"format":  format,
			"section": record.Section.String(),
			"status":  result.Status.String(),
		})

		switch result.Status {
		case models.Resolved:
			deck.Add(record.Section, result.Identifier, record.Quantity)
			summary.Resolved++
		case models.NotFound:
			summary.NotFound++
			if format != "" {
				log.WithError(result.Err).Warnf("Card '%s' not found or not legal in format '%s'", record.CardName, format)
			} else {
				log.WithError(result.Err).Warnf("Card '%s' not found", record.CardName)
			}
		default:
			summary.Failed++
			if c.abortOnTransport {
				return deck, summary, fmt.Errorf("%w: %s: %v", ErrLookupAborted, record.CardName, result.Err)
			}
			log.WithError(result.Err).Errorf("Error fetching ID for '%s'", record.CardName)
		}
	}

	summary.TotalCards = deck.Total()
	c.logger.Infof("Converted deck: %d/%d records resolved, %d cards (main %d, extra %d, side %d)",
		summary.Resolved, summary.Records, summary.TotalCards, len(deck.Main), len(deck.Extra), len(deck.Side))

	return deck, summary, nil
}
