package deck

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ygo/ydk-maker/internal/models"
)

// cardRegex accepts "3 Name", "3x Name", "3X Name", "x3 Name" and "X3 Name"
var cardRegex = regexp.MustCompile(`^(?:\s*(\d+)[xX]?\s*|\s*[xX](\d+)\s*)(.+)$`)

// Parser turns deck-list text into deck records
type Parser struct {
	logger *logrus.Logger
}

// NewParser creates a new deck-list parser
func NewParser(logger *logrus.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// Parse splits text into records. Section headers switch the current
// section, anything that is not a card line is skipped.
func (p *Parser) Parse(text string) []models.DeckRecord {
	var records []models.DeckRecord
	current := models.Main

	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, ok := parseHeader(line); ok {
			current = section
			continue
		}

		matches := cardRegex.FindStringSubmatch(line)
		if matches == nil {
			p.logger.Debugf("Skipping line %d: %q", n+1, line)
			continue
		}

		digits := matches[1]
		if digits == "" {
			digits = matches[2]
		}
		quantity, err := strconv.Atoi(digits)
		if err != nil || quantity <= 0 {
			p.logger.Debugf("Skipping line %d: invalid quantity %q", n+1, digits)
			continue
		}

		records = append(records, models.DeckRecord{
			Section:  current,
			Quantity: quantity,
			CardName: strings.TrimSpace(matches[3]),
		})
	}

	p.logger.Debugf("Parsed %d deck records", len(records))
	return records
}

// parseHeader recognizes #main, #extra and #side in any case
func parseHeader(line string) (models.Section, bool) {
	switch strings.ToLower(line) {
	case "#main":
		return models.Main, true
	case "#extra":
		return models.Extra, true
	case "#side":
		return models.Side, true
	}
	return models.Main, false
}
