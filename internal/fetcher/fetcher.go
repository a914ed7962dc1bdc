package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ygo/ydk-maker/internal/models"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://db.ygoprodeck.com/api/v7/cardinfo.php"
	DefaultUserAgent = "ydk-maker/1.0"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 20
)

// ErrNoMatch is reported when the service answers without a usable card
var ErrNoMatch = errors.New("no matching card")

// Config holds the lookup client settings. RateLimit is in requests per
// second; zero disables pacing.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	RateLimit float64
	Logger    *logrus.Logger
}

// YGOProDeckFetcher resolves card names against the YGOProDeck cardinfo endpoint
type YGOProDeckFetcher struct {
	logger    *logrus.Logger
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
}

// cardInfoResponse is the subset of the cardinfo payload we need
type cardInfoResponse struct {
	Data  []cardInfo `json:"data"`
	Error string     `json:"error"`
}

type cardInfo struct {
	ID   *json.Number `json:"id"`
	Name string       `json:"name"`
}

func NewYGOProDeckFetcher(config Config) *YGOProDeckFetcher {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	f := &YGOProDeckFetcher{
		logger:    config.Logger,
		client:    &http.Client{Timeout: config.Timeout},
		baseURL:   config.BaseURL,
		userAgent: config.UserAgent,
	}
	if config.RateLimit > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	return f
}

// Resolve looks up a single card name, optionally restricted to a format.
// Every call performs a fresh request.
func (f *YGOProDeckFetcher) Resolve(ctx context.Context, name, format string) models.LookupResult {
	log := f.logger.WithFields(logrus.Fields{"card": name, "format": format})

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return transportError(fmt.Errorf("rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.lookupURL(name, format), nil)
	if err != nil {
		return transportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	log.Debugf("Looking up card at %s", req.URL)
	resp, err := f.client.Do(req)
	if err != nil {
		return transportError(fmt.Errorf("failed to fetch card: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(fmt.Errorf("failed to read response: %w", err))
	}

	var payload cardInfoResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && payload.Error != "" {
			return notFound(fmt.Errorf("%w: status %d: %s", ErrNoMatch, resp.StatusCode, payload.Error))
		}
		return notFound(fmt.Errorf("%w: unexpected status code: %d", ErrNoMatch, resp.StatusCode))
	}
	if decodeErr != nil {
		return notFound(fmt.Errorf("%w: failed to unmarshal JSON: %v", ErrNoMatch, decodeErr))
	}
	if len(payload.Data) == 0 {
		return notFound(fmt.Errorf("%w: empty result set", ErrNoMatch))
	}

	id, err := formatID(payload.Data[0].ID)
	if err != nil {
		return notFound(fmt.Errorf("%w: %v", ErrNoMatch, err))
	}

	log.Debugf("Resolved card to %s", id)
	return models.LookupResult{Status: models.Resolved, Identifier: id}
}

func (f *YGOProDeckFetcher) lookupURL(name, format string) string {
	query := url.Values{}
	query.Set("name", name)
	if format != "" {
		query.Set("format", format)
	}
	return fmt.Sprintf("%s?%s", f.baseURL, query.Encode())
}

// formatID renders the numeric card id in base 10
func formatID(id *json.Number) (string, error) {
	if id == nil {
		return "", fmt.Errorf("missing card id")
	}
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid card id %q", id.String())
	}
	return strconv.FormatInt(n, 10), nil
}

func notFound(err error) models.LookupResult {
	return models.LookupResult{Status: models.NotFound, Err: err}
}

func transportError(err error) models.LookupResult {
	return models.LookupResult{Status: models.TransportError, Err: err}
}
