package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ygo/ydk-maker/internal/config"
	"github.com/ygo/ydk-maker/internal/deck"
	"github.com/ygo/ydk-maker/internal/models"
	"github.com/ygo/ydk-maker/internal/ydk"
)

type fakePublisher struct {
	events []models.DeckEvent
	err    error
}

func (f *fakePublisher) PublishDeck(event models.DeckEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Flush(timeoutMs int) int { return 0 }

// newCardServer answers cardinfo lookups from ids, anything else is a 400
func newCardServer(t *testing.T, ids map[string]string) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		id, ok := ids[r.URL.Query().Get("name")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"No card matching your query was found in the database."}`))
			return
		}
		w.Write([]byte(`{"data":[{"id":` + id + `}]}`))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App:        config.AppConfig{LogLevel: "info", LogFormat: "text"},
		YGOProDeck: config.YGOProDeckConfig{BaseURL: baseURL},
		Deck:       config.DeckConfig{Extension: ".ydk", Sentinel: "done"},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRun_WritesDeckFile(t *testing.T) {
	server, requests := newCardServer(t, map[string]string{
		"Pot of Greed":   "55144522",
		"Monster Reborn": "83764719",
	})
	dir := t.TempDir()
	input := "\n#main\n1x Pot of Greed\n#extra\n2 Monster Reborn\nDONE\n" + filepath.Join(dir, "MyDeck") + "\n"
	var out bytes.Buffer

	err := run(context.Background(), testConfig(server.URL), testLogger(), nil, strings.NewReader(input), &out)
	require.NoError(t, err)

	path := filepath.Join(dir, "MyDeck.ydk")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#main\n55144522\n\n#extra\n83764719\n83764719\n", string(data))
	assert.NotContains(t, string(data), "!side")
	assert.Equal(t, 2, *requests)
	assert.Contains(t, out.String(), "YDK file created at: "+path)
}

func TestRun_SkipsUnknownCards(t *testing.T) {
	server, _ := newCardServer(t, map[string]string{"Sangan": "26202165"})
	dir := t.TempDir()
	input := "TCG\n3 Not A Real Card\n2x Sangan\n#side\nx1 Sangan\ndone\n" + filepath.Join(dir, "goat.ydk") + "\n"

	err := run(context.Background(), testConfig(server.URL), testLogger(), nil, strings.NewReader(input), io.Discard)
	require.NoError(t, err)

	got, err := ydk.ReadFile(filepath.Join(dir, "goat.ydk"))
	require.NoError(t, err)
	assert.Equal(t, models.Deck{
		Main: []string{"26202165", "26202165"},
		Side: []string{"26202165"},
	}, got)
}

func TestRun_PublishesEvent(t *testing.T) {
	server, _ := newCardServer(t, map[string]string{"Sangan": "26202165"})
	dir := t.TempDir()
	input := "\n1 Sangan\ndone\n" + filepath.Join(dir, "deck") + "\n"
	pub := &fakePublisher{}

	err := run(context.Background(), testConfig(server.URL), testLogger(), pub, strings.NewReader(input), io.Discard)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, deck.EventTypeConverted, pub.events[0].EventType)
	assert.Equal(t, filepath.Join(dir, "deck.ydk"), pub.events[0].Data.Path)
	assert.Equal(t, []string{"26202165"}, pub.events[0].Data.Deck.Main)
}

func TestRun_PublishFailureIsNotFatal(t *testing.T) {
	server, _ := newCardServer(t, map[string]string{"Sangan": "26202165"})
	dir := t.TempDir()
	input := "\n1 Sangan\ndone\n" + filepath.Join(dir, "deck") + "\n"
	pub := &fakePublisher{err: errors.New("broker down")}

	err := run(context.Background(), testConfig(server.URL), testLogger(), pub, strings.NewReader(input), io.Discard)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "deck.ydk"))
	assert.NoError(t, err)
}

func TestRun_WriteFailure(t *testing.T) {
	server, _ := newCardServer(t, map[string]string{"Sangan": "26202165"})
	input := "\n1 Sangan\ndone\n" + filepath.Join(t.TempDir(), "missing", "deck") + "\n"

	err := run(context.Background(), testConfig(server.URL), testLogger(), nil, strings.NewReader(input), io.Discard)
	assert.Error(t, err)
}

func TestRun_AbortOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := testConfig(url)
	cfg.Lookup.AbortOnTransportError = true
	dir := t.TempDir()
	input := "\n1 Sangan\ndone\n" + filepath.Join(dir, "deck") + "\n"

	err := run(context.Background(), cfg, testLogger(), nil, strings.NewReader(input), io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, deck.ErrLookupAborted))

	_, statErr := os.Stat(filepath.Join(dir, "deck.ydk"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(config.AppConfig{LogLevel: "warn", LogFormat: "json"}, &buf)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	logger = newLogger(config.AppConfig{LogLevel: "bogus"}, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
