package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ygo/ydk-maker/internal/config"
	"github.com/ygo/ydk-maker/internal/console"
	"github.com/ygo/ydk-maker/internal/deck"
	"github.com/ygo/ydk-maker/internal/fetcher"
	"github.com/ygo/ydk-maker/internal/kafka"
	"github.com/ygo/ydk-maker/internal/models"
	"github.com/ygo/ydk-maker/internal/ydk"
)

// publisher is the part of the Kafka producer the run needs
type publisher interface {
	PublishDeck(event models.DeckEvent) error
	Flush(timeoutMs int) int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, logOut io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ydkmaker",
		Short: "Convert a typed deck list into a YDK deck file",
		Long: `ydkmaker reads a deck list such as "3x Ash Blossom & Joyous Spring"
grouped under #main, #extra and #side headers, resolves every card name to its
identifier through the YGOProDeck API and writes the result as a .ydk file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.App, logOut)

			var pub publisher
			if cfg.Kafka.Enabled {
				producer, err := kafka.NewProducer(kafka.ProducerConfig{
					Brokers: cfg.Kafka.Brokers,
					Topic:   cfg.Kafka.Topic,
					Logger:  logger,
				})
				if err != nil {
					logger.Errorf("Failed to create Kafka producer: %v", err)
				} else {
					defer producer.Close()
					pub = producer
				}
			}

			return run(cmd.Context(), cfg, logger, pub, in, out)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

func newLogger(cfg config.AppConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, pub publisher, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	session := console.NewSession(in, out, cfg.Deck.Sentinel, cfg.Deck.Extension)

	format, err := session.AskFormat()
	if err != nil {
		return err
	}
	text, err := session.ReadDeckList()
	if err != nil {
		return err
	}
	name, err := session.AskFileName()
	if err != nil {
		return err
	}

	records := deck.NewParser(logger).Parse(text)
	logger.Infof("Parsed %d card lines", len(records))

	resolver := fetcher.NewYGOProDeckFetcher(fetcher.Config{
		BaseURL:   cfg.YGOProDeck.BaseURL,
		UserAgent: cfg.YGOProDeck.UserAgent,
		Timeout:   cfg.YGOProDeck.Timeout,
		RateLimit: cfg.YGOProDeck.RateLimit,
		Logger:    logger,
	})
	converter := deck.NewConverter(resolver, logger,
		deck.WithAbortOnTransportError(cfg.Lookup.AbortOnTransportError))

	result, summary, err := converter.Convert(ctx, records, format)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}
	if err := ydk.WriteFile(path, result); err != nil {
		return err
	}

	if pub != nil {
		event := deck.CreateDeckEvent(path, format, result, summary)
		if err := pub.PublishDeck(event); err != nil {
			logger.Errorf("Failed to publish deck event: %v", err)
		} else if remaining := pub.Flush(15 * 1000); remaining > 0 {
			logger.Warnf("%d messages were not delivered", remaining)
		}
	}

	session.Done(path)
	return nil
}
