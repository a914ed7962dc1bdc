package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/ygo/ydk-maker/internal/fetcher"
	"github.com/ygo/ydk-maker/internal/ydk"
)

const EnvPrefix = "YDK"

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	YGOProDeck YGOProDeckConfig `mapstructure:"ygoprodeck"`
	Lookup     LookupConfig     `mapstructure:"lookup"`
	Deck       DeckConfig       `mapstructure:"deck"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
}

type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type YGOProDeckConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	UserAgent string        `mapstructure:"user_agent"`
}

type LookupConfig struct {
	AbortOnTransportError bool `mapstructure:"abort_on_transport_error"`
}

type DeckConfig struct {
	Extension string `mapstructure:"extension"`
	Sentinel  string `mapstructure:"sentinel"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// Load reads configuration from path, or from config.yaml in ./configs or
// the working directory when path is empty. A missing search-path config is
// not an error; environment variables prefixed YDK_ override any value.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("ygoprodeck.base_url", fetcher.DefaultBaseURL)
	v.SetDefault("ygoprodeck.timeout", fetcher.DefaultTimeout)
	v.SetDefault("ygoprodeck.rate_limit", fetcher.DefaultRateLimit)
	v.SetDefault("ygoprodeck.user_agent", fetcher.DefaultUserAgent)

	v.SetDefault("lookup.abort_on_transport_error", false)

	v.SetDefault("deck.extension", ydk.DefaultExtension)
	v.SetDefault("deck.sentinel", "done")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "ydk.decks")
}
