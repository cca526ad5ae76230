// Package config loads blorders settings from blorders.yaml, a .env file and
// BLORDERS_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"blorders/internal/resolve"
	"blorders/internal/sku"
)

type Config struct {
	Drive           DriveConfig
	Scopes          ScopeConfig
	OutputDir       string
	RulesFile       string
	MaxDepth        int
	CacheDir        string
	CacheMaxAge     time.Duration
	Kafka           KafkaConfig
	MetricsTextfile string
	LogLevel        string
}

type DriveConfig struct {
	CredentialsFile  string // service account key; takes precedence over the user token
	TokenFile        string // saved OAuth token of the desktop flow
	ClientSecretFile string // OAuth client used with TokenFile
}

// ScopeConfig holds the Drive folder ids searched per product group and color.
type ScopeConfig struct {
	WhiteShirt         string
	BlackShirt         string
	BlackHalftoneShirt string
	WhiteCup           string
	BlackCup           string
	GoldCup            string
}

type KafkaConfig struct {
	Brokers     string
	TopicEvents string
	TopicRuns   string
}

// Load reads the configuration. path selects a config file explicitly; when
// empty, blorders.yaml is looked up in . and $HOME/.blorders and may be absent.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("blorders")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.blorders")
	}
	v.SetEnvPrefix("BLORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.dir", ".")
	v.SetDefault("resolve.max_depth", resolve.DefaultMaxDepth)
	v.SetDefault("drive.token_file", "token.json")
	v.SetDefault("drive.client_secret_file", "credentials.json")
	v.SetDefault("kafka.topic_events", "blorders.events")
	v.SetDefault("kafka.topic_runs", "blorders.runs")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Drive: DriveConfig{
			CredentialsFile:  v.GetString("drive.credentials_file"),
			TokenFile:        v.GetString("drive.token_file"),
			ClientSecretFile: v.GetString("drive.client_secret_file"),
		},
		Scopes: ScopeConfig{
			WhiteShirt:         v.GetString("scopes.white_shirt"),
			BlackShirt:         v.GetString("scopes.black_shirt"),
			BlackHalftoneShirt: v.GetString("scopes.black_halftone_shirt"),
			WhiteCup:           v.GetString("scopes.white_cup"),
			BlackCup:           v.GetString("scopes.black_cup"),
			GoldCup:            v.GetString("scopes.gold_cup"),
		},
		OutputDir:   v.GetString("output.dir"),
		RulesFile:   v.GetString("rules.file"),
		MaxDepth:    v.GetInt("resolve.max_depth"),
		CacheDir:    v.GetString("cache.dir"),
		CacheMaxAge: v.GetDuration("cache.max_age"),
		Kafka: KafkaConfig{
			Brokers:     v.GetString("kafka.brokers"),
			TopicEvents: v.GetString("kafka.topic_events"),
			TopicRuns:   v.GetString("kafka.topic_runs"),
		},
		MetricsTextfile: v.GetString("metrics.textfile"),
		LogLevel:        v.GetString("log.level"),
	}, nil
}

// Validate checks the settings a Drive backed run needs.
func (c *Config) Validate() error {
	var missing []string
	for key, id := range map[string]string{
		"scopes.white_shirt":          c.Scopes.WhiteShirt,
		"scopes.black_shirt":          c.Scopes.BlackShirt,
		"scopes.black_halftone_shirt": c.Scopes.BlackHalftoneShirt,
		"scopes.white_cup":            c.Scopes.WhiteCup,
		"scopes.black_cup":            c.Scopes.BlackCup,
		"scopes.gold_cup":             c.Scopes.GoldCup,
	} {
		if strings.TrimSpace(id) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("could not get drive folder ids: %s not set", strings.Join(missing, ", "))
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("resolve.max_depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// Table maps the folder ids to the resolver's scope keys.
func (s ScopeConfig) Table() resolve.Scopes {
	return resolve.Scopes{
		{Group: sku.GroupShirt, Color: sku.ColorWhite}:         s.WhiteShirt,
		{Group: sku.GroupShirt, Color: sku.ColorBlack}:         s.BlackShirt,
		{Group: sku.GroupShirt, Color: sku.ColorBlackHalftone}: s.BlackHalftoneShirt,
		{Group: sku.GroupCup, Color: sku.ColorWhite}:           s.WhiteCup,
		{Group: sku.GroupCup, Color: sku.ColorBlack}:           s.BlackCup,
		{Group: sku.GroupCup, Color: sku.ColorGold}:            s.GoldCup,
	}
}

// LocalTable is the scope table of a local mirror laid out by "blorders mirror":
// one sub-directory per scope, named after its config key.
func LocalTable() resolve.Scopes {
	return ScopeConfig{
		WhiteShirt:         "white_shirt",
		BlackShirt:         "black_shirt",
		BlackHalftoneShirt: "black_halftone_shirt",
		WhiteCup:           "white_cup",
		BlackCup:           "black_cup",
		GoldCup:            "gold_cup",
	}.Table()
}

// Rules returns the SKU rule table: the file named by rules.file, or the
// built-in table.
func (c *Config) Rules() (*sku.Rules, error) {
	if c.RulesFile == "" {
		return sku.DefaultRules()
	}
	return sku.LoadRules(c.RulesFile)
}
