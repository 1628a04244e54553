package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/shishobooks/cabinet/pkg/highlight"
	"github.com/shishobooks/cabinet/pkg/ranking"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/config.yaml"
)

// Config holds all server settings. Every field can be set in the YAML config
// file under its snake_case name, or through the environment variable with
// the same name in upper case. Environment variables win over the file.
type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`

	ServerHost string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort int    `koanf:"server_port" default:"3689"`

	JWTSecret string `koanf:"jwt_secret" required:"true"`

	// SearchWorkers is the size of the pool that runs batch search queries.
	SearchWorkers int `koanf:"search_workers" default:"4"`

	FolderCacheSize int           `koanf:"folder_cache_size" default:"256"`
	FolderCacheTTL  time.Duration `koanf:"folder_cache_ttl" default:"30s"`
	MaxFolderDepth  int           `koanf:"max_folder_depth" default:"64"`

	HighlightOpen  string `koanf:"highlight_open" default:"<mark>"`
	HighlightClose string `koanf:"highlight_close" default:"</mark>"`

	RankingWeightExactName     float64 `koanf:"ranking_weight_exact_name" default:"10"`
	RankingWeightNameSubstring float64 `koanf:"ranking_weight_name_substring" default:"5"`
	RankingWeightDescription   float64 `koanf:"ranking_weight_description" default:"3"`
	RankingWeightTag           float64 `koanf:"ranking_weight_tag" default:"2"`
}

// New loads the config from defaults, the config file, and the environment,
// in that order of increasing precedence.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.WithStack(err)
	}

	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a valid config backed by an in-memory database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

// RankingWeights returns the configured relevance weights.
func (cfg *Config) RankingWeights() ranking.Weights {
	return ranking.Weights{
		ExactName:     cfg.RankingWeightExactName,
		NameSubstring: cfg.RankingWeightNameSubstring,
		Description:   cfg.RankingWeightDescription,
		Tag:           cfg.RankingWeightTag,
	}
}

func (cfg *Config) validate() error {
	missing := []string{}
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" {
			continue
		}
		if v.Field(i).IsZero() {
			key := toSnakeCase(field.Name)
			missing = append(missing, strings.ToUpper(key)+" ("+key+")")
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if cfg.SearchWorkers < 1 {
		return errors.New("search_workers must be at least 1")
	}
	if cfg.FolderCacheSize < 1 {
		return errors.New("folder_cache_size must be at least 1")
	}
	if cfg.MaxFolderDepth < 1 {
		return errors.New("max_folder_depth must be at least 1")
	}
	if err := cfg.RankingWeights().Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := highlight.New(cfg.HighlightOpen, cfg.HighlightClose).Validate(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// toSnakeCase converts a field name to the key used in the config file.
func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
