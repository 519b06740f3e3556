// Package config loads the application configuration from a yaml file with
// environment-variable overrides, through koanf.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath      = "."
	envPrefix        = "HYPERSTREAM_"
	defaultBodyLimit = "16K"
)

// Config is the root configuration of the service.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port       int    `json:"port" yaml:"port"`
		CORSOrigin string `json:"corsOrigin" yaml:"corsOrigin"`
		BodyLimit  string `json:"bodyLimit" yaml:"bodyLimit"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	TokenTTL struct {
		Access  time.Duration `json:"access" yaml:"access"`
		Refresh time.Duration `json:"refresh" yaml:"refresh"`
	} `json:"tokenTTL" yaml:"tokenTTL"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	GoogleOAuth   *OAuthProviderConfig `json:"googleOAuth" yaml:"googleOAuth"`
	FacebookOAuth *OAuthProviderConfig `json:"facebookOAuth" yaml:"facebookOAuth"`

	SMTP *SMTPConfig `json:"smtp" yaml:"smtp"`

	Storage *StorageConfig `json:"storage" yaml:"storage"`

	Frontend struct {
		BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	} `json:"frontend" yaml:"frontend"`
}

// PostgresConfig carries the database connection settings.
type PostgresConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	User            string        `json:"user" yaml:"user"`
	Password        string        `json:"password" yaml:"password"`
	DBName          string        `json:"dbName" yaml:"dbName"`
	SSLMode         string        `json:"sslMode" yaml:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`

	// StrictRefreshRotation turns the refresh-token overwrite into a
	// compare-and-swap, so a concurrent rotation for the same user fails
	// instead of silently winning. Off by default.
	StrictRefreshRotation bool `json:"strictRefreshRotation" yaml:"strictRefreshRotation"`
}

// OAuthProviderConfig carries the client credentials for one OAuth provider.
type OAuthProviderConfig struct {
	ClientID     string `json:"clientId" yaml:"clientId"`
	ClientSecret string `json:"clientSecret" yaml:"clientSecret"`
	CallbackURL  string `json:"callbackUrl" yaml:"callbackUrl"`
}

// SMTPConfig carries the outbound mail transport settings.
type SMTPConfig struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	FromName  string `json:"fromName" yaml:"fromName"`
	FromEmail string `json:"fromEmail" yaml:"fromEmail"`
}

// StorageConfig carries the upload bucket settings. BucketURL is a gocloud
// driver URL, e.g. "file:///var/hyperstream/uploads" or "s3://bucket?region=...".
type StorageConfig struct {
	BucketURL     string `json:"bucketUrl" yaml:"bucketUrl"`
	MaxUploadSize int64  `json:"maxUploadSize" yaml:"maxUploadSize"`
}

// Log carries logger settings.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads <name>.yaml through koanf, then applies
// HYPERSTREAM_-prefixed environment overrides.
func LoadWithEnv[T any](name string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, name+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", name)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", name)
	}

	// HYPERSTREAM_SECRETKEY_ACCESS overrides secretKey.access, etc.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ToLower(strings.TrimPrefix(k, envPrefix))

			return strings.ReplaceAll(key, "_", "."), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", name)
	}

	return cfg, nil
}

// New loads the service configuration and applies defaults and validation.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.BodyLimit) == "" {
		cfg.HTTP.BodyLimit = defaultBodyLimit
	}
	if cfg.TokenTTL.Access == 0 {
		cfg.TokenTTL.Access = 15 * time.Minute
	}
	if cfg.TokenTTL.Refresh == 0 {
		cfg.TokenTTL.Refresh = 7 * 24 * time.Hour
	}

	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("secretKey.access and secretKey.refresh must be provided")
	}
	if cfg.Postgres == nil {
		return nil, errors.New("postgres configuration must be provided")
	}

	return cfg, nil
}
