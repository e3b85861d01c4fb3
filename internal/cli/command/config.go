package command

import (
	"github.com/urfave/cli/v2"

	"github.com/flatkv/flatkv-go/internal/infra/confloader"
	"github.com/flatkv/flatkv-go/internal/telemetry/logger"
	"github.com/flatkv/flatkv-go/pkg/store"
)

// Config is the merged CLI configuration.
type Config struct {
	Store struct {
		Dir      string `koanf:"dir"`
		Filename string `koanf:"filename"`
		Encrypt  bool   `koanf:"encrypt"`
		Salt     string `koanf:"salt"`
	} `koanf:"store"`
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
}

// loadConfig merges configuration sources: defaults, then the YAML
// file, then FLATKV_* environment variables, then explicit flags.
func loadConfig(c *cli.Context) (*Config, error) {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	l := confloader.NewLoader(confloader.WithConfigFile(c.String("config")))
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	overrides := map[string]any{}
	if c.IsSet("dir") {
		overrides["store.dir"] = c.String("dir")
	}
	if c.IsSet("file") {
		overrides["store.filename"] = c.String("file")
	}
	if c.IsSet("encrypt") {
		overrides["store.encrypt"] = c.Bool("encrypt")
	}
	if c.IsSet("salt") {
		overrides["store.salt"] = c.String("salt")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		overrides["log.format"] = c.String("log-format")
	}
	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// openStore builds a store engine from the merged configuration. The
// caller is responsible for closing it.
func openStore(c *cli.Context) (*store.Engine, error) {
	return openStoreWithMetrics(c, nil)
}

func openStoreWithMetrics(c *cli.Context, metrics store.Metrics) (*store.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	opts := store.DefaultOptions()
	opts.Dir = cfg.Store.Dir
	if cfg.Store.Filename != "" {
		opts.Filename = cfg.Store.Filename
	}
	opts.EnableEncryption = cfg.Store.Encrypt
	opts.EncryptionSalt = cfg.Store.Salt
	opts.Logger = log
	opts.Metrics = metrics

	var key []byte
	if cfg.Store.Encrypt {
		key = []byte(c.String("passphrase"))
	}

	return store.New(opts, key)
}
