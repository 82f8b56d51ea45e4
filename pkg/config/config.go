package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type OBSConf struct {
	Address            string        `yaml:"address"`
	Password           string        `yaml:"password"`
	RPCVersion         int           `yaml:"rpc_version"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	EventSubscriptions uint32        `yaml:"event_subscriptions"`
}

type LogConf struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type MockConf struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type Conf struct {
	OBS  OBSConf  `yaml:"obs"`
	Log  LogConf  `yaml:"log"`
	Mock MockConf `yaml:"mock"`
}

var defaults = map[string]any{
	"obs.address":             "ws://localhost:4455",
	"obs.password":            "",
	"obs.rpc_version":         1,
	"obs.connect_timeout":     "5s",
	"obs.request_timeout":     "5s",
	"obs.event_subscriptions": 0,
	"log.level":               "info",
	"log.console":             true,
	"mock.addr":               ":4455",
	"mock.password":           "",
}

// Load reads configuration from file, or from obsws.yaml in conf/ or the
// working directory when file is empty. A missing file is not an error.
// Environment variables override file values, e.g. OBS_PASSWORD for
// obs.password.
func Load(file string) (*Conf, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("obsws")
		v.SetConfigType("yaml")
		v.AddConfigPath("conf")
		v.AddConfigPath(".")
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var conf Conf
	if decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &conf,
		TagName:          "yaml",
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	}); err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	} else if err = decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Conf) Validate() error {
	if strings.TrimSpace(c.OBS.Address) == "" {
		return fmt.Errorf("obs.address is required")
	}
	if c.OBS.RPCVersion < 1 {
		return fmt.Errorf("obs.rpc_version must be >= 1")
	}
	if c.OBS.ConnectTimeout <= 0 {
		return fmt.Errorf("obs.connect_timeout must be positive")
	}
	if c.OBS.RequestTimeout <= 0 {
		return fmt.Errorf("obs.request_timeout must be positive")
	}
	return nil
}
