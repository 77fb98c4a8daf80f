package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Zhima-Mochi/minishop-checkout/internal/pkg/logging"
)

const EnvPrefix = "CHECKOUT_"

// Authorizer kinds accepted in payment.authorizer.
const (
	AuthorizerNone  = "none"
	AuthorizerSMS   = "sms"
	AuthorizerRobot = "robot"
)

type Item struct {
	Name      string  `koanf:"name"`
	Quantity  int     `koanf:"quantity"`
	UnitPrice float64 `koanf:"unit_price"`
}

type Config struct {
	App struct {
		Name          string `koanf:"name"`
		Env           string `koanf:"env"`
		LogLevel      string `koanf:"log_level"`
		LogOutput     string `koanf:"log_output"`
		LogFile       string `koanf:"log_file"`
		LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
		LogMaxBackups int    `koanf:"log_max_backups"`
	} `koanf:"app"`

	Bus struct {
		Buffer         int           `koanf:"buffer"`
		Concurrency    int           `koanf:"concurrency"`
		HandlerTimeout time.Duration `koanf:"handler_timeout"`
		DrainTimeout   time.Duration `koanf:"drain_timeout"`
	} `koanf:"bus"`

	Metrics struct {
		Namespace string `koanf:"namespace"`
		Dump      bool   `koanf:"dump"`
	} `koanf:"metrics"`

	Order struct {
		Items []Item `koanf:"items"`
	} `koanf:"order"`

	Payment struct {
		Method       string `koanf:"method"`
		Authorizer   string `koanf:"authorizer"`
		SecurityCode string `koanf:"security_code"`
		Email        string `koanf:"email"`
		SMSCode      string `koanf:"sms_code"`
	} `koanf:"payment"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":            "checkout",
		"app.env":             "dev",
		"app.log_level":       "info",
		"app.log_output":      "stderr",
		"app.log_max_size_mb": 50,
		"app.log_max_backups": 3,

		"bus.buffer":          1024,
		"bus.concurrency":     8,
		"bus.handler_timeout": "30s",
		"bus.drain_timeout":   "5s",

		"order.items": []map[string]any{
			{"name": "Keyboard", "quantity": 1, "unit_price": 50.0},
			{"name": "SSD", "quantity": 1, "unit_price": 150.0},
			{"name": "USB cable", "quantity": 2, "unit_price": 5.0},
		},

		"payment.method":        "debit",
		"payment.authorizer":    AuthorizerSMS,
		"payment.security_code": "123456",
		"payment.email":         "quaerendo@invenietis.com",
		"payment.sms_code":      "12345",
	}
}

// Load is Read followed by Validate.
func Load(path string) (Config, error) {
	return load(path, env.Provider(EnvPrefix, ".", envKey))
}

// Read layers defaults, the optional YAML file at path and CHECKOUT_*
// environment variables, in that order. Nested keys use a double
// underscore, e.g. CHECKOUT_PAYMENT__METHOD=paypal. The result is not
// validated, so callers can apply their own overrides first.
func Read(path string) (Config, error) {
	return read(path, env.Provider(EnvPrefix, ".", envKey))
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ToLower(s)
}

func load(path string, overlay koanf.Provider) (Config, error) {
	cfg, err := read(path, overlay)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func read(path string, overlay koanf.Provider) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if overlay != nil {
		if err := k.Load(overlay, nil); err != nil {
			return Config{}, fmt.Errorf("env overlay: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	return cfg, nil
}

var ErrInvalid = errors.New("config: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks enums and that the credential the selected method needs
// is present. Whether the authorizer fits the method is decided when the
// processor is built.
func (c Config) Validate() error {
	switch c.Payment.Method {
	case "debit", "credit":
		if strings.TrimSpace(c.Payment.SecurityCode) == "" {
			return invalid("payment.security_code required for %s", c.Payment.Method)
		}
	case "paypal":
		if strings.TrimSpace(c.Payment.Email) == "" {
			return invalid("payment.email required for paypal")
		}
	default:
		return invalid("payment.method %q: want debit, credit or paypal", c.Payment.Method)
	}

	switch c.Payment.Authorizer {
	case "", AuthorizerNone, AuthorizerSMS, AuthorizerRobot:
	default:
		return invalid("payment.authorizer %q: want none, sms or robot", c.Payment.Authorizer)
	}

	if len(c.Order.Items) == 0 {
		return invalid("order.items required")
	}
	if c.Bus.Buffer < 0 || c.Bus.Concurrency < 0 {
		return invalid("bus.buffer and bus.concurrency must not be negative")
	}
	return nil
}

// Logging maps the app section onto logger options.
func (c Config) Logging() logging.Options {
	return logging.Options{
		Service:    c.App.Name,
		Env:        c.App.Env,
		Level:      c.App.LogLevel,
		Output:     c.App.LogOutput,
		File:       c.App.LogFile,
		MaxSizeMB:  c.App.LogMaxSizeMB,
		MaxBackups: c.App.LogMaxBackups,
	}
}
