package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Cart struct {
		GuestTTL time.Duration `koanf:"guest_ttl"`
	} `koanf:"cart"`

	Reconcile struct {
		LockTTL time.Duration `koanf:"lock_ttl"`
	} `koanf:"reconcile"`

	Cache struct {
		StatusTTL time.Duration `koanf:"status_ttl"`
	} `koanf:"cache"`

	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers       []string `koanf:"brokers"`
		PaymentsTopic string   `koanf:"payments_topic"`
		GroupID       string   `koanf:"group_id"`
	} `koanf:"kafka"`

	Mpesa struct {
		BaseURL          string        `koanf:"base_url"`
		ConsumerKey      string        `koanf:"consumer_key"`
		ConsumerSecret   string        `koanf:"consumer_secret"`
		Shortcode        string        `koanf:"shortcode"`
		Passkey          string        `koanf:"passkey"`
		CallbackURL      string        `koanf:"callback_url"`
		AccountReference string        `koanf:"account_reference"`
		TransactionDesc  string        `koanf:"transaction_desc"`
		Amount           string        `koanf:"amount"` // fixed push amount, decimal string
		Timeout          time.Duration `koanf:"timeout"`
	} `koanf:"mpesa"`

	SMTP struct {
		Host     string `koanf:"host"`
		Port     int    `koanf:"port"`
		Username string `koanf:"username"`
		Password string `koanf:"password"`
		From     string `koanf:"from"`
	} `koanf:"smtp"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix FARMLINK_, nested with __)
	// e.g. FARMLINK_MYSQL__DSN, FARMLINK_MPESA__CONSUMER_SECRET
	if err := k.Load(env.Provider("FARMLINK_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "FARMLINK_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Mpesa.ConsumerKey == "" || c.Mpesa.ConsumerSecret == "" {
		return fmt.Errorf("mpesa credentials required (set via FARMLINK_MPESA__CONSUMER_KEY / __CONSUMER_SECRET)")
	}
	return nil
}
