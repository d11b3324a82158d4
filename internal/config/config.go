package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the console process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Broker  BrokerConfig
	Live    LiveConfig
	Redis   RedisConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// BackendConfig points at the upstream turret/device REST service.
type BackendConfig struct {
	BaseURL string

	// Timeout bounds every snapshot/CRUD request. The upstream service
	// has no SLA; an unbounded fetch would stall the snapshot loop.
	Timeout time.Duration
}

// BrokerConfig points at the STOMP broker delivering live channel events.
type BrokerConfig struct {
	URL   string
	Topic string

	// ReconnectDelay is the fixed wait between reconnect attempts.
	// Retries are unbounded; there is no backoff growth.
	ReconnectDelay time.Duration
}

type LiveConfig struct {
	// SnapshotInterval is the period between snapshot refetches.
	// Zero disables periodic refetch (the boot-time fetch still runs).
	SnapshotInterval time.Duration

	// PulseTTL is how long the "new data" indicator stays lit after
	// the last accepted event.
	PulseTTL time.Duration

	// SnapshotIntervalSet distinguishes an explicit SNAPSHOT_INTERVAL=0
	// (periodic refetch off) from an unset variable (use the default).
	SnapshotIntervalSet bool
}

// RedisConfig is optional. An empty Host disables the live-state mirror.
type RedisConfig struct {
	Host string
	Port int
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Backend.BaseURL = strings.TrimSpace(os.Getenv("BACKEND_BASE_URL"))
	c.Backend.Timeout = mustDuration("BACKEND_TIMEOUT")

	c.Broker.URL = strings.TrimSpace(os.Getenv("BROKER_URL"))
	c.Broker.Topic = strings.TrimSpace(os.Getenv("BROKER_TOPIC"))
	c.Broker.ReconnectDelay = mustDuration("BROKER_RECONNECT_DELAY")

	c.Live.SnapshotInterval = mustDuration("SNAPSHOT_INTERVAL")
	c.Live.SnapshotIntervalSet = envSet("SNAPSHOT_INTERVAL")
	c.Live.PulseTTL = mustDuration("NOTIFY_PULSE_TTL")

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("BACKEND_BASE_URL is required"))
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_BASE_URL must be an absolute URL, got %q", c.Backend.BaseURL))
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 10 * time.Second
	}

	if c.Broker.URL == "" {
		errs = append(errs, errors.New("BROKER_URL is required"))
	} else if u, err := url.Parse(c.Broker.URL); err != nil || !isValidBrokerScheme(u.Scheme) {
		errs = append(errs, fmt.Errorf("BROKER_URL must use ws, wss or tcp scheme, got %q", c.Broker.URL))
	}
	if c.Broker.Topic == "" {
		c.Broker.Topic = "/topic/turret-events"
	}
	if c.Broker.ReconnectDelay <= 0 {
		c.Broker.ReconnectDelay = 5 * time.Second
	}

	if c.Live.SnapshotInterval < 0 {
		errs = append(errs, fmt.Errorf("SNAPSHOT_INTERVAL must not be negative, got %s", c.Live.SnapshotInterval))
	}
	// SNAPSHOT_INTERVAL=0 is an explicit opt-out of periodic refetch;
	// an unset var gets the default.
	if c.Live.SnapshotInterval == 0 && !c.Live.SnapshotIntervalSet {
		c.Live.SnapshotInterval = 5 * time.Second
	}
	if c.Live.PulseTTL <= 0 {
		c.Live.PulseTTL = 3 * time.Second
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port when REDIS_HOST is set, got %d", c.Redis.Port))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// RedisEnabled reports whether the optional live-state mirror is configured.
func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func envSet(key string) bool {
	return strings.TrimSpace(os.Getenv(key)) != ""
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidBrokerScheme(v string) bool {
	switch v {
	case "ws", "wss", "tcp":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
