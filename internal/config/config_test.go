package config

import (
	"testing"
	"time"
)

func TestLoad_ReportsMissingRequired(t *testing.T) {
	// Ensure a clean env by not setting anything and calling validation directly.
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_AppliesDefaults(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:8081"},
		Broker:  BrokerConfig{URL: "ws://localhost:8083/ws/websocket"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Broker.Topic != "/topic/turret-events" {
		t.Fatalf("expected default topic, got %q", c.Broker.Topic)
	}
	if c.Broker.ReconnectDelay != 5*time.Second {
		t.Fatalf("expected 5s reconnect delay, got %s", c.Broker.ReconnectDelay)
	}
	if c.Live.SnapshotInterval != 5*time.Second {
		t.Fatalf("expected 5s snapshot interval, got %s", c.Live.SnapshotInterval)
	}
	if c.Live.PulseTTL != 3*time.Second {
		t.Fatalf("expected 3s pulse ttl, got %s", c.Live.PulseTTL)
	}
	if c.Backend.Timeout != 10*time.Second {
		t.Fatalf("expected 10s backend timeout, got %s", c.Backend.Timeout)
	}
}

func TestValidate_ExplicitZeroSnapshotIntervalDisablesRefetch(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:8081"},
		Broker:  BrokerConfig{URL: "ws://localhost:8083/ws/websocket"},
		Live:    LiveConfig{SnapshotInterval: 0, SnapshotIntervalSet: true},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Live.SnapshotInterval != 0 {
		t.Fatalf("expected refetch disabled, got %s", c.Live.SnapshotInterval)
	}
}

func TestValidate_RejectsBadBrokerScheme(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:8081"},
		Broker:  BrokerConfig{URL: "http://localhost:8083/ws"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for http broker scheme")
	}
}

func TestValidate_RedisOptional(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:8081"},
		Broker:  BrokerConfig{URL: "tcp://localhost:61613"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without redis, got %v", err)
	}
	if c.RedisEnabled() {
		t.Fatalf("expected redis disabled")
	}

	c.Redis = RedisConfig{Host: "localhost", Port: 0}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for redis host without valid port")
	}
}
