package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageMemory)
	}
	if cfg.Directory.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12", cfg.Directory.PageSize)
	}
	if cfg.Directory.DebounceDelay != 500*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 500ms", cfg.Directory.DebounceDelay)
	}
	if cfg.Kafka.Brokers != nil {
		t.Errorf("Brokers = %v, want nil", cfg.Kafka.Brokers)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DIRECTORY_PAGE_SIZE", "24")
	t.Setenv("DIRECTORY_DEBOUNCE_DELAY", "250ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != StoragePostgres {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if cfg.Directory.PageSize != 24 {
		t.Errorf("PageSize = %d", cfg.Directory.PageSize)
	}
	if cfg.Directory.DebounceDelay != 250*time.Millisecond {
		t.Errorf("DebounceDelay = %v", cfg.Directory.DebounceDelay)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestNewConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown storage", "STORAGE_DRIVER", "mongo"},
		{"bad debounce", "DIRECTORY_DEBOUNCE_DELAY", "soon"},
		{"bad read timeout", "HTTP_READ_TIMEOUT", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := NewConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetEnvAsInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("DIRECTORY_PAGE_SIZE", "a dozen")
	if got := getEnvAsInt("DIRECTORY_PAGE_SIZE", 12); got != 12 {
		t.Errorf("getEnvAsInt = %d, want 12", got)
	}
}
