package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/arloliu/go-wimod/hci"
	"github.com/arloliu/go-wimod/logger"
)

// Validate checks configuration correctness.
// It does not mutate the configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ---- serial ----

	if strings.TrimSpace(cfg.Serial.Port) == "" {
		return fmt.Errorf("serial.port is required")
	}

	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", cfg.Serial.Baud)
	}

	if cfg.Serial.ReadTimeoutMs <= 0 {
		return fmt.Errorf("serial.read_timeout_ms must be positive, got %d", cfg.Serial.ReadTimeoutMs)
	}

	// ---- hci ----

	// range checks are owned by the connection options
	if _, err := hci.NewConnectionConfig(cfg.ConnOptions()...); err != nil {
		return err
	}

	// ---- rlt ----

	if cfg.RLT.TestMode != hci.RLTModeSingle && cfg.RLT.TestMode != hci.RLTModeContinuous {
		return fmt.Errorf("rlt.test_mode must be %d or %d, got %d",
			hci.RLTModeSingle, hci.RLTModeContinuous, cfg.RLT.TestMode)
	}

	if cfg.RLT.PacketSize == 0 {
		return fmt.Errorf("rlt.packet_size must be positive")
	}

	if cfg.RLT.TestMode == hci.RLTModeSingle && cfg.RLT.NumPackets == 0 {
		return fmt.Errorf("rlt.num_packets must be positive in single mode")
	}

	if cfg.RLT.SettleMs < 0 {
		return fmt.Errorf("rlt.settle_ms must not be negative, got %d", cfg.RLT.SettleMs)
	}

	// ---- csv ----

	if strings.ContainsAny(cfg.CSV.Comment, "\r\n") {
		return fmt.Errorf("csv.comment must be a single line")
	}

	// ---- mqtt (opt-in) ----

	if cfg.MQTT.Broker != "" {
		u, err := url.Parse(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("mqtt.broker: %w", err)
		}

		if u.Host == "" {
			return fmt.Errorf("mqtt.broker %q has no host", cfg.MQTT.Broker)
		}

		if cfg.MQTT.Topic == "" {
			return fmt.Errorf("mqtt.topic is required when mqtt.broker is set")
		}

		if strings.ContainsAny(cfg.MQTT.Topic, "+#") {
			return fmt.Errorf("mqtt.topic %q must not contain wildcards", cfg.MQTT.Topic)
		}

		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", cfg.MQTT.QoS)
		}

		if cfg.MQTT.ConnectTimeoutMs <= 0 {
			return fmt.Errorf("mqtt.connect_timeout_ms must be positive, got %d", cfg.MQTT.ConnectTimeoutMs)
		}
	}

	// ---- log ----

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	return nil
}

// ParseLevel maps a log level name to a logger level. An empty name is info.
func ParseLevel(name string) (logger.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return logger.DebugLevel, nil
	case "", "info":
		return logger.InfoLevel, nil
	case "warn", "warning":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return logger.InfoLevel, fmt.Errorf("log.level %q is not one of debug, info, warn, error", name)
	}
}
