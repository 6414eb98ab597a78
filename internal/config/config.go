// Package config loads the YAML configuration of the radio link test monitor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-wimod/hci"
	"github.com/arloliu/go-wimod/serialport"
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`
	HCI    HCIConfig    `yaml:"hci"`
	RLT    RLTConfig    `yaml:"rlt"`
	CSV    CSVConfig    `yaml:"csv"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Log    LogConfig    `yaml:"log"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port          string `yaml:"port"` // ttyUSB0, /dev/ttyACM0 or COM3
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- HCI ----

type HCIConfig struct {
	ResponseTimeoutMs int `yaml:"response_timeout_ms"`
	PollTimeoutMs     int `yaml:"poll_timeout_ms"`
	SnapshotQueue     int `yaml:"snapshot_queue"` // snapshots buffered ahead of slow sinks
}

// ---- RADIO LINK TEST ----

type RLTConfig struct {
	GroupAddress  uint8  `yaml:"group_address"`
	DeviceAddress uint16 `yaml:"device_address"`
	PacketSize    uint8  `yaml:"packet_size"`
	NumPackets    uint16 `yaml:"num_packets"`
	TestMode      uint8  `yaml:"test_mode"` // 0 single, 1 continuous
	SettleMs      int    `yaml:"settle_ms"` // pause between stop and start
}

// ---- SINKS ----

type CSVConfig struct {
	Path    string `yaml:"path"`    // empty disables the CSV sink
	Comment string `yaml:"comment"` // written as "# comment" below the header
}

type MQTTConfig struct {
	Broker           string `yaml:"broker"` // empty disables the MQTT sink
	Topic            string `yaml:"topic"`
	QoS              uint8  `yaml:"qos"`
	Retain           bool   `yaml:"retain"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used for fields missing from the file.
// The radio link test values match the factory demo setup.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Baud:          serialport.DefaultBaud,
			ReadTimeoutMs: int(serialport.DefaultReadTimeout / time.Millisecond),
		},
		HCI: HCIConfig{
			ResponseTimeoutMs: int(hci.DefaultResponseTimeout / time.Millisecond),
			PollTimeoutMs:     int(hci.DefaultPollTimeout / time.Millisecond),
			SnapshotQueue:     hci.DefaultSnapshotQueue,
		},
		RLT: RLTConfig{
			GroupAddress:  0x10,
			DeviceAddress: 0x2222,
			PacketSize:    15,
			NumPackets:    100,
			TestMode:      hci.RLTModeContinuous,
			SettleMs:      10000,
		},
		MQTT: MQTTConfig{
			Topic:            "wimod/rlt",
			ConnectTimeoutMs: 5000,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML data on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SerialPortConfig returns the serial port adapter configuration.
func (c *Config) SerialPortConfig() serialport.Config {
	return serialport.Config{
		Name:        c.Serial.Port,
		Baud:        c.Serial.Baud,
		ReadTimeout: ms(c.Serial.ReadTimeoutMs),
	}
}

// ConnOptions returns the connection options derived from the hci section.
func (c *Config) ConnOptions() []hci.ConnOption {
	return []hci.ConnOption{
		hci.WithResponseTimeout(ms(c.HCI.ResponseTimeoutMs)),
		hci.WithPollTimeout(ms(c.HCI.PollTimeoutMs)),
		hci.WithSnapshotQueue(c.HCI.SnapshotQueue),
	}
}

// RLTStartConfig returns the radio link test start parameters.
func (c *Config) RLTStartConfig() hci.RLTConfig {
	return hci.RLTConfig{
		GroupAddress:  c.RLT.GroupAddress,
		DeviceAddress: c.RLT.DeviceAddress,
		PacketSize:    c.RLT.PacketSize,
		NumPackets:    c.RLT.NumPackets,
		TestMode:      c.RLT.TestMode,
	}
}

// Settle returns the pause between stopping and starting the test.
func (c *Config) Settle() time.Duration {
	return ms(c.RLT.SettleMs)
}

// MQTTConnectTimeout returns the broker connect timeout.
func (c *Config) MQTTConnectTimeout() time.Duration {
	return ms(c.MQTT.ConnectTimeoutMs)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
