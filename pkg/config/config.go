package config

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Mqtt  Mqtt
	Http  Http
	Sdm   Sdm
	Kafka Kafka
}

type Mqtt struct {
	Server   string
	CaPath   string `yaml:"ca-path"`
	User     string
	Password string
	ClientID string `yaml:"client-id"`
	Topic    string
}

type Http struct {
	ListenAddress string `yaml:"listen-address"`
}

// Sdm configures access to the device management API.
type Sdm struct {
	APIURL      string `yaml:"api-url"`
	AccessToken string `yaml:"access-token"`
}

// Kafka forwarding is disabled unless brokers are configured.
type Kafka struct {
	Brokers []string
	Topic   string
	// BatchTimeout caps how long a write waits for more messages.
	BatchTimeout time.Duration `yaml:"batch-timeout"`
}

func Load(path string) (*Config, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := unmarshal(buf)
	if err != nil {
		return nil, err
	}
	err = validate(config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

func unmarshal(config []byte) (*Config, error) {
	var c Config
	err := yaml.Unmarshal(config, &c)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func validate(config *Config) error {
	if config.Mqtt.Server == "" {
		return errors.New("mqtt.server missing")
	}
	if config.Mqtt.Topic == "" {
		return errors.New("mqtt.topic missing")
	}
	if len(config.Kafka.Brokers) > 0 && config.Kafka.Topic == "" {
		return errors.New("kafka.topic missing")
	}
	return nil
}
