package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const configYaml = `
mqtt:
  ca-path:        ca.crt
  server:         mqtt.example.com:8883
  user:           foo
  password:       bar
  client-id:      nest-events
  topic:          sdm/events
http:
  listen-address: fizz:1234
sdm:
  api-url:        https://sdm.example.com/v1
  access-token:   token
kafka:
  brokers:
  - kafka1:9092
  - kafka2:9092
  topic:          sdm-events
  batch-timeout:  10ms
`

func TestUnmarshal(t *testing.T) {
	config, err := unmarshal([]byte(configYaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedConfig := Config{
		Mqtt: Mqtt{
			CaPath:   "ca.crt",
			Server:   "mqtt.example.com:8883",
			User:     "foo",
			Password: "bar",
			ClientID: "nest-events",
			Topic:    "sdm/events",
		},
		Http: Http{
			ListenAddress: "fizz:1234",
		},
		Sdm: Sdm{
			APIURL:      "https://sdm.example.com/v1",
			AccessToken: "token",
		},
		Kafka: Kafka{
			Brokers:      []string{"kafka1:9092", "kafka2:9092"},
			Topic:        "sdm-events",
			BatchTimeout: 10 * time.Millisecond,
		},
	}

	if !reflect.DeepEqual(*config, expectedConfig) {
		t.Fatalf("not the expected config: %v", *config)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Mqtt: Mqtt{Server: "s", Topic: "t"}}

	tests := []struct {
		name   string
		modify func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"no server", func(c *Config) { c.Mqtt.Server = "" }, false},
		{"no topic", func(c *Config) { c.Mqtt.Topic = "" }, false},
		{"kafka without topic", func(c *Config) { c.Kafka.Brokers = []string{"b"} }, false},
		{"kafka", func(c *Config) { c.Kafka = Kafka{Brokers: []string{"b"}, Topic: "t"} }, true},
	}
	for _, tc := range tests {
		c := valid
		tc.modify(&c)
		if err := validate(&c); (err == nil) != tc.ok {
			t.Errorf("%s: validate() = %v", tc.name, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	if err := ioutil.WriteFile(path, []byte(configYaml), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
