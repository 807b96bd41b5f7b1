// Package mqtt receives device management notifications from an MQTT broker.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/mwuertinger/nest-events/pkg/config"
	"github.com/pkg/errors"

	gmq_mqtt "github.com/yosssi/gmq/mqtt"
	gmq "github.com/yosssi/gmq/mqtt/client"
)

// Handler receives the raw payload of every message on a subscribed topic.
type Handler func(topic string, payload []byte)

type Broker interface {
	Connect(mqttConfig config.Mqtt) error
	Subscribe(topic string, handler Handler) error
	Disconnect() error
}

type broker struct {
	client *gmq.Client
}

func New() Broker {
	return &broker{}
}

func (b *broker) Connect(mqttConfig config.Mqtt) error {
	if b.client != nil {
		return errors.New("already connected")
	}

	var tlsConfig *tls.Config
	if mqttConfig.CaPath != "" {
		caCert, err := ioutil.ReadFile(mqttConfig.CaPath)
		if err != nil {
			return fmt.Errorf("unable to load 'ca-path': %v", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return errors.Errorf("no certificates in %s", mqttConfig.CaPath)
		}
		tlsConfig = &tls.Config{RootCAs: caCertPool}
	}

	clientID := mqttConfig.ClientID
	if clientID == "" {
		clientID = mqttConfig.User
	}

	client := gmq.New(&gmq.Options{
		ErrorHandler: func(err error) {
			log.Printf("MQTT error: %v", err)
		},
	})

	err := client.Connect(&gmq.ConnectOptions{
		Network:   "tcp",
		Address:   mqttConfig.Server,
		TLSConfig: tlsConfig,
		ClientID:  []byte(clientID),
		UserName:  []byte(mqttConfig.User),
		Password:  []byte(mqttConfig.Password),
	})
	if err != nil {
		return fmt.Errorf("connect failed: %v", err)
	}

	b.client = client
	return nil
}

func (b *broker) Subscribe(topic string, handler Handler) error {
	if b.client == nil {
		return errors.New("not connected")
	}

	err := b.client.Subscribe(&gmq.SubscribeOptions{SubReqs: []*gmq.SubReq{{
		TopicFilter: []byte(topic),
		QoS:         gmq_mqtt.QoS1,
		Handler: func(topicName, message []byte) {
			handler(string(topicName), message)
		},
	}}})
	if err != nil {
		return fmt.Errorf("subscribe failed: %v", err)
	}

	return nil
}

func (b *broker) Disconnect() error {
	if b.client == nil {
		return nil
	}
	defer b.client.Terminate()
	return b.client.Disconnect()
}
