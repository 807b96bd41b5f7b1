package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwuertinger/nest-events/pkg/auth"
	"github.com/mwuertinger/nest-events/pkg/config"
	"github.com/mwuertinger/nest-events/pkg/event"
	"github.com/mwuertinger/nest-events/pkg/forward"
	"github.com/mwuertinger/nest-events/pkg/frontend"
	"github.com/mwuertinger/nest-events/pkg/mqtt"
	"github.com/mwuertinger/nest-events/pkg/persistence"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Subscribe to notifications and serve them over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		if len(cfgFile) < 1 {
			log.Fatalf("Missing --config argument.")
		}
		c, err := config.Load(cfgFile)
		if err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		serve(c)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(c *config.Config) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	store := persistence.NewStore()
	hub := frontend.NewHub()
	callbacks := event.Fanout{event.CallbackFunc(logEvent), store, hub}

	var kafka *forward.Kafka
	if len(c.Kafka.Brokers) > 0 {
		kafka = forward.NewKafka(c.Kafka)
		callbacks = append(callbacks, kafka)
	}

	subscriber := &mqtt.Subscriber{
		Decoder:  event.NewDecoder(auth.New(c.Sdm)),
		Callback: callbacks,
		Timeout:  10 * time.Second,
	}

	mqttBroker := mqtt.New()
	if err := mqttBroker.Connect(c.Mqtt); err != nil {
		log.Fatalf("mqttBroker.Connect: %v", err)
	}
	if err := mqttBroker.Subscribe(c.Mqtt.Topic, subscriber.Handle); err != nil {
		log.Fatalf("mqttBroker.Subscribe: %v", err)
	}

	server := frontend.New(store, hub)
	if err := server.Start(c.Http); err != nil {
		log.Fatalf("frontend.Start: %v", err)
	}

	// Wait for receiving a signal.
	<-sigc

	if err := server.Shutdown(); err != nil {
		log.Printf("frontend.Shutdown: %v", err)
	}
	if err := mqttBroker.Disconnect(); err != nil {
		log.Printf("mqttBroker.Disconnect: %v", err)
	}
	if kafka != nil {
		if err := kafka.Close(); err != nil {
			log.Printf("kafka.Close: %v", err)
		}
	}
}

func logEvent(ctx context.Context, msg *event.Message) error {
	id, _ := msg.EventID()
	if name, ok, _ := msg.ResourceUpdateName(); ok {
		events, _, _ := msg.ResourceUpdateEvents()
		for typ := range events {
			log.Printf("%s: %s on %s", id, typ, name)
		}
		return nil
	}
	if update, ok, _ := msg.RelationUpdate(); ok {
		typ, _ := update.Type()
		subject, _ := update.Subject()
		object, _ := update.Object()
		log.Printf("%s: relation %s %s -> %s", id, typ, object, subject)
	}
	return nil
}
