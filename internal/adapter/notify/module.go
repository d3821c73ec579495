package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/fx"

	"github.com/polkiloo/printdesk/internal/config"
)

// Module provides the notification dispatcher.
var Module = fx.Provide(newDispatcher)

type dispatcherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

var newKafkaClient = func(brokers []string, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
}

func newDispatcher(p dispatcherParams) (Dispatcher, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("no kafka brokers configured, notifications are logged only")
		return NewLogDispatcher(p.Logger), nil
	}

	client, err := newKafkaClient(p.Config.KafkaBrokers, p.Config.NotifyTopic)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := client.Flush(ctx); err != nil {
				p.Logger.Warn("flush kafka producer", slog.Any("error", err))
			}
			client.Close()
			return nil
		},
	})

	return NewKafkaDispatcher(client, p.Config.NotifyTopic, p.Logger), nil
}
