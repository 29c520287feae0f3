package main

import (
	"context"
	"strings"
	"time"

	"github.com/BearBump/WriteDesk/config"
	"github.com/BearBump/WriteDesk/internal/broker/kafka"
	"github.com/BearBump/WriteDesk/internal/integrations/mailer"
	mailfake "github.com/BearBump/WriteDesk/internal/integrations/mailer/fake"
	"github.com/BearBump/WriteDesk/internal/integrations/mailer/httpapi"
	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/BearBump/WriteDesk/internal/services/notifier"
	"golang.org/x/sync/errgroup"
)

type consumer interface {
	notifier.Consumer
	Close() error
}

type notifierFactories struct {
	newConsumer func(cfg *config.Config) consumer
	newMailer   func(cfg *config.Config) mailer.Client
}

func defaultNotifierFactories() notifierFactories {
	return notifierFactories{
		newConsumer: func(cfg *config.Config) consumer {
			return kafka.NewConsumer(cfg.Kafka.Brokers(), orderTopic(cfg), consumerGroup(cfg))
		},
		newMailer: func(cfg *config.Config) mailer.Client {
			// Без base_url письма только пишутся в лог.
			if cfg.Mail.Mode == "http" && cfg.Mail.BaseURL != "" {
				return httpapi.New(cfg.Mail.BaseURL, cfg.Mail.APIKey, time.Duration(cfg.Mail.TimeoutSeconds)*time.Second)
			}
			return mailfake.New()
		},
	}
}

func orderTopic(cfg *config.Config) string {
	if cfg.Kafka.OrderSubmittedTopicName != "" {
		return cfg.Kafka.OrderSubmittedTopicName
	}
	return "writedesk.order.submitted"
}

func consumerGroup(cfg *config.Config) string {
	if cfg.Kafka.NotifierConsumerGroup != "" {
		return cfg.Kafka.NotifierConsumerGroup
	}
	return "desk-notifier"
}

func notifierConfig(cfg *config.Config) notifier.Config {
	var admins []string
	for _, a := range strings.Split(cfg.Mail.AdminTo, ",") {
		if a = strings.TrimSpace(a); a != "" {
			admins = append(admins, a)
		}
	}
	return notifier.Config{
		From:          cfg.Mail.From,
		ReplyTo:       cfg.Mail.ReplyTo,
		AdminTo:       admins,
		SiteName:      cfg.Mail.SiteName,
		SupportEmail:  cfg.Mail.SupportEmail,
		AdminOrderURL: cfg.Mail.AdminOrderURL,
		Retry: notifier.RetryConfig{
			Attempts: cfg.Mail.RetryAttempts,
			Base:     time.Duration(cfg.Mail.RetryBaseMillis) * time.Millisecond,
			Max:      time.Duration(cfg.Mail.RetryMaxMillis) * time.Millisecond,
		},
	}
}

// RunDeskNotifier consumes order events and serves the ops endpoints until
// ctx is cancelled or one of them fails.
func RunDeskNotifier(ctx context.Context, cfg *config.Config, f notifierFactories, httpOpts notifierHTTPOpts) error {
	c := f.newConsumer(cfg)
	defer func() { _ = c.Close() }()

	m := metrics.New()
	n := notifier.New(c, f.newMailer(cfg), m, notifierConfig(cfg))

	if httpOpts.httpAddr == "" {
		httpOpts.httpAddr = cfg.WriteDesk.NotifierHTTPAddr
	}
	httpOpts.notifier = n
	httpOpts.metrics = m
	httpOpts.cfg = cfg

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return n.Run(gctx)
	})
	g.Go(func() error {
		return runNotifierHTTPServer(gctx, httpOpts)
	})
	return g.Wait()
}
