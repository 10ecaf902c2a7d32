// Package notifications runs the order-status subscriber: the one component
// with a reconnect loop. Everything else about the push channel belongs to
// the backend.
package notifications

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"check-please/internal/notifications/adapter/broker"
	"check-please/internal/notifications/adapter/consumer"
	"check-please/internal/notifications/app/core"
	"check-please/internal/xpkg/config"
	"check-please/internal/xpkg/logger"
	"check-please/internal/xpkg/metrics"
)

const (
	consumerTag        = "notification-subscriber"
	reconnectBaseDelay = 2 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

var errHelp = errors.New("")

type params struct {
	metricsPort int
	configPath  string
	cfg         *config.Config
}

// Execute starts the notification subscriber service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		mylog.Action("config_load_failed").Error("Failed to load config", err)
		return err
	}
	params.cfg = cfg

	watchers := core.NewWatchers()
	subscriber := consumer.NewSubscriber(watchers, mylog)

	group, groupCtx := errgroup.WithContext(newCtx)

	// Metrics and health endpoint
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", params.metricsPort),
		Handler: operationalMux(),
	}
	group.Go(func() error {
		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			} else {
				errCh <- nil
			}
		}()
		select {
		case <-groupCtx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		}
	})

	// Consume loop with reconnect
	group.Go(func() error {
		consumeLoop(groupCtx, params.cfg.RMQ, subscriber, mylog)
		return nil
	})

	if err := group.Wait(); err != nil {
		mylog.Action("subscriber_failed").Error("Notification subscriber stopped with error", err)
		return err
	}
	mylog.Action("subscriber_stopped").Info("Notification subscriber exited normally")
	return nil
}

// consumeLoop keeps one broker session alive, reconnecting with capped
// backoff when the connection drops.
func consumeLoop(ctx context.Context, cfg config.RabbitMQ, subscriber *consumer.Subscriber, mylog logger.Logger) {
	delay := reconnectBaseDelay

	for {
		rmq, err := broker.New(cfg, mylog)
		if err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err, "retry_in", delay.String())
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, reconnectMaxDelay)
			continue
		}
		delay = reconnectBaseDelay

		deliveries, err := rmq.Consume(ctx, consumerTag)
		if err != nil {
			mylog.Action("mb_consume_failed").Error("Failed to start consuming", err)
			rmq.Close()
			continue
		}

		// Work returns when the context cancels or the delivery channel
		// closes underneath us.
		subscriber.Work(ctx, deliveries)
		rmq.Close()

		if ctx.Err() != nil {
			mylog.Action("graceful_shutdown_completed").Info("Successfully shut down")
			return
		}
		mylog.Action("mb_session_ended").Warn("Broker session ended, reconnecting")
	}
}

func operationalMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	metricsPort := fs.Int("metrics-port", 3001, "Port for metrics and health endpoints")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}

	if *showHelp {
		fs.Usage()
		return nil, errHelp
	}

	return &params{
		metricsPort: *metricsPort,
		configPath:  *configPath,
	}, nil
}
