package checkout

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	checkouthttp "check-please/internal/checkout/api/http"
	"check-please/internal/checkout/app/core"
	"check-please/internal/xpkg/config"
	"check-please/internal/xpkg/logger"
)

type params struct {
	checkoutParams *core.CheckoutParams
	configPath     string
	cfg            *config.Config
}

// Execute starts the checkout service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validated params")

	server := checkouthttp.NewServer(newCtx, context.Background(), params.cfg, params.checkoutParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	// Wait for signal or server crash
	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, checkouthttp.ErrServerClosed) {
			mylog.Action("checkout_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("checkout-service", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	port := fs.Int("port", 3000, "Port to run the checkout service")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		checkoutParams: &core.CheckoutParams{
			Port: *port,
		},
		configPath: *configPath,
	}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	if params.checkoutParams.Port <= 0 || params.checkoutParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", params.checkoutParams.Port)
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required, set JWT_SECRET or the config file")
	}

	return nil
}
