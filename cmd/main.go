package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"check-please/internal/checkout"
	"check-please/internal/notifications"
	"check-please/internal/xpkg/logger"
)

func main() {
	mode := flag.String("mode", "", "Service mode: checkout-service, notification-subscriber")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if *mode == "" {
		fmt.Println("Invalid mode. Use --mode=checkout-service or --mode=notification-subscriber")
		os.Exit(1)
	}

	mylog := logger.New(*mode, *logFormat, *logLevel)
	ctx := context.Background()
	args := flag.Args()

	var err error
	switch *mode {
	case "checkout-service":
		err = checkout.Execute(ctx, mylog, args)
	case "notification-subscriber":
		err = notifications.Execute(ctx, mylog, args)
	default:
		fmt.Println("Invalid mode. Use --mode=checkout-service or --mode=notification-subscriber")
		os.Exit(1)
	}

	if err != nil {
		os.Exit(1)
	}
}
