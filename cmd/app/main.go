package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"freight-bid/internal/config"
	freightservice "freight-bid/internal/freight-service"
	"freight-bid/internal/mylogger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app freight-service")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using environment variables")
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "freight-service":
		if err := freightservice.Execute(context.Background(), mylog, cfg); err != nil {
			mylog.Error("freight service stopped with error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown service %q\n", os.Args[1])
		os.Exit(1)
	}
}
