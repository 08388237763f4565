package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	lib "github.com/theoremus-urban-solutions/transport-catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/config"
	"github.com/theoremus-urban-solutions/transport-catalogue/internal"
	"github.com/theoremus-urban-solutions/transport-catalogue/server"
	"github.com/theoremus-urban-solutions/transport-catalogue/snapshot"
)

const usage = `Usage: transport-catalogue [flags] [make_base|process_requests|serve]

make_base         read a base document on stdin and save the snapshot
process_requests  read stat requests on stdin and print the answers
serve             answer stat requests over HTTP

Flags:
`

func main() {
	configPath := flag.String("config", "", "config file (defaults to config.yml or ./config/config.yml)")
	snapshotName := flag.String("snapshot", "transport_catalogue.db", "snapshot to serve")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	mode := flag.Arg(0)

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	if err := config.LoadAppConfig(paths...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Config

	// stdout carries the answers in the batch modes
	logOut := os.Stderr
	if mode == "serve" {
		logOut = os.Stdout
	}
	logger := internal.NewLogger(logOut, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, mode, cfg, *snapshotName, logger); err != nil {
		logger.Error("run failed", "mode", mode, "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg config.AppConfig, snapshotName string, logger *slog.Logger) error {
	store, closeStore, err := openStore(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	switch mode {
	case "make_base":
		_, err := lib.MakeBase(ctx, os.Stdin, store)
		return err
	case "process_requests":
		return lib.ProcessRequests(ctx, os.Stdin, os.Stdout, store)
	case "serve":
		h, snap, err := lib.Open(ctx, store, snapshotName, cfg.Cache.Size, logger)
		if err != nil {
			return err
		}
		return server.New(h, snap.ID, logger).Run(ctx, cfg.Server.Port)
	default:
		flag.Usage()
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func openStore(cfg config.StorageConfig, logger *slog.Logger) (snapshot.Store, func(), error) {
	if cfg.Backend != "redis" {
		return snapshot.FileStore{}, func() {}, nil
	}
	rs, err := snapshot.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, logger)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() {
		if err := rs.Close(); err != nil {
			logger.Warn("close redis store", "error", err)
		}
	}, nil
}
