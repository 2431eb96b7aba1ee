package main

import (
	"fmt"
	"log"
	"os"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/servers/simple"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run() error {
	var (
		configPath    string
		nodeID        string
		listen        string
		transport     string
		dataDir       string
		metricsListen string
		logLevel      string
	)

	flagSet := pflag.NewFlagSet("sandfat-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "sandfat.yaml", "path to the configuration file")
	flagSet.StringVar(&nodeID, "node-id", "", "node ID used in logs")
	flagSet.StringVar(&listen, "listen", "", "listen address")
	flagSet.StringVar(&transport, "transport", "", "transport: http or grpc")
	flagSet.StringVar(&dataDir, "data-dir", "", "volume directory")
	flagSet.StringVar(&metricsListen, "metrics-listen", "", "address for the Prometheus /metrics endpoint")
	flagSet.StringVar(&logLevel, "log-level", "", "minimum log level: DEBUG, INFO, WARN or ERROR")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("node-id") {
		cfg.NodeID = nodeID
	}
	if flagSet.Changed("listen") {
		cfg.Server.Listen = listen
	}
	if flagSet.Changed("transport") {
		cfg.Server.Transport = transport
	}
	if flagSet.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flagSet.Changed("metrics-listen") {
		cfg.Server.MetricsListen = metricsListen
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	srv, err := simple.Build(cfg)
	if err != nil {
		return err
	}
	return srv.Run()
}
