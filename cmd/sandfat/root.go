package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AnishMulay/sandfat/internal/config"
	logservice "github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	"github.com/AnishMulay/sandfat/internal/server"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/AnishMulay/sandfat/servers/simple"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sandfat",
		Short: "Manage a cluster-allocated volume",
		Long: `sandfat stores files as chains of fixed-size clusters tracked in an
allocation table. Commands run against the volume in --data-dir, or against
a running sandfat server when --remote is given.`,
		SilenceUsage: true,
	}

	configPath string
	dataDir    string
	remote     string
	transport  string
	verbose    bool
	timeout    time.Duration
)

func Execute() error {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sandfat.yaml", "path to the configuration file, created with defaults if missing")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "volume directory, overrides data_dir from the configuration")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "address of a sandfat server to send commands to")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "transport for --remote: http or grpc")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every command to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", server.DefaultClientTimeout, "timeout for remote commands")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if transport != "" {
		cfg.Server.Transport = transport
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogService(cfg *config.Config) (logservice.LogService, func() error, error) {
	if cfg.Log.Dir == "" && !verbose {
		return console.NewConsoleLogService(os.Stderr, cfg.NodeID, logservice.ErrorLevel), func() error { return nil }, nil
	}
	return simple.NewLogService(cfg)
}

// withVolume opens the local or remote volume, runs fn against it and
// releases everything afterwards.
func withVolume(fn func(cfg *config.Config, vs volume_service.VolumeService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ls, closeLog, err := newLogService(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if remote != "" {
		comm, err := simple.NewCommunicator(cfg.Server.Transport, "", ls)
		if err != nil {
			return err
		}
		defer comm.Stop()
		client := server.NewClient(comm, remote, cfg.NodeID+"-cli", ls)
		client.SetTimeout(timeout)
		return fn(cfg, client)
	}

	vol, err := simple.OpenVolume(cfg, ls)
	if err != nil {
		return err
	}
	defer vol.Close()
	return fn(cfg, vol)
}

func formatChain(chain []int) string {
	if len(chain) == 0 {
		return "(empty chain)"
	}
	parts := make([]string, 0, len(chain)+1)
	for _, idx := range chain {
		parts = append(parts, strconv.Itoa(idx))
	}
	return strings.Join(append(parts, "EOC"), " -> ")
}
