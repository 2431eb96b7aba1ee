package simple

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnishMulay/sandfat/internal/communication"
	grpccomm "github.com/AnishMulay/sandfat/internal/communication/grpc"
	httpcomm "github.com/AnishMulay/sandfat/internal/communication/http"
	"github.com/AnishMulay/sandfat/internal/config"
	logservice "github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/server"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type runnable interface {
	Run() error
}

type singleNodeServer struct {
	server   *server.VolumeServer
	volume   *Volume
	metrics  *http.Server
	ls       logservice.LogService
	closeLog func() error
}

func NewCommunicator(transport, listen string, ls logservice.LogService) (communication.Communicator, error) {
	switch transport {
	case config.TransportHTTP:
		return httpcomm.NewHTTPCommunicator(listen, ls), nil
	case config.TransportGRPC:
		return grpccomm.NewGRPCCommunicator(listen, ls), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", config.ErrInvalidConfig, transport)
	}
}

func (s *singleNodeServer) Run() error {
	defer s.closeLog()
	defer s.volume.Close()

	if err := s.server.Start(); err != nil {
		return err
	}

	if s.metrics != nil {
		go func() {
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.ls.Error(logservice.LogEvent{
					Message:  "Metrics listener failed",
					Metadata: map[string]any{"address": s.metrics.Addr, "error": err.Error()},
				})
			}
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.metrics.Shutdown(ctx)
	}
	return s.server.Stop()
}

// Build assembles a volume server from cfg. The volume is loaded from
// cfg.DataDir; when none exists it is formatted with the configured
// geometry.
func Build(cfg *config.Config) (runnable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ls, closeLog, err := NewLogService(cfg)
	if err != nil {
		return nil, err
	}

	vol, err := OpenVolume(cfg, ls)
	if err != nil {
		closeLog()
		return nil, err
	}
	if !vol.Formatted {
		if _, err := vol.Format(cfg.Volume.CapacityBytes, cfg.Volume.ClusterSize); err != nil {
			vol.Close()
			closeLog()
			return nil, err
		}
	}

	comm, err := NewCommunicator(cfg.Server.Transport, cfg.Server.Listen, ls)
	if err != nil {
		vol.Close()
		closeLog()
		return nil, err
	}

	srv := &singleNodeServer{
		server:   server.NewVolumeServer(comm, volume_service.NewMetricsVolumeService(vol), ls),
		volume:   vol,
		ls:       ls,
		closeLog: closeLog,
	}
	if cfg.Server.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv.metrics = &http.Server{
			Addr:              cfg.Server.MetricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return srv, nil
}
