package volume_service

import (
	"sync"

	"github.com/AnishMulay/sandfat/internal/space_service"
	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	volumePrometheusMetrics sync.Once

	volumeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sandfat",
			Subsystem: "volume",
			Name:      "operations_total",
			Help:      "Number of volume commands executed, by command and result.",
		},
		[]string{"operation", "result"})
	volumeClusters = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sandfat",
			Subsystem: "volume",
			Name:      "clusters",
			Help:      "Number of clusters in the allocation table, by state.",
		},
		[]string{"state"})
	volumeFiles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sandfat",
			Subsystem: "volume",
			Name:      "files",
			Help:      "Number of files in the namespace.",
		})
)

type metricsVolumeService struct {
	base VolumeService
}

// NewMetricsVolumeService creates a decorator for VolumeService that
// counts commands by result and exposes cluster usage as gauges.
func NewMetricsVolumeService(base VolumeService) VolumeService {
	volumePrometheusMetrics.Do(func() {
		prometheus.MustRegister(volumeOperations)
		prometheus.MustRegister(volumeClusters)
		prometheus.MustRegister(volumeFiles)
	})
	vs := &metricsVolumeService{base: base}
	if stats, err := base.Stats(); err == nil {
		vs.setGauges(stats)
	}
	return vs
}

func (vs *metricsVolumeService) observe(operation string, err error) {
	volumeOperations.WithLabelValues(operation, volume.ErrorKind(err)).Inc()
}

func (vs *metricsVolumeService) setGauges(stats space_service.Stats) {
	volumeClusters.WithLabelValues("free").Set(float64(stats.FreeClusters))
	volumeClusters.WithLabelValues("used").Set(float64(stats.UsedClusters))
	volumeFiles.Set(float64(len(stats.Files)))
}

func (vs *metricsVolumeService) refresh() {
	if stats, err := vs.base.Stats(); err == nil {
		vs.setGauges(stats)
	}
}

func (vs *metricsVolumeService) Format(capacityBytes, clusterSize int64) (space_service.Stats, error) {
	stats, err := vs.base.Format(capacityBytes, clusterSize)
	vs.observe("format", err)
	if err == nil {
		vs.setGauges(stats)
	}
	return stats, err
}

func (vs *metricsVolumeService) Stats() (space_service.Stats, error) {
	stats, err := vs.base.Stats()
	vs.observe("stats", err)
	return stats, err
}

func (vs *metricsVolumeService) CreateFile(name string, data []byte) ([]int, error) {
	chain, err := vs.base.CreateFile(name, data)
	vs.observe("create", err)
	vs.refresh()
	return chain, err
}

func (vs *metricsVolumeService) CopyFile(src, dest string) ([]int, error) {
	chain, err := vs.base.CopyFile(src, dest)
	vs.observe("copy", err)
	vs.refresh()
	return chain, err
}

func (vs *metricsVolumeService) DeleteFile(name string) error {
	err := vs.base.DeleteFile(name)
	vs.observe("delete", err)
	vs.refresh()
	return err
}

func (vs *metricsVolumeService) ReadFile(name string) ([]byte, error) {
	data, err := vs.base.ReadFile(name)
	vs.observe("read", err)
	return data, err
}

func (vs *metricsVolumeService) FileExists(name string) (bool, error) {
	exists, err := vs.base.FileExists(name)
	vs.observe("exists", err)
	return exists, err
}

func (vs *metricsVolumeService) ListFiles() ([]string, error) {
	names, err := vs.base.ListFiles()
	vs.observe("list", err)
	return names, err
}

func (vs *metricsVolumeService) ChainOf(name string) ([]int, error) {
	chain, err := vs.base.ChainOf(name)
	vs.observe("chain", err)
	return chain, err
}

func (vs *metricsVolumeService) SlackOf(name string) (int64, error) {
	slack, err := vs.base.SlackOf(name)
	vs.observe("slack", err)
	return slack, err
}

func (vs *metricsVolumeService) Check() error {
	err := vs.base.Check()
	vs.observe("check", err)
	return err
}
