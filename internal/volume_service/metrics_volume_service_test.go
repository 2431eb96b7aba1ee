package volume_service

import (
	"testing"

	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsVolumeService(t *testing.T) {
	base, _ := newInMemoryVolume(t)
	vs := NewMetricsVolumeService(base)

	okCreates := testutil.ToFloat64(volumeOperations.WithLabelValues("create", volume.KindOK))
	failedCreates := testutil.ToFloat64(volumeOperations.WithLabelValues("create", volume.KindAlreadyExists))

	_, err := vs.Format(8*1024, 1024)
	require.NoError(t, err)
	require.Equal(t, float64(8), testutil.ToFloat64(volumeClusters.WithLabelValues("free")))

	_, err = vs.CreateFile("a", make([]byte, 2048))
	require.NoError(t, err)
	_, err = vs.CreateFile("a", []byte("again"))
	require.ErrorIs(t, err, volume.ErrAlreadyExists)

	require.Equal(t, okCreates+1, testutil.ToFloat64(volumeOperations.WithLabelValues("create", volume.KindOK)))
	require.Equal(t, failedCreates+1, testutil.ToFloat64(volumeOperations.WithLabelValues("create", volume.KindAlreadyExists)))
	require.Equal(t, float64(2), testutil.ToFloat64(volumeClusters.WithLabelValues("used")))
	require.Equal(t, float64(6), testutil.ToFloat64(volumeClusters.WithLabelValues("free")))
	require.Equal(t, float64(1), testutil.ToFloat64(volumeFiles))
}
