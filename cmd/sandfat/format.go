package main

import (
	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

var (
	formatCapacity    int64
	formatClusterSize int64
)

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().Int64Var(&formatCapacity, "capacity", 0, "volume capacity in bytes (default from configuration)")
	formatCmd.Flags().Int64Var(&formatClusterSize, "cluster-size", 0, "cluster size in bytes (default from configuration)")
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Create an empty volume, discarding any existing files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			capacity := cfg.Volume.CapacityBytes
			if cmd.Flags().Changed("capacity") {
				capacity = formatCapacity
			}
			clusterSize := cfg.Volume.ClusterSize
			if cmd.Flags().Changed("cluster-size") {
				clusterSize = formatClusterSize
			}

			stats, err := vs.Format(capacity, clusterSize)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		})
	},
}
