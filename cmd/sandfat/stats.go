package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/space_service"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

var statsJSON bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the statistics as JSON")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show space usage of the volume",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			stats, err := vs.Stats()
			if err != nil {
				return err
			}
			if statsJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		})
	},
}

func printStats(w io.Writer, stats space_service.Stats) {
	fmt.Fprintf(w, "Volume:         %s\n", stats.VolumeID)
	fmt.Fprintf(w, "Capacity:       %d bytes\n", stats.CapacityBytes)
	fmt.Fprintf(w, "Cluster size:   %d bytes\n", stats.ClusterSize)
	fmt.Fprintf(w, "Clusters:       %d total, %d used, %d free\n", stats.TotalClusters, stats.UsedClusters, stats.FreeClusters)
	fmt.Fprintf(w, "Used space:     %d bytes\n", stats.UsedBytes)
	fmt.Fprintf(w, "Free space:     %d bytes\n", stats.FreeBytes)
	fmt.Fprintf(w, "Slack:          %d bytes\n", stats.SlackBytes)
	if stats.UnaddressableBytes > 0 {
		fmt.Fprintf(w, "Unaddressable:  %d bytes\n", stats.UnaddressableBytes)
	}
	fmt.Fprintf(w, "Files:          %d\n", len(stats.Files))
	for _, name := range stats.Files {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
