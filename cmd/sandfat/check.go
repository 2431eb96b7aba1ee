package main

import (
	"fmt"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the allocation table against the file chains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			if err := vs.Check(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Volume is consistent")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sandfat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "sandfat v0.1 -- HEAD")
	},
}
