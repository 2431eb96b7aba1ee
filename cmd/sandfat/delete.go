package main

import (
	"fmt"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a file and free its clusters",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			if err := vs.DeleteFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}
