package main

import (
	"fmt"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(copyCmd)
}

var copyCmd = &cobra.Command{
	Use:     "copy [source] [destination]",
	Aliases: []string{"cp"},
	Short:   "Copy a file into a new cluster chain",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			chain, err := vs.CopyFile(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s: %s\n", args[0], args[1], formatChain(chain))
			return nil
		})
	},
}
