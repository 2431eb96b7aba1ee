package main

import (
	"fmt"
	"os"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

var readOutput string

func init() {
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(slackCmd)
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "", "write the content to this host file instead of standard output")
}

var existsCmd = &cobra.Command{
	Use:   "exists [name]",
	Short: "Report whether a file exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			exists, err := vs.FileExists(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List file names",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			names, err := vs.ListFiles()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain [name]",
	Short: "Print the cluster chain of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			chain, err := vs.ChainOf(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatChain(chain))
			return nil
		})
	},
}

var slackCmd = &cobra.Command{
	Use:   "slack [name]",
	Short: "Print the unused bytes in the last cluster of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			slack, err := vs.SlackOf(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d bytes\n", slack)
			return nil
		})
	},
}

var readCmd = &cobra.Command{
	Use:   "read [name]",
	Short: "Print the content of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			data, err := vs.ReadFile(args[0])
			if err != nil {
				return err
			}
			if readOutput != "" {
				return os.WriteFile(readOutput, data, 0644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		})
	},
}
