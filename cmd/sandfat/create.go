package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/spf13/cobra"
)

var (
	createContent  string
	createFromFile string
)

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createContent, "content", "", "file content")
	createCmd.Flags().StringVar(&createFromFile, "from-file", "", "read the content from this host file")
	createCmd.MarkFlagsMutuallyExclusive("content", "from-file")
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a file and print its cluster chain",
	Long:  "Create a file. The content comes from --content, --from-file, or standard input when neither is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := createData(cmd)
		if err != nil {
			return err
		}
		return withVolume(func(cfg *config.Config, vs volume_service.VolumeService) error {
			chain, err := vs.CreateFile(args[0], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d bytes, %d clusters): %s\n", args[0], len(data), len(chain), formatChain(chain))
			return nil
		})
	},
}

func createData(cmd *cobra.Command) ([]byte, error) {
	switch {
	case cmd.Flags().Changed("content"):
		return []byte(createContent), nil
	case createFromFile != "":
		return os.ReadFile(createFromFile)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Join(errors.New("failed to read standard input"), err)
		}
		return data, nil
	}
}
