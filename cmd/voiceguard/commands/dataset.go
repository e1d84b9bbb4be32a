package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/voiceguard/pkg/dataset"
)

var datasetMinFiles int

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect evaluation corpora",
}

var datasetSpeakersCmd = &cobra.Command{
	Use:   "speakers <dataset>",
	Short: "List speakers with enough audio for a run",
	Long: `List speakers with enough audio for a run.

Examples:
  voiceguard -c lab dataset speakers VoxCeleb1
  voiceguard -c lab dataset speakers LibriSpeech --min-files 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}
		if cliCtx.DataRoot == "" {
			return fmt.Errorf("context has no data_root configured")
		}

		name, err := dataset.ParseName(args[0])
		if err != nil {
			return err
		}
		loader, err := dataset.New(name, cliCtx.DataRoot)
		if err != nil {
			return err
		}

		ids, err := loader.Speakers(datasetMinFiles)
		if err != nil {
			return err
		}
		printVerbose("%d speakers with at least %d files", len(ids), datasetMinFiles)
		return outputResult(map[string]any{
			"dataset":   string(name),
			"min_files": datasetMinFiles,
			"speakers":  ids,
		})
	},
}

func init() {
	datasetSpeakersCmd.Flags().IntVar(&datasetMinFiles, "min-files", 5, "minimum number of audio files per speaker")
	datasetCmd.AddCommand(datasetSpeakersCmd)
}
