package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/voiceguard/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voiceguard",
	Short: "Voice-authentication spoofing evaluation tool",
	Long: `voiceguard - evaluate speaker-authentication systems against
voice-cloning attacks.

A run enrolls a target speaker from real recordings, measures how the
system treats held-out real speech, then clones the voice and measures
whether synthetic speech is accepted. Probes can optionally pass
through a simulated acoustic or telephony channel first.

Configuration is stored in ~/.voiceguard/ and supports multiple
contexts, similar to kubectl's context management.

Examples:
  # Set up a context with service credentials
  voiceguard config add-context lab --speakerid-key KEY --data-root /data

  # Run an attack described by a request file
  voiceguard -c lab attack run -f run.yaml --speaker id10001 --text "open sesame"

  # Re-render a stored run
  voiceguard -c lab attack show 6dbb5c7e-...`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.voiceguard/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(attackCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(channelCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads the CLI configuration.
func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		cli.PrintError("failed to load config: %v", err)
		os.Exit(1)
	}
}

// getContext resolves the active context.
func getContext() (*cli.Context, error) {
	ctx, err := globalConfig.ResolveContext(contextName)
	if err != nil {
		return nil, fmt.Errorf("%w (use 'voiceguard config add-context' to create one)", err)
	}
	return ctx, nil
}

func getInputFile() string  { return inputFile }
func getOutputFile() string { return outputFile }
func isJSONOutput() bool    { return outputJSON }

func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}

// requireInputFile checks if an input file is provided.
func requireInputFile() error {
	if getInputFile() == "" {
		return fmt.Errorf("input file is required, use -f flag")
	}
	return nil
}

// outputResult writes a result as YAML or JSON.
func outputResult(result any) error {
	format := cli.FormatYAML
	if isJSONOutput() {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{Format: format, File: getOutputFile()})
}
