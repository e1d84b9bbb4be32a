package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/voiceguard/pkg/cli"
)

var (
	ctxSpeakerIDURL  string
	ctxSpeakerIDKey  string
	ctxVoiceCloneURL string
	ctxVoiceCloneKey string
	ctxDataRoot      string
	ctxArtifactDir   string
	ctxStoreDir      string
	ctxConverterBin  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage CLI configuration contexts.

Contexts hold service credentials and local paths, similar to
kubectl's context management.`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context.

Examples:
  voiceguard config add-context lab \
    --speakerid-url https://sv.example.com --speakerid-key KEY \
    --voiceclone-url https://vc.example.com --voiceclone-key KEY \
    --data-root /data --store-dir ~/.voiceguard/runs`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := &cli.Context{
			DataRoot:     ctxDataRoot,
			ArtifactDir:  ctxArtifactDir,
			StoreDir:     ctxStoreDir,
			ConverterBin: ctxConverterBin,
		}
		if ctxSpeakerIDKey != "" || ctxSpeakerIDURL != "" {
			ctx.SpeakerID = &cli.ServiceCredentials{BaseURL: ctxSpeakerIDURL, APIKey: ctxSpeakerIDKey}
		}
		if ctxVoiceCloneKey != "" || ctxVoiceCloneURL != "" {
			ctx.VoiceClone = &cli.ServiceCredentials{BaseURL: ctxVoiceCloneURL, APIKey: ctxVoiceCloneKey}
		}
		if err := globalConfig.AddContext(args[0], ctx); err != nil {
			return err
		}
		if globalConfig.CurrentContext == "" {
			if err := globalConfig.UseContext(args[0]); err != nil {
				return err
			}
		}
		cli.PrintSuccess("context %q added", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalConfig.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("switched to context %q", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalConfig.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("context %q deleted", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range globalConfig.ListContexts() {
			marker := "  "
			if name == globalConfig.CurrentContext {
				marker = "* "
			}
			fmt.Println(marker + name)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a context with masked credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		ctx, err := globalConfig.ResolveContext(name)
		if err != nil {
			return err
		}

		shown := *ctx
		if shown.SpeakerID != nil {
			creds := *shown.SpeakerID
			creds.APIKey = cli.MaskAPIKey(creds.APIKey)
			shown.SpeakerID = &creds
		}
		if shown.VoiceClone != nil {
			creds := *shown.VoiceClone
			creds.APIKey = cli.MaskAPIKey(creds.APIKey)
			shown.VoiceClone = &creds
		}
		return outputResult(&shown)
	},
}

func init() {
	flags := configAddContextCmd.Flags()
	flags.StringVar(&ctxSpeakerIDURL, "speakerid-url", "", "verification service base URL")
	flags.StringVar(&ctxSpeakerIDKey, "speakerid-key", "", "verification service API key")
	flags.StringVar(&ctxVoiceCloneURL, "voiceclone-url", "", "voice-cloning service base URL")
	flags.StringVar(&ctxVoiceCloneKey, "voiceclone-key", "", "voice-cloning service API key")
	flags.StringVar(&ctxDataRoot, "data-root", "", "directory holding the evaluation corpora")
	flags.StringVar(&ctxArtifactDir, "artifact-dir", "", "directory for synthesized and degraded audio")
	flags.StringVar(&ctxStoreDir, "store-dir", "", "run-result database directory")
	flags.StringVar(&ctxConverterBin, "converter-bin", "", "local voice-conversion binary")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configShowCmd)
}
