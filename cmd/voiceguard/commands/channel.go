package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/voiceguard/pkg/audio/channel"
	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/cli"
)

var (
	channelKind    string
	channelProfile string
	channelSeed    uint64
	channelInput   string
)

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Degrade audio through channel simulators",
}

var channelDegradeCmd = &cobra.Command{
	Use:   "degrade",
	Short: "Run a WAV file through a channel simulator",
	Long: `Run a WAV file through a channel simulator.

Kinds:
  air   - over-the-air playback: reflections, noise, lowpass
  line  - telephony: narrowband resampling and bandpass

Examples:
  voiceguard channel degrade -i clean.wav -o degraded.wav --kind air --seed 7
  voiceguard channel degrade -i clean.wav -o degraded.wav --kind line --profile voip`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if channelInput == "" || getOutputFile() == "" {
			return fmt.Errorf("-i and -o are required")
		}

		kind, err := channel.ParseKind(channelKind)
		if err != nil {
			return err
		}
		if kind == channel.KindNone {
			return fmt.Errorf("--kind is required (air or line)")
		}

		var sim channel.Simulator
		switch kind {
		case channel.KindOpenAir:
			cfg := channel.DefaultOpenAirConfig()
			cfg.Seed = channelSeed
			sim, err = channel.NewOpenAir(cfg)
		case channel.KindLine:
			line := channel.NewLine()
			sim, err = line.Simulator(channelProfile)
		}
		if err != nil {
			return err
		}

		in, err := pcm.ReadWAVFile(channelInput, 0)
		if err != nil {
			return fmt.Errorf("read %s: %w", channelInput, err)
		}
		printVerbose("Input: %d samples at %d Hz", in.Len(), in.Rate)

		out, err := sim.Degrade(in)
		if err != nil {
			return err
		}
		if err := pcm.WriteWAVFile(getOutputFile(), out); err != nil {
			return fmt.Errorf("write %s: %w", getOutputFile(), err)
		}
		cli.PrintSuccess("wrote %s (%d samples)", getOutputFile(), out.Len())
		return nil
	},
}

func init() {
	channelDegradeCmd.Flags().StringVarP(&channelInput, "input", "i", "", "input WAV file")
	channelDegradeCmd.Flags().StringVar(&channelKind, "kind", "", "simulator kind (air or line)")
	channelDegradeCmd.Flags().StringVar(&channelProfile, "profile", channel.ProfilePhone, "line profile (phone or voip)")
	channelDegradeCmd.Flags().Uint64Var(&channelSeed, "seed", 0, "noise seed for the air simulator (0 = random)")

	channelCmd.AddCommand(channelDegradeCmd)
}
