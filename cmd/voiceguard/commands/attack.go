package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/voiceguard/pkg/attack"
	"github.com/haivivi/voiceguard/pkg/cli"
)

var (
	attackSpeaker string
	attackText    string
)

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Run and inspect spoofing-robustness evaluations",
	Long: `Run and inspect spoofing-robustness evaluations.

Example request file (run.yaml):
  dataset: VoxCeleb1
  engine: api
  backend: remote
  task: verification
  channel: air
  threshold: 0.5
  enroll_count: 3
  test_count: 2
  attack_count: 1`,
}

var attackRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one attack against a target speaker",
	Long: `Run one attack against a target speaker.

Examples:
  voiceguard -c lab attack run -f run.yaml --speaker id10001 --text "open the door"
  voiceguard -c lab attack run -f run.yaml --speaker id10001 --text "hi" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireInputFile(); err != nil {
			return err
		}
		if attackSpeaker == "" || attackText == "" {
			return fmt.Errorf("--speaker and --text are required")
		}

		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var cfg attack.Config
		if err := cli.LoadRequest(getInputFile(), &cfg); err != nil {
			return err
		}

		printVerbose("Using context: %s", cliCtx.Name)
		printVerbose("Dataset: %s, backend: %s, task: %s", cfg.Dataset, cfg.Backend, cfg.Task)

		ctx := context.Background()
		runner, cleanup, err := buildRunner(ctx, cliCtx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := runner.Run(ctx, attackSpeaker, attackText)
		if err != nil {
			return fmt.Errorf("attack run failed: %w", err)
		}

		if store, err := openStore(cliCtx); err == nil {
			if err := store.Save(result); err != nil {
				cli.PrintWarning("failed to persist run: %v", err)
			} else {
				printVerbose("Run stored as %s", result.ID)
			}
			store.Close()
		} else {
			printVerbose("Run not persisted: %v", err)
		}

		if isJSONOutput() || getOutputFile() != "" {
			return outputResult(resultPayload(result))
		}
		renderRun(result)
		return nil
	},
}

var attackShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Re-render a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}
		store, err := openStore(cliCtx)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if isJSONOutput() || getOutputFile() != "" {
			return outputResult(resultPayload(result))
		}
		renderRun(result)
		return nil
	},
}

var attackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}
		store, err := openStore(cliCtx)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List()
		if err != nil {
			return err
		}

		type row struct {
			ID      string  `json:"id"`
			Speaker string  `json:"speaker"`
			Task    string  `json:"task"`
			Spoofed float64 `json:"spoof_success_rate"`
			Created string  `json:"created_at"`
		}
		rows := make([]row, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, row{
				ID:      r.ID,
				Speaker: r.Speaker,
				Task:    string(r.Config.Task),
				Spoofed: attack.Summarize(r).SpoofSuccessRate(),
				Created: r.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return outputResult(rows)
	},
}

// resultPayload attaches the score summary to a run for structured
// output.
func resultPayload(r *attack.RunResult) map[string]any {
	return map[string]any{
		"run":     r,
		"summary": attack.Summarize(r),
	}
}

// renderRun prints a styled report for terminal use.
func renderRun(r *attack.RunResult) {
	styles := cli.NewStyles(cli.DefaultTheme)
	summary := attack.Summarize(r)

	fmt.Println(styles.Title.Render("Attack run " + r.ID))
	fmt.Print(styles.RenderKV("Run", [][2]string{
		{"speaker", r.Speaker},
		{"text", r.Text},
		{"dataset", r.Config.Dataset},
		{"backend", string(r.Config.Backend)},
		{"task", string(r.Config.Task)},
		{"channel", channelLabel(r)},
		{"enrolled", fmt.Sprintf("%v", r.Enrolled)},
	}))

	fmt.Print(styles.RenderTable("Baseline (real speech)", sampleRows(r.Baseline)))
	fmt.Print(styles.RenderTable("Attacks (cloned speech)", sampleRows(r.Attacks)))

	fmt.Print(styles.RenderKV("Summary", [][2]string{
		{"baseline accept rate", fmt.Sprintf("%.0f%%", summary.Baseline.AcceptRate()*100)},
		{"spoof success rate", fmt.Sprintf("%.0f%%", summary.SpoofSuccessRate()*100)},
		{"baseline scores", scoreLine(summary.Baseline)},
		{"attack scores", scoreLine(summary.Attack)},
	}))
}

func channelLabel(r *attack.RunResult) string {
	if r.Config.Channel == "" {
		return "none"
	}
	return string(r.Config.Channel)
}

func scoreLine(s attack.ScoreStats) string {
	if s.Count == 0 {
		return "n/a"
	}
	return fmt.Sprintf("mean %.3f, min %.3f, max %.3f", s.Mean, s.Min, s.Max)
}

func sampleRows(results []attack.SampleResult) []cli.ReportRow {
	rows := make([]cli.ReportRow, 0, len(results))
	for _, res := range results {
		row := cli.ReportRow{Source: res.Source}
		switch {
		case res.Err != "":
			row.Verdict = "error"
			row.Score = res.Err
			row.Failed = true
		case res.Outcome.Accepted:
			row.Verdict = "accept"
			row.Score = scoreWithSpeaker(res)
			row.Accepted = true
		default:
			row.Verdict = "reject"
			row.Score = scoreWithSpeaker(res)
		}
		rows = append(rows, row)
	}
	return rows
}

func scoreWithSpeaker(res attack.SampleResult) string {
	if res.Outcome.SpeakerID != "" {
		return fmt.Sprintf("%.3f (%s)", res.Outcome.Score, res.Outcome.SpeakerID)
	}
	return fmt.Sprintf("%.3f", res.Outcome.Score)
}

func init() {
	attackRunCmd.Flags().StringVar(&attackSpeaker, "speaker", "", "target speaker id in the dataset")
	attackRunCmd.Flags().StringVar(&attackText, "text", "", "sentence to synthesize for the attack")

	attackCmd.AddCommand(attackRunCmd)
	attackCmd.AddCommand(attackShowCmd)
	attackCmd.AddCommand(attackListCmd)
}
