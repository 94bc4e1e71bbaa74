package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vetgate/internal/analyzers"
	"vetgate/internal/config"
	"vetgate/internal/gitctx"
	"vetgate/internal/github"
	"vetgate/internal/output"
	"vetgate/internal/pipeline"
)

var (
	flagProvider      string
	flagModel         string
	flagFormat        string
	flagOut           string
	flagMinConfidence float64
	flagMaxComments   int
	flagAutoReject    bool
	flagThreshold     int
	flagPostComment   bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, markdown, json)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().Float64Var(&flagMinConfidence, "min-confidence", 0, "Minimum AI confidence to keep suggestions")
	cmd.Flags().IntVar(&flagMaxComments, "max-comments", 0, "Maximum AI suggestions to keep")
	cmd.Flags().BoolVar(&flagAutoReject, "auto-reject", false, "Enable the auto-reject gate")
	cmd.Flags().IntVar(&flagThreshold, "overall-threshold", 0, "Auto-reject when total violations exceed this")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagMinConfidence > 0 {
		m["minConfidence"] = fmt.Sprintf("%g", flagMinConfidence)
	}
	if flagMaxComments > 0 {
		m["maxComments"] = fmt.Sprintf("%d", flagMaxComments)
	}
	if flagAutoReject {
		m["autoReject"] = "true"
	}
	if flagThreshold > 0 {
		m["overallThreshold"] = fmt.Sprintf("%d", flagThreshold)
	}
	return m
}

// runReview drives one full pipeline run and renders the report. The exit
// code reflects the auto-reject decision.
func runReview(in analyzers.Input) {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = configExitCode(err)
		return
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = configExitCode(err)
		return
	}

	rep, err := p.Run(context.Background(), in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if err := output.WriteReport(rep, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if rep.AutoReject {
		fmt.Fprintf(os.Stderr, "%d violations over threshold %d\n",
			rep.OverallViolations, cfg.AutoReject.OverallThreshold)
		exitCode = ExitRejected
	}
}

func configExitCode(err error) int {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return ExitConfigError
	}
	return ExitRuntimeError
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a change-set",
	Long:  "Review a change-set with rule-based analyzers and an AI reviewer. Use subcommands to choose the input.",
}

var reviewDiffCmd = &cobra.Command{
	Use:   "diff <file>",
	Short: "Review a unified diff read from a file (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in analyzers.Input
		if args[0] == "-" {
			data, err := readAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			in = analyzers.Input{Diff: data, Mode: "diff"}
		} else {
			var err error
			in, err = gitctx.FromDiffFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
		}
		runReview(in)
		return nil
	},
}

var reviewStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes (index vs HEAD)",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := gitctx.Staged()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(in)
		return nil
	},
}

var flagBase string

var reviewRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Review a revision range (e.g., origin/main..HEAD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := gitctx.Range(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(in)
		return nil
	},
}

var reviewCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Review full contents of files changed since a base revision",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := gitctx.Checkout(flagBase)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(in)
		return nil
	},
}

var reviewPRCmd = &cobra.Command{
	Use:   "pr <owner/repo#number>",
	Short: "Review a GitHub pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, number, err := github.ParsePRRef(args[0])
		if err != nil {
			return err
		}
		client, err := github.NewClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		ctx := context.Background()
		diff, err := client.PRDiff(ctx, owner, repo, number)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if flagPostComment {
			runReviewWithComment(ctx, client, owner, repo, number,
				analyzers.Input{Diff: diff, Mode: "diff"})
			return nil
		}
		runReview(analyzers.Input{Diff: diff, Mode: "diff"})
		return nil
	},
}

// runReviewWithComment renders the report as markdown and posts it back to
// the PR in addition to the local output.
func runReviewWithComment(ctx context.Context, client *github.Client, owner, repo string, number int, in analyzers.Input) {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = configExitCode(err)
		return
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = configExitCode(err)
		return
	}
	rep, err := p.Run(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	var body strings.Builder
	md, _ := output.GetWriter("markdown")
	if err := md.Write(&body, rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering comment: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if err := client.PostComment(ctx, owner, repo, number, body.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting comment: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if err := output.WriteReport(rep, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if rep.AutoReject {
		fmt.Fprintf(os.Stderr, "%d violations over threshold %d\n",
			rep.OverallViolations, cfg.AutoReject.OverallThreshold)
		exitCode = ExitRejected
	}
}

func init() {
	reviewCmd.AddCommand(reviewDiffCmd)
	reviewCmd.AddCommand(reviewStagedCmd)
	reviewCmd.AddCommand(reviewRangeCmd)
	reviewCmd.AddCommand(reviewCheckoutCmd)
	reviewCmd.AddCommand(reviewPRCmd)

	for _, cmd := range []*cobra.Command{
		reviewDiffCmd, reviewStagedCmd, reviewRangeCmd, reviewCheckoutCmd, reviewPRCmd,
	} {
		addReviewFlags(cmd)
	}

	reviewCheckoutCmd.Flags().StringVar(&flagBase, "base", "main", "Base revision to compare against")
	reviewPRCmd.Flags().BoolVar(&flagPostComment, "post-comment", false, "Post the report back to the PR")
}
