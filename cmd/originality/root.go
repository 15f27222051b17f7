package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/RishiKendai/aegis-origin/internal/check"
	"github.com/RishiKendai/aegis-origin/internal/config"
	"github.com/RishiKendai/aegis-origin/internal/configs/env"
	"github.com/RishiKendai/aegis-origin/internal/corpus"
	"github.com/RishiKendai/aegis-origin/internal/fetch"
	"github.com/RishiKendai/aegis-origin/internal/logger"
	"github.com/RishiKendai/aegis-origin/internal/models"
	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/RishiKendai/aegis-origin/internal/report"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	repoURL        string
	destination    string
	targetDir      string
	referenceDir   string
	patterns       []string
	minTokenLength int
	workers        int
	logLevel       string
	envFile        string
}

func newRootCommand() *cobra.Command {
	flags := &checkFlags{}

	rootCmd := &cobra.Command{
		Use:   "originality",
		Short: "Estimate how similar a codebase is to a reference corpus",
		Long: "originality tokenizes every matching file of a target codebase, builds a\n" +
			"vocabulary from the target files and reports, for each target file, the\n" +
			"highest cosine similarity against any file of the reference corpus.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flags.repoURL, "repo", "", "Git repository URL to clone and analyse")
	f.StringVar(&flags.destination, "dest", "", "Directory to clone the repository into (kept after the run)")
	f.StringVar(&flags.targetDir, "dir", "", "Local directory to analyse instead of cloning")
	f.StringVar(&flags.referenceDir, "reference", "", "Reference corpus directory (overrides REFERENCE_CORPUS_DIR)")
	f.StringArrayVar(&flags.patterns, "pattern", nil, "Filename regex to include, repeatable (overrides EXTENSION_PATTERNS)")
	f.IntVar(&flags.minTokenLength, "min-token-length", 0, "Ignore tokens shorter than this many characters (overrides MIN_TOKEN_LENGTH)")
	f.IntVar(&flags.workers, "workers", -1, "Scoring workers, 0 sizes from CPU count, 1 scores sequentially")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	f.StringVar(&flags.envFile, "env-file", ".env", "Environment file to load")
	rootCmd.MarkFlagsMutuallyExclusive("repo", "dir")
	rootCmd.MarkFlagsOneRequired("repo", "dir")

	return rootCmd
}

func runCheck(cmd *cobra.Command, flags *checkFlags) error {
	if err := env.LoadEnv(flags.envFile); err != nil && cmd.Flags().Changed("env-file") {
		return fmt.Errorf("failed to load env file %s: %w", flags.envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg, flags)

	logger.Init(cfg.LogLevel)

	if err := cfg.ValidateAnalysis(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if flags.destination != "" && flags.repoURL == "" {
		return errors.New("--dest requires --repo")
	}

	patterns, err := cfg.CompilePatterns()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *plagiarism.WorkerPool
	if cfg.ScoringWorkers != 1 {
		pool = plagiarism.NewWorkerPool(ctx, cfg.ScoringWorkers)
		defer pool.Close()
	}

	svc := check.NewService(
		check.Settings{
			ReferenceDir:   cfg.ReferenceCorpusDir,
			WorkspaceDir:   cfg.WorkspaceDir,
			MinTokenLength: cfg.MinTokenLength,
		},
		fetch.NewGitFetcher(cfg.FetchDepth).AllowLocal(),
		corpus.NewLoader(patterns),
		pool,
	)

	outcome, err := svc.Execute(ctx, &models.CheckRequest{
		RepoURL:     flags.repoURL,
		Destination: flags.destination,
		TargetDir:   flags.targetDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(outcome.Summary, outcome.TargetDir))
	fmt.Fprintf(cmd.OutOrStdout(), "Average Similarity: %s\n", report.Percent(outcome.Summary.AverageSimilarity))
	fmt.Fprintf(cmd.OutOrStdout(), "Total Elapsed Time: %.2f seconds\n", outcome.Elapsed.Seconds())
	if outcome.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped unreadable files: %d\n", outcome.Skipped)
	}
	return nil
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags *checkFlags) {
	f := cmd.Flags()
	if f.Changed("reference") {
		cfg.ReferenceCorpusDir = flags.referenceDir
	}
	if f.Changed("pattern") {
		cfg.ExtensionPatterns = flags.patterns
	}
	if f.Changed("min-token-length") {
		cfg.MinTokenLength = flags.minTokenLength
	}
	if f.Changed("workers") {
		cfg.ScoringWorkers = flags.workers
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
}

