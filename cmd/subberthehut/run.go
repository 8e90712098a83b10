package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subberthehut/internal/config"
	"subberthehut/internal/language"
	"subberthehut/internal/logging"
	"subberthehut/internal/services"
	"subberthehut/internal/subtitles"
	"subberthehut/internal/subtitles/opensubtitles"
)

// runSettings is the configuration merged with explicitly set flags.
type runSettings struct {
	languages  []string
	limit      int
	policy     subtitles.Policy
	force      bool
	sameName   bool
	exitOnFail bool
	quiet      int
}

type runSummary struct {
	succeeded int
	skipped   int
	failed    int
}

func (s runSummary) total() int { return s.succeeded + s.skipped + s.failed }

func resolveSettings(cmd *cobra.Command, cfg *config.Config, flags *fetchFlags) (runSettings, error) {
	settings := runSettings{
		languages:  cfg.Search.Languages,
		limit:      cfg.Search.Limit,
		force:      cfg.Output.Force,
		sameName:   cfg.Output.SameName,
		exitOnFail: cfg.Output.ExitOnFail,
		quiet:      flags.quiet,
		policy: subtitles.Policy{
			AlwaysAsk: cfg.Selection.AlwaysAsk,
			NeverAsk:  cfg.Selection.NeverAsk,
		},
	}
	scope, err := subtitles.ParseScope(cfg.Search.Scope)
	if err != nil {
		return runSettings{}, err
	}
	settings.policy.Scope = scope

	changed := cmd.Flags().Changed
	if changed("lang") {
		langs, err := language.ParseList(flags.languages)
		if err != nil {
			return runSettings{}, fmt.Errorf("--lang: %w", err)
		}
		settings.languages = langs
	}
	if changed("limit") {
		if flags.limit < 1 {
			return runSettings{}, errors.New("--limit must be at least 1")
		}
		settings.limit = flags.limit
	}
	if changed("always-ask") {
		settings.policy.AlwaysAsk = flags.alwaysAsk
	}
	if changed("never-ask") {
		settings.policy.NeverAsk = flags.neverAsk
	}
	if changed("force") {
		settings.force = flags.force
	}
	if changed("same-name") {
		settings.sameName = flags.sameName
	}
	if changed("exit-on-fail") {
		settings.exitOnFail = flags.exitOnFail
	}
	if flags.scope.set {
		settings.policy.Scope = flags.scope.current
	}
	return settings, nil
}

func runFetch(cmd *cobra.Command, ctx *commandContext, flags *fetchFlags, files []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, cfg, flags)
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg, settings.quiet)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	runID := uuid.NewString()
	runCtx := services.WithRequestID(cmd.Context(), runID)
	runLogger := logging.WithContext(runCtx, logger)
	runLogger.Debug("run started",
		logging.Int("files", len(files)),
		logging.String("languages", language.Join(settings.languages)),
		logging.String("scope", settings.policy.Scope.String()),
		logging.String("config", ctx.configPath),
	)

	client, err := opensubtitles.New(opensubtitles.Config{
		Endpoint:  cfg.Catalog.Endpoint,
		UserAgent: cfg.Catalog.UserAgent,
		Language:  cfg.Catalog.LoginLanguage,
		Username:  cfg.Catalog.Username,
		Password:  cfg.Catalog.Password,
		Timeout:   cfg.Timeout(),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.Login(runCtx)
	if err != nil {
		return services.Wrap(services.ErrRemoteFault, "login", "LogIn", client.Endpoint(), err)
	}
	defer logout(runCtx, client, session, runLogger)

	out := cmd.OutOrStdout()
	display := newCandidateTable(out)
	selector := subtitles.NewSelector(display, cmd.InOrStdin(), out)
	opts := []subtitles.ServiceOption{subtitles.WithLogger(logger)}
	if settings.quiet == 0 && shouldColorize(cmd.ErrOrStderr()) {
		opts = append(opts, subtitles.WithProgress(newProgressFactory(cmd.ErrOrStderr())))
	}
	svc := subtitles.NewService(client, session, selector, opts...)

	summary := processFiles(runCtx, svc, files, settings, out, logger)
	runLogger.Debug("run finished",
		logging.Int("succeeded", summary.succeeded),
		logging.Int("skipped", summary.skipped),
		logging.Int("failed", summary.failed),
	)
	if summary.succeeded != len(files) {
		return fmt.Errorf("%d of %d files did not get a subtitle", len(files)-summary.succeeded, len(files))
	}
	return nil
}

func processFiles(ctx context.Context, svc *subtitles.Service, files []string, settings runSettings, out io.Writer, logger *slog.Logger) runSummary {
	colorize := shouldColorize(out)
	var summary runSummary
	for i, path := range files {
		fileCtx := services.WithFile(ctx, path, i+1)
		fileLogger := logging.WithContext(fileCtx, logger)
		result, err := svc.Fetch(fileCtx, subtitles.FetchRequest{
			SourcePath: path,
			Languages:  settings.languages,
			Limit:      settings.limit,
			Policy:     settings.policy,
			SameName:   settings.sameName,
			Overwrite:  settings.force,
		})

		label := filepath.Base(path)
		switch services.Classify(err) {
		case services.OutcomeSucceeded:
			summary.succeeded++
			if settings.quiet == 0 {
				fmt.Fprintln(out, renderOutcomeLine(i+1, len(files), label, services.OutcomeSucceeded, result.Destination, colorize))
			}
		case services.OutcomeSkipped:
			summary.skipped++
			logging.WarnWithContext(fileLogger, "no subtitles found", "subtitle_no_results",
				logging.String(logging.FieldErrorHint, "try --lang all or a name search"),
				logging.String(logging.FieldImpact, "file skipped"),
			)
			if settings.quiet == 0 {
				fmt.Fprintln(out, renderOutcomeLine(i+1, len(files), label, services.OutcomeSkipped, "no subtitles found", colorize))
			}
		default:
			summary.failed++
			logging.ErrorWithContext(fileLogger, "subtitle download failed", "subtitle_fetch_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, errorHint(err)),
			)
			if settings.quiet == 0 {
				fmt.Fprintln(out, renderOutcomeLine(i+1, len(files), label, services.OutcomeFailed, services.Kind(err), colorize))
			}
		}

		if summary.failed > 0 && settings.exitOnFail {
			if remaining := len(files) - summary.total(); remaining > 0 {
				logging.WarnWithContext(logging.WithContext(ctx, logger), "stopping after failure", "run_aborted",
					logging.Int("remaining_files", remaining),
					logging.String(logging.FieldErrorHint, "drop --exit-on-fail to continue past failures"),
					logging.String(logging.FieldImpact, "remaining files not processed"),
				)
			}
			break
		}
	}
	return summary
}

func logout(ctx context.Context, client *opensubtitles.Client, session opensubtitles.Session, logger *slog.Logger) {
	if err := client.Logout(ctx, session); err != nil {
		logging.WarnWithContext(logger, "catalog logout failed", "catalog_logout_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the session expires on its own"),
			logging.String(logging.FieldImpact, "none"),
		)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrAlreadyExists):
		return "use --force to overwrite"
	case errors.Is(err, services.ErrRemoteFault):
		return "check the catalog endpoint and user agent"
	case errors.Is(err, services.ErrParse):
		return "the catalog returned unexpected data"
	case errors.Is(err, services.ErrDecode):
		return "the downloaded subtitle is corrupt; the partial file is unusable"
	default:
		return "check file paths and permissions"
	}
}
