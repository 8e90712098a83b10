package subtitles

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"subberthehut/internal/fingerprint"
	"subberthehut/internal/language"
	"subberthehut/internal/logging"
	"subberthehut/internal/services"
	"subberthehut/internal/subtitles/opensubtitles"
	"subberthehut/internal/textutil"
)

type catalogClient interface {
	Search(ctx context.Context, session opensubtitles.Session, queries []opensubtitles.Query, limit int) ([]opensubtitles.Hit, error)
	Download(ctx context.Context, session opensubtitles.Session, fileID int64) (string, error)
}

// ProgressFactory builds a progress sink for a payload of total encoded bytes.
// It may return nil to disable progress.
type ProgressFactory func(total int64, description string) Progress

// FetchRequest describes one source video.
type FetchRequest struct {
	SourcePath string
	Languages  []string
	Limit      int
	Policy     Policy
	SameName   bool
	Overwrite  bool
}

// FetchResult reports what Fetch wrote.
type FetchResult struct {
	SourcePath         string
	Destination        string
	Fingerprint        fingerprint.Fingerprint
	Candidates         int
	Selection          Selection
	DefaultedExtension bool
	WrittenBytes       int64
}

// Service downloads one subtitle per source video over a shared session.
type Service struct {
	client   catalogClient
	session  opensubtitles.Session
	selector *Selector
	logger   *slog.Logger
	progress ProgressFactory
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for per-file events.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress enables progress reporting during retrieval.
func WithProgress(factory ProgressFactory) ServiceOption {
	return func(s *Service) {
		s.progress = factory
	}
}

// NewService builds a Service. The session is read-only and reused for every
// Fetch.
func NewService(client catalogClient, session opensubtitles.Session, selector *Selector, opts ...ServiceOption) *Service {
	svc := &Service{
		client:   client,
		session:  session,
		selector: selector,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.selector == nil {
		svc.selector = NewSelector(nil, nil, nil)
	}
	return svc
}

// Fetch searches, selects and retrieves one subtitle for req.SourcePath.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	result := FetchResult{SourcePath: req.SourcePath}
	base := logging.NewComponentLogger(s.logger, "fetch")
	stageLogger := func(stage string) *slog.Logger {
		return logging.WithContext(services.WithStage(ctx, stage), base)
	}
	logger := stageLogger("search")
	languages := language.Join(req.Languages)

	candidates := make([]opensubtitles.Query, 0, 2)
	if !req.Policy.NameOnly() {
		fp, err := fingerprint.ComputeFile(req.SourcePath)
		if err != nil {
			return result, services.Wrap(services.ErrIO, "fingerprint", "read source", req.SourcePath, err)
		}
		result.Fingerprint = fp
		logger.Debug("fingerprint computed",
			logging.String("hash", fp.Hex()),
			logging.Uint64("size_bytes", fp.Size),
		)
		candidates = append(candidates, opensubtitles.HashQuery(languages, fp.Hex(), fp.SizeString()))
	}
	if !req.Policy.HashOnly() {
		candidates = append(candidates, opensubtitles.NameQuery(languages, filepath.Base(req.SourcePath)))
	}

	hits, err := s.client.Search(ctx, s.session, opensubtitles.Queries(candidates...), req.Limit)
	if err != nil {
		return result, catalogError("search", "SearchSubtitles", err)
	}
	hashHits, nameHits := Partition(hits)
	ranked, err := Rank(hashHits, nameHits, req.Policy)
	if err != nil {
		return result, err
	}
	result.Candidates = ranked.Len()
	logger.Debug("search complete",
		logging.Int("hash_matches", len(hashHits)),
		logging.Int("name_matches", len(nameHits)),
		logging.Int("candidates", ranked.Len()),
		logging.String("scope", req.Policy.Scope.String()),
		logging.String("languages", languages),
	)

	logger = stageLogger("select")
	selection, err := s.selector.Select(ranked, req.Policy)
	if err != nil {
		return result, err
	}
	result.Selection = selection
	selected := append(logging.DecisionAttrs("subtitle_selection", selection.FileName, selection.Reason),
		logging.Int("choice", selection.Index),
		logging.Int64("file_id", selection.FileID),
		logging.Bool("hash_match", selection.Candidate.MatchedByHash),
		logging.String("language", selection.Candidate.Language),
	)
	logger.Info("subtitle selected", logging.Args(selected...)...)

	remoteName, sanitized := textutil.RemoteFileName(selection.FileName)
	if sanitized {
		logger.Warn("remote subtitle name sanitized",
			logging.String("remote_name", selection.FileName),
			logging.String("local_name", remoteName),
			logging.String(logging.FieldEventType, "subtitle_name_sanitized"),
		)
	}
	destination, defaulted := ResolvePath(req.SourcePath, remoteName, req.SameName)
	result.Destination = destination
	result.DefaultedExtension = defaulted
	if defaulted {
		logging.WarnWithContext(logger, "remote subtitle has no extension; using "+DefaultExtension,
			"subtitle_extension_defaulted",
			logging.String("remote_name", selection.FileName),
			logging.String(logging.FieldErrorHint, "rename the file if the format is not SubRip"),
			logging.String(logging.FieldImpact, "subtitle saved with .srt extension"),
		)
	}

	logger = stageLogger("retrieve")
	if _, err := os.Lstat(destination); err == nil {
		if !req.Overwrite {
			return result, services.Wrap(services.ErrAlreadyExists, "retrieve", "check destination", destination+" exists, use --force to overwrite", nil)
		}
		logger.Info("subtitle file already exists, overwriting", logging.String("destination", destination))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return result, services.Wrap(services.ErrIO, "retrieve", "check destination", destination, err)
	}

	payload, err := s.client.Download(ctx, s.session, selection.FileID)
	if err != nil {
		return result, catalogError("download", "DownloadSubtitles", err)
	}

	opts := RetrieveOptions{Overwrite: req.Overwrite}
	if s.progress != nil {
		opts.Progress = s.progress(int64(len(payload)), filepath.Base(destination))
	}
	retrieved, err := Retrieve(payload, destination, opts)
	result.WrittenBytes = retrieved.WrittenBytes
	if retrieved.ProgressErr != nil {
		logger.Debug("progress display failed", logging.Error(retrieved.ProgressErr))
	}
	if err != nil {
		return result, err
	}
	logger.Info("subtitle saved",
		logging.String("destination", destination),
		logging.Int64("written_bytes", retrieved.WrittenBytes),
		logging.String("payload_size", humanize.Bytes(uint64(retrieved.EncodedBytes))),
	)
	return result, nil
}

func catalogError(stage, operation string, err error) error {
	if errors.Is(err, opensubtitles.ErrMalformedResponse) {
		return services.Wrap(services.ErrParse, stage, operation, "", err)
	}
	return services.Wrap(services.ErrRemoteFault, stage, operation, "", err)
}
