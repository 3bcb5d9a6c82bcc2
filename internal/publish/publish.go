package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"curator/internal/config"
	"curator/internal/ledger"
	"curator/internal/logging"
	"curator/internal/record"
	"curator/internal/services"
	"curator/internal/store"
)

// Kind selects which approved stage a push covers.
type Kind string

const (
	KindRaw     Kind = "raw"
	KindCleaned Kind = "cleaned"
	KindChunked Kind = "chunked"
)

// ParseKinds resolves a push type string into the stages it covers.
// "all" expands to every stage.
func ParseKinds(value string) ([]Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "raw":
		return []Kind{KindRaw}, nil
	case "cleaned":
		return []Kind{KindCleaned}, nil
	case "chunked":
		return []Kind{KindChunked}, nil
	case "all":
		return []Kind{KindRaw, KindCleaned, KindChunked}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "", "push",
			fmt.Sprintf("unknown push type %q (want raw, cleaned, chunked, or all)", value), nil)
	}
}

// Uploader is the slice of the hub client a push needs.
type Uploader interface {
	UploadFile(ctx context.Context, repo, pathInRepo string, payload []byte, message string) error
}

// StageResult tallies one stage of a push.
type StageResult struct {
	Uploaded int      `json:"uploaded"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Files    []string `json:"files"`
}

// Summary is the outcome of a full push across stages.
type Summary struct {
	Raw     StageResult `json:"raw"`
	Cleaned StageResult `json:"cleaned"`
	Chunked StageResult `json:"chunked"`
}

// TotalUploaded sums successful uploads across all stages.
func (s Summary) TotalUploaded() int {
	return s.Raw.Uploaded + s.Cleaned.Uploaded + s.Chunked.Uploaded
}

// TotalFailed sums failed uploads across all stages.
func (s Summary) TotalFailed() int {
	return s.Raw.Failed + s.Cleaned.Failed + s.Chunked.Failed
}

// Request describes one push invocation.
type Request struct {
	Kinds []Kind
	// RepoOverride sends every selected stage to one repository instead of
	// the per-stage repos from configuration.
	RepoOverride string
	// Force re-uploads items the ledger already marks as published.
	Force bool
}

// Publisher uploads approved data to the hub and records completions.
type Publisher struct {
	store  *store.FileStore
	hub    Uploader
	ledger *ledger.Store
	repos  config.Hub
	logger *slog.Logger
}

// New wires a publisher over the file store, hub client, and ledger.
func New(fs *store.FileStore, uploader Uploader, lg *ledger.Store, cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  fs,
		hub:    uploader,
		ledger: lg,
		repos:  cfg.Hub,
		logger: logging.NewComponentLogger(logger, "publish"),
	}
}

func (p *Publisher) repoFor(kind Kind, override string) string {
	if override != "" {
		return override
	}
	switch kind {
	case KindRaw:
		return p.repos.RawRepo
	case KindCleaned:
		return p.repos.CleanedRepo
	default:
		return p.repos.ChunkedRepo
	}
}

// Push uploads every approved item covered by the request. It returns a
// per-stage summary; upload failures are tallied, not returned. The only
// errors surfaced are those that prevent walking the approved tree at all.
func (p *Publisher) Push(ctx context.Context, req Request) (*Summary, error) {
	summary := &Summary{
		Raw:     StageResult{Files: []string{}},
		Cleaned: StageResult{Files: []string{}},
		Chunked: StageResult{Files: []string{}},
	}
	for _, kind := range req.Kinds {
		repo := p.repoFor(kind, req.RepoOverride)
		var result *StageResult
		var err error
		switch kind {
		case KindRaw:
			result = &summary.Raw
			err = p.pushRecords(ctx, record.StageRaw, kind, repo, req.Force, result)
		case KindCleaned:
			result = &summary.Cleaned
			err = p.pushRecords(ctx, record.StageCleaned, kind, repo, req.Force, result)
		case KindChunked:
			result = &summary.Chunked
			err = p.pushChunks(ctx, repo, req.Force, result)
		default:
			return nil, services.Wrap(services.ErrValidation, "", "push",
				fmt.Sprintf("unknown push kind %q", kind), nil)
		}
		if err != nil {
			return nil, err
		}
		p.logger.Info("stage push complete",
			logging.String(logging.FieldStage, string(kind)),
			logging.String(logging.FieldRepo, repo),
			logging.Int("uploaded", result.Uploaded),
			logging.Int("failed", result.Failed),
			logging.Int("skipped", result.Skipped),
		)
	}
	return summary, nil
}

func (p *Publisher) pushRecords(ctx context.Context, stage record.Stage, kind Kind, repo string, force bool, result *StageResult) error {
	names, err := p.store.ListFilenames(stage, record.StatusApproved)
	if err != nil {
		return err
	}
	for _, name := range names {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !force {
			published, err := p.ledger.IsPublished(ctx, string(kind), name, repo)
			if err != nil {
				return err
			}
			if published {
				result.Skipped++
				continue
			}
		}
		if err := p.uploadRecord(ctx, stage, kind, repo, name); err != nil {
			result.Failed++
			p.logger.Error("upload failed",
				logging.String(logging.FieldStage, string(stage)),
				logging.String(logging.FieldFilename, name),
				logging.String(logging.FieldRepo, repo),
				logging.Error(err),
			)
			continue
		}
		result.Uploaded++
		result.Files = append(result.Files, name)
	}
	return nil
}

func (p *Publisher) uploadRecord(ctx context.Context, stage record.Stage, kind Kind, repo, name string) error {
	content, meta, err := p.store.ReadApproved(stage, name)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Add %s file: %s", stage, name)
	if err := p.hub.UploadFile(ctx, repo, name+".txt", content, message); err != nil {
		return err
	}
	if len(meta) > 0 {
		message = fmt.Sprintf("Add metadata for: %s", name)
		if err := p.hub.UploadFile(ctx, repo, name+".meta.json", meta, message); err != nil {
			return err
		}
	}
	return p.ledger.MarkPublished(ctx, string(kind), name, repo)
}

func (p *Publisher) pushChunks(ctx context.Context, repo string, force bool, result *StageResult) error {
	groups, err := p.store.ChunkGroups(record.StatusApproved)
	if err != nil {
		return err
	}
	for _, group := range groups {
		for _, chunk := range group.Chunks {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			chunkFile := record.ChunkFileName(chunk.ChunkIndex)
			key := group.SourceFile + "/" + chunkFile
			if !force {
				published, err := p.ledger.IsPublished(ctx, string(KindChunked), key, repo)
				if err != nil {
					return err
				}
				if published {
					result.Skipped++
					continue
				}
			}
			if err := p.uploadChunk(ctx, repo, group.SourceFile, chunkFile, key); err != nil {
				result.Failed++
				p.logger.Error("chunk upload failed",
					logging.String(logging.FieldFilename, group.SourceFile),
					logging.Int(logging.FieldChunkIndex, chunk.ChunkIndex),
					logging.String(logging.FieldRepo, repo),
					logging.Error(err),
				)
				continue
			}
			result.Uploaded++
			result.Files = append(result.Files, key)
		}
	}
	return nil
}

func (p *Publisher) uploadChunk(ctx context.Context, repo, sourceFile, chunkFile, key string) error {
	payload, err := p.store.ReadApprovedChunk(sourceFile, chunkFile)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Add %s for %s", chunkFile, sourceFile)
	if err := p.hub.UploadFile(ctx, repo, key, payload, message); err != nil {
		return err
	}
	return p.ledger.MarkPublished(ctx, string(KindChunked), key, repo)
}
