package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage identifies a step of the curation workflow.
type Stage string

const (
	StageRaw     Stage = "raw"
	StageCleaned Stage = "cleaned"
	StageChunked Stage = "chunked"
)

var allStages = []Stage{StageRaw, StageCleaned, StageChunked}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, stage := range allStages {
		set[stage] = struct{}{}
	}
	return set
}()

// Stages returns all workflow stages in pipeline order.
func Stages() []Stage {
	out := make([]Stage, len(allStages))
	copy(out, allStages)
	return out
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := stageSet[stage]; !ok {
		return "", fmt.Errorf("unknown stage %q", value)
	}
	return stage, nil
}

// Status represents the approval state of a record or chunk.
//
// Location on disk is the source of truth for pending versus approved; the
// status field carried in metadata is kept in sync on every transition so
// published metadata is self-describing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var allStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusSet[status]; !ok {
		return "", fmt.Errorf("unknown status %q", value)
	}
	return status, nil
}

// Record is the metadata sidecar stored next to raw and cleaned text files.
type Record struct {
	ID            string     `json:"id"`
	Filename      string     `json:"filename"`
	Language      string     `json:"language"`
	Source        string     `json:"source"`
	ContentLength int        `json:"content_length"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	SubmittedBy   string     `json:"submitted_by"`
	Status        Status     `json:"status"`
	OriginalRawID string     `json:"original_raw_id,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	UpdatedBy     string     `json:"updated_by,omitempty"`
}

// NewRecord builds a pending record for a fresh submission.
func NewRecord(filename, language, source, content, submittedBy string) Record {
	return Record{
		ID:            uuid.NewString(),
		Filename:      filename,
		Language:      language,
		Source:        source,
		ContentLength: len([]rune(content)),
		SubmittedAt:   time.Now(),
		SubmittedBy:   submittedBy,
		Status:        StatusPending,
	}
}

// Chunk is a single retrieval passage cut from a cleaned file.
type Chunk struct {
	ChunkID          string     `json:"chunk_id"`
	Text             string     `json:"text"`
	Language         string     `json:"language"`
	Category         string     `json:"category"`
	Source           string     `json:"source"`
	ChunkIndex       int        `json:"chunk_index"`
	SourceFile       string     `json:"source_file"`
	OverlapReference string     `json:"overlap_reference"`
	CreatedAt        time.Time  `json:"created_at"`
	CreatedBy        string     `json:"created_by"`
	TextLength       int        `json:"text_length"`
	Status           Status     `json:"status,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	UpdatedBy        string     `json:"updated_by,omitempty"`
}

// NewChunk builds a pending chunk with a derived identifier.
func NewChunk(sourceFile, text, language, category, source, overlapReference, createdBy string, index int) Chunk {
	return Chunk{
		ChunkID:          ChunkID(language, category, sourceFile, index),
		Text:             text,
		Language:         language,
		Category:         category,
		Source:           source,
		ChunkIndex:       index,
		SourceFile:       sourceFile,
		OverlapReference: overlapReference,
		CreatedAt:        time.Now(),
		CreatedBy:        createdBy,
		TextLength:       len([]rune(text)),
		Status:           StatusPending,
	}
}

// RAGChunk is the export shape consumed by downstream retrieval pipelines.
type RAGChunk struct {
	ChunkID    string `json:"chunk_id"`
	Text       string `json:"text"`
	Language   string `json:"language"`
	Category   string `json:"category"`
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}

// RAGFormat strips curation bookkeeping from a chunk.
func (c Chunk) RAGFormat() RAGChunk {
	return RAGChunk{
		ChunkID:    c.ChunkID,
		Text:       c.Text,
		Language:   c.Language,
		Category:   c.Category,
		Source:     c.Source,
		ChunkIndex: c.ChunkIndex,
	}
}

// ChunkID derives the stable chunk identifier from its coordinates.
// The category contributes its first three characters and the source file
// its first ten after underscores are removed, keeping IDs short while
// still readable.
func ChunkID(language, category, sourceFile string, index int) string {
	cat := category
	if len(cat) > 3 {
		cat = cat[:3]
	}
	file := strings.ReplaceAll(sourceFile, "_", "")
	if len(file) > 10 {
		file = file[:10]
	}
	return fmt.Sprintf("%s_%s_%s_%02d", language, cat, file, index)
}

// ChunkFileName returns the on-disk name for a chunk at the given index.
func ChunkFileName(index int) string {
	return fmt.Sprintf("chunk_%02d.json", index)
}
