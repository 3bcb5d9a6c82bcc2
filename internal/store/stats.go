package store

import (
	"curator/internal/record"
)

// StageCounts holds the pending and approved totals for one stage.
type StageCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}

// Stats aggregates record counts across all stages. Chunked counts are
// individual chunks, not folders.
type Stats struct {
	Raw     StageCounts `json:"raw"`
	Cleaned StageCounts `json:"cleaned"`
	Chunked StageCounts `json:"chunked"`
}

// TotalPending sums pending counts across stages.
func (s Stats) TotalPending() int {
	return s.Raw.Pending + s.Cleaned.Pending + s.Chunked.Pending
}

// TotalApproved sums approved counts across stages.
func (s Stats) TotalApproved() int {
	return s.Raw.Approved + s.Cleaned.Approved + s.Chunked.Approved
}

// Stats counts records at every stage and status.
func (s *FileStore) Stats() (Stats, error) {
	var stats Stats

	for _, stage := range []record.Stage{record.StageRaw, record.StageCleaned} {
		pending, err := s.ListFilenames(stage, record.StatusPending)
		if err != nil {
			return Stats{}, err
		}
		approved, err := s.ListFilenames(stage, record.StatusApproved)
		if err != nil {
			return Stats{}, err
		}
		counts := StageCounts{Pending: len(pending), Approved: len(approved)}
		switch stage {
		case record.StageRaw:
			stats.Raw = counts
		case record.StageCleaned:
			stats.Cleaned = counts
		}
	}

	for _, status := range []record.Status{record.StatusPending, record.StatusApproved} {
		groups, err := s.ChunkGroups(status)
		if err != nil {
			return Stats{}, err
		}
		total := 0
		for _, group := range groups {
			total += len(group.Chunks)
		}
		if status == record.StatusPending {
			stats.Chunked.Pending = total
		} else {
			stats.Chunked.Approved = total
		}
	}

	return stats, nil
}
