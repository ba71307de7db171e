package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/playroomlab/tictactoe-server/internal/entity"
)

type archiveRepo interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
}

// ArchiveManager writes finished-match summaries to the archive.
// Archiving never fails a match: errors are logged and dropped, and a
// nil repository disables archiving entirely.
type ArchiveManager struct {
	logger      *slog.Logger
	archiveRepo archiveRepo
}

func NewArchiveManager(logger *slog.Logger, archiveRepo archiveRepo) *ArchiveManager {
	return &ArchiveManager{
		logger:      logger.With("component", "archive"),
		archiveRepo: archiveRepo,
	}
}

func (that *ArchiveManager) RecordFinished(ctx context.Context, roomName string, players []string, board, outcome, winner string) {
	if that.archiveRepo == nil {
		return
	}

	record := &entity.MatchRecord{
		ID:         uuid.NewString(),
		Room:       roomName,
		Players:    players,
		Board:      board,
		Outcome:    outcome,
		Winner:     winner,
		FinishedAt: time.Now().UTC(),
	}

	if err := that.archiveRepo.Save(ctx, record); err != nil {
		that.logger.Error("failed to archive match", "room", roomName, "error", err)
		return
	}

	that.logger.Debug("match archived", "room", roomName, "id", record.ID)
}
