package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playroomlab/tictactoe-server/internal/entity"
	"github.com/playroomlab/tictactoe-server/testing/suite"
)

func TestArchiveRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	archiveRepo := NewArchiveRepository(st.Storage)

	// Given: a finished match record
	record := &entity.MatchRecord{
		ID:         "123",
		Room:       "Arena",
		Players:    []string{"alice", "bob"},
		Board:      "111220000",
		Outcome:    entity.OutcomeWin,
		Winner:     "alice",
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}

	// When: Save is called
	err := archiveRepo.Save(ctx, record)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestArchiveRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		archiveRepo := NewArchiveRepository(st.Storage)

		record := &entity.MatchRecord{
			ID:         "123",
			Room:       "Arena",
			Players:    []string{"alice", "bob"},
			Board:      "121212212",
			Outcome:    entity.OutcomeDraw,
			FinishedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := archiveRepo.Save(ctx, record)
		require.NoError(t, err)

		// When: GetByID is called with an existing ID
		retrieved, err := archiveRepo.GetByID(ctx, record.ID)

		// Then: the retrieved record matches the saved one
		require.NoError(t, err)
		assert.Equal(t, record, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		archiveRepo := NewArchiveRepository(st.Storage)

		_, err := archiveRepo.GetByID(ctx, "9999999")

		assert.ErrorIs(t, err, ErrMatchRecordNotFound)
	})
}
