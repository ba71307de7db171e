package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/playroomlab/tictactoe-server/internal/entity"
)

var ErrMatchRecordNotFound = errors.New("match record not found")

type ArchiveRepository interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
	GetByID(ctx context.Context, id string) (*entity.MatchRecord, error)
}

type dbArchive struct {
	client *redis.Client
}

func NewArchiveRepository(client *redis.Client) ArchiveRepository {
	return &dbArchive{
		client: client,
	}
}

func (that *dbArchive) Save(ctx context.Context, record *entity.MatchRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal match record: %w", err)
	}

	recordKey := "match:" + record.ID
	err = that.client.Set(ctx, recordKey, recordJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set match record: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*entity.MatchRecord, error) {
	recordKey := "match:" + id

	response, err := that.client.Get(ctx, recordKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchRecordNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match record by ID: %w", err)
	}

	var existingRecord entity.MatchRecord
	if err = json.Unmarshal([]byte(response), &existingRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match record: %w", err)
	}

	return &existingRecord, nil
}
