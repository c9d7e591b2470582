package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	redisapp "peel_storage/internal/storage/redis"
)

// promptsKey is the fixed flat-store key holding the whole prompt
// collection as one serialized array, newest first.
const promptsKey = "peel_prompts"

type PromptRepo struct {
	client *redisapp.Client
}

func NewPromptRepo(client *redisapp.Client) *PromptRepo {
	return &PromptRepo{client: client}
}

func (r *PromptRepo) Load(ctx context.Context) ([]models.SavedPrompt, error) {
	const op = "repository.PromptRepo.Load"

	raw, err := r.client.Get(ctx, promptsKey).Result()
	if errors.Is(err, redis.Nil) {
		return []models.SavedPrompt{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	var prompts []models.SavedPrompt
	if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return prompts, nil
}

func (r *PromptRepo) Store(ctx context.Context, prompts []models.SavedPrompt) error {
	const op = "repository.PromptRepo.Store"

	data, err := json.Marshal(prompts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.client.Set(ctx, promptsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}
