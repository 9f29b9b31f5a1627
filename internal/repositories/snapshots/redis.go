package snapshots

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-gameplay/internal/redis"
	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

const (
	// Key pattern: snapshot:entity:{entity_id}
	snapshotKeyPrefix = "snapshot:entity:"
	// Set of every entity id with a stored snapshot
	snapshotIndexKey = "snapshot:entities"

	errEntityIDEmpty = "entity ID cannot be empty"
)

// Config holds the dependencies for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// record is the stored form: the snapshot fields plus when they were saved
type record struct {
	*world.Snapshot
	SavedAt time.Time `json:"saved_at"`
}

// NewRedisRepository creates a snapshot repository backed by Redis
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Save overwrites the stored snapshot for the entity
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Snapshot == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}
	if input.Snapshot.EntityID == "" {
		return nil, errors.InvalidArgument(errEntityIDEmpty)
	}
	if input.TTL < 0 {
		return nil, errors.InvalidArgument("ttl must not be negative")
	}

	rec := record{Snapshot: input.Snapshot, SavedAt: r.clock.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot")
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, buildKey(input.Snapshot.EntityID), data, input.TTL)
		pipe.SAdd(ctx, snapshotIndexKey, input.Snapshot.EntityID)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store snapshot for %s", input.Snapshot.EntityID)
	}

	return &SaveOutput{SavedAt: rec.SavedAt}, nil
}

// Get loads the stored snapshot for the entity
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EntityID == "" {
		return nil, errors.InvalidArgument(errEntityIDEmpty)
	}

	data, err := r.client.Get(ctx, buildKey(input.EntityID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("snapshot for %s not found", input.EntityID)
		}
		return nil, errors.Wrapf(err, "failed to get snapshot for %s", input.EntityID)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}
	if rec.Snapshot == nil {
		return nil, errors.Internal("stored snapshot is empty")
	}

	return &GetOutput{Snapshot: rec.Snapshot, SavedAt: rec.SavedAt}, nil
}

// Delete removes the stored snapshot for the entity
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.EntityID == "" {
		return nil, errors.InvalidArgument(errEntityIDEmpty)
	}

	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, buildKey(input.EntityID))
		pipe.SRem(ctx, snapshotIndexKey, input.EntityID)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete snapshot for %s", input.EntityID)
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("snapshot for %s not found", input.EntityID)
	}

	return &DeleteOutput{}, nil
}

// List returns the entity ids with stored snapshots, sorted. Ids whose
// snapshot expired are pruned from the index.
func (r *redisRepository) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, snapshotIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshots")
	}
	if len(ids) == 0 {
		return &ListOutput{EntityIDs: []string{}}, nil
	}

	exists := make([]*redis.IntCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			exists[i] = pipe.Exists(ctx, buildKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check snapshots")
	}

	live := make([]string, 0, len(ids))
	var stale []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		// the live ids are still correct; the next List retries the prune
		if err := r.client.SRem(ctx, snapshotIndexKey, stale...).Err(); err != nil {
			slog.Warn("Failed to prune snapshot index",
				"stale", len(stale),
				"error", err,
			)
		}
	}

	sort.Strings(live)
	return &ListOutput{EntityIDs: live}, nil
}

func buildKey(entityID string) string {
	return snapshotKeyPrefix + entityID
}
