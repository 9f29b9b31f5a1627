package snapshots_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gameplay/internal/dialogue"
	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/inventory"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-gameplay/internal/redis"
	"github.com/KirkDiggler/rpg-gameplay/internal/repositories/snapshots"
	"github.com/KirkDiggler/rpg-gameplay/internal/testutils"
	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

type RedisSnapshotTestSuite struct {
	suite.Suite
	ctx   context.Context
	mr     *miniredis.Miniredis
	client redisclient.Client
	clock  *clock.Manual
	repo   snapshots.Repository
}

// pruneFailingClient fails every SRem so the index cannot be pruned
type pruneFailingClient struct {
	redisclient.Client
}

func (c pruneFailingClient) SRem(_ context.Context, _ string, _ ...any) *goredis.IntCmd {
	return goredis.NewIntResult(0, fmt.Errorf("connection reset"))
}

func TestRedisSnapshotSuite(t *testing.T) {
	suite.Run(t, new(RedisSnapshotTestSuite))
}

func (s *RedisSnapshotTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	client, mr := testutils.CreateTestRedisClient(s.T())
	s.mr = mr
	s.client = client

	repo, err := snapshots.NewRedisRepository(&snapshots.Config{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisSnapshotTestSuite) snapshot(id string) *world.Snapshot {
	inv := inventory.New()
	inv.AddItem(entities.ComponentData{ID: "lantern", Stats: map[string]float32{"light": 3}})
	inv.AddItem(entities.ComponentData{ID: "dagger", Type: entities.ItemTypeWeapon})
	inv.EquipWeapon(entities.ComponentData{ID: "dagger"})

	return &world.Snapshot{
		EntityID:  id,
		Position:  entities.Vec3{3, 0.5, -2},
		Inventory: inv,
		Dialogue: &dialogue.State{
			IsOpen:       true,
			CurrentText:  "Well met.",
			Options:      []dialogue.Option{{Text: "Bye", NextNode: ""}},
			NPCName:      "Tamsin",
			CurrentNode:  "greeting",
			CurrentNPCID: "npc_4",
			UIElementID:  "panel_1",
			Dirty:        true,
		},
	}
}

func (s *RedisSnapshotTestSuite) TestNewRedisRepositoryValidation() {
	_, err := snapshots.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = snapshots.NewRedisRepository(&snapshots.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Client: is required")
	s.Contains(err.Error(), "Clock: is required")
}

func (s *RedisSnapshotTestSuite) TestSaveAndGet() {
	out, err := s.repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot("hero")})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), out.SavedAt)

	s.True(s.mr.Exists("snapshot:entity:hero"))
	s.Equal(time.Duration(0), s.mr.TTL("snapshot:entity:hero"))

	got, err := s.repo.Get(s.ctx, &snapshots.GetInput{EntityID: "hero"})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), got.SavedAt)

	want := s.snapshot("hero")
	want.Dialogue.UIElementID = ""
	want.Dialogue.Dirty = false
	s.Equal(want, got.Snapshot, "runtime dialogue fields are not persisted")
}

func (s *RedisSnapshotTestSuite) TestStoredShape() {
	_, err := s.repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot("hero")})
	s.Require().NoError(err)

	raw, err := s.mr.Get("snapshot:entity:hero")
	s.Require().NoError(err)
	s.Contains(raw, `"entity_id":"hero"`)
	s.Contains(raw, `"equipped_weapon":{"id":"dagger","type":"weapon"}`)
	s.Contains(raw, `"saved_at":"2024-05-01T10:00:00Z"`)
	s.NotContains(raw, "panel_1")
}

func (s *RedisSnapshotTestSuite) TestSaveWithTTL() {
	_, err := s.repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot("hero"), TTL: time.Minute})
	s.Require().NoError(err)
	s.Equal(time.Minute, s.mr.TTL("snapshot:entity:hero"))

	s.mr.FastForward(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, &snapshots.GetInput{EntityID: "hero"})
	s.True(errors.IsNotFound(err))

	list, err := s.repo.List(s.ctx, &snapshots.ListInput{})
	s.Require().NoError(err)
	s.Empty(list.EntityIDs)
	s.False(s.mr.Exists("snapshot:entities"), "expired ids are pruned")
}

func (s *RedisSnapshotTestSuite) TestSaveValidation() {
	_, err := s.repo.Save(s.ctx, &snapshots.SaveInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: &world.Snapshot{}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot("hero"), TTL: -time.Second})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisSnapshotTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, &snapshots.GetInput{EntityID: "nobody"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, &snapshots.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisSnapshotTestSuite) TestGetCorrupted() {
	s.Require().NoError(s.mr.Set("snapshot:entity:hero", "{not json"))

	_, err := s.repo.Get(s.ctx, &snapshots.GetInput{EntityID: "hero"})
	s.Equal(errors.CodeInternal, errors.GetCode(err))
}

func (s *RedisSnapshotTestSuite) TestDeleteAndList() {
	for _, id := range []string{"b", "a", "c"} {
		_, err := s.repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot(id)})
		s.Require().NoError(err)
	}

	list, err := s.repo.List(s.ctx, &snapshots.ListInput{})
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c"}, list.EntityIDs)

	_, err = s.repo.Delete(s.ctx, &snapshots.DeleteInput{EntityID: "b"})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, &snapshots.DeleteInput{EntityID: "b"})
	s.True(errors.IsNotFound(err))

	list, err = s.repo.List(s.ctx, &snapshots.ListInput{})
	s.Require().NoError(err)
	s.Equal([]string{"a", "c"}, list.EntityIDs)
}

func (s *RedisSnapshotTestSuite) TestListLogsFailedPrune() {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	repo, err := snapshots.NewRedisRepository(&snapshots.Config{
		Client: pruneFailingClient{Client: s.client},
		Clock:  s.clock,
	})
	s.Require().NoError(err)

	_, err = repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot("hero"), TTL: time.Minute})
	s.Require().NoError(err)
	_, err = repo.Save(s.ctx, &snapshots.SaveInput{Snapshot: s.snapshot("scout")})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Minute)

	list, err := repo.List(s.ctx, &snapshots.ListInput{})
	s.Require().NoError(err)
	s.Equal([]string{"scout"}, list.EntityIDs)

	s.Contains(logs.String(), "level=WARN")
	s.Contains(logs.String(), "Failed to prune snapshot index")
	s.Contains(logs.String(), "connection reset")

	members, err := s.mr.Members("snapshot:entities")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"hero", "scout"}, members, "index is left for the next prune")
}
