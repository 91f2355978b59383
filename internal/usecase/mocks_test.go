package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/rocketscienceinc/bingo-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

type mockPlayerRepo struct {
	mock.Mock
}

func newMockPlayerRepo(t *testing.T) *mockPlayerRepo {
	m := &mockPlayerRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func newMockGameRepo(t *testing.T) *mockGameRepo {
	m := &mockGameRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

// memStore keeps records as JSON like the Redis repositories do, so every
// load hands out a private copy. Loads are slowed down to widen the gap
// between reading a game and writing it back.
type memStore struct {
	mu      sync.Mutex
	records map[string][]byte
	delay   time.Duration
}

func newMemStore(delay time.Duration) *memStore {
	return &memStore{records: make(map[string][]byte), delay: delay}
}

func (that *memStore) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.records[key] = data

	return nil
}

func (that *memStore) load(key string, v any) (bool, error) {
	time.Sleep(that.delay)

	that.mu.Lock()
	data, ok := that.records[key]
	that.mu.Unlock()

	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(data, v)
}

type memPlayerRepo struct{ store *memStore }

func (that memPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	return that.store.save("player:"+player.ID, player)
}

func (that memPlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	var player entity.Player
	ok, err := that.store.load("player:"+id, &player)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, repository.ErrPlayerNotFound
	}

	return &player, nil
}

type memGameRepo struct{ store *memStore }

func (that memGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	return that.store.save("game:"+game.ID, game)
}

func (that memGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	var game entity.Game
	ok, err := that.store.load("game:"+id, &game)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, repository.ErrGameNotFound
	}

	return &game, nil
}

func (that memGameRepo) DeleteByID(_ context.Context, id string) error {
	that.store.mu.Lock()
	defer that.store.mu.Unlock()

	if _, ok := that.store.records["game:"+id]; !ok {
		return repository.ErrGameNotFound
	}

	delete(that.store.records, "game:"+id)

	return nil
}
