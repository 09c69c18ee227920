package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. Lobby
// documents are stored as JSON keyed by name, with a set of lobby names for
// listing and per-connection index keys for the find-by-connection query.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return err
	}

	// Save document, membership in the listing set, and the connection
	// index entries in one pipeline. Index entries replaced by a reconnect
	// go stale and are tolerated: lookups re-verify against the document.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, lobbyKey(lobby.Name), data, s.cfg.LobbyTTL)
	pipe.SAdd(ctx, lobbyIndexKey(), string(lobby.Name))
	for _, p := range lobby.Players {
		pipe.Set(ctx, connIndexKey(p.ConnectionID), string(lobby.Name), s.cfg.LobbyTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	data, err := s.client.Get(ctx, lobbyKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLobbyNotFound
		}
		return nil, err
	}

	var lobby model.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (s *Storage) DeleteLobby(ctx context.Context, name model.LobbyName) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, lobbyKey(name))
	pipe.SRem(ctx, lobbyIndexKey(), string(name))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) LobbyExists(ctx context.Context, name model.LobbyName) (bool, error) {
	exists, err := s.client.Exists(ctx, lobbyKey(name)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListLobbies(ctx context.Context) ([]*model.Lobby, error) {
	names, err := s.client.SMembers(ctx, lobbyIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return []*model.Lobby{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = lobbyKey(model.LobbyName(name))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	lobbies := make([]*model.Lobby, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Lobby may have expired
		}
		var lobby model.Lobby
		if err := json.Unmarshal([]byte(val.(string)), &lobby); err != nil {
			continue // Skip invalid data
		}
		lobbies = append(lobbies, &lobby)
	}

	return lobbies, nil
}

func (s *Storage) FindLobbyByConnection(ctx context.Context, connID model.ConnectionID) (*model.Lobby, error) {
	name, err := s.client.Get(ctx, connIndexKey(connID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLobbyNotFound
		}
		return nil, err
	}

	lobby, err := s.GetLobby(ctx, model.LobbyName(name))
	if err != nil {
		return nil, err
	}

	// The index entry may outlive the player's membership; trust the document
	if lobby.GetPlayerByConnection(connID) == nil {
		_ = s.client.Del(ctx, connIndexKey(connID)).Err()
		return nil, model.ErrLobbyNotFound
	}

	return lobby, nil
}

// Word list operations

func (s *Storage) SaveWordList(ctx context.Context, words []string) error {
	key := wordListKey()

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		members := make([]interface{}, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetWordList(ctx context.Context) ([]string, error) {
	key := wordListKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrWordsNotLoaded
	}

	return s.client.SMembers(ctx, key).Result()
}
