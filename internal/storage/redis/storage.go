package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage"
)

// watcherBuffer bounds pending snapshots per subscriber
const watcherBuffer = 16

// Storage is a Redis-backed implementation of the storage interface.
// Profile records are JSON values; the subscribe-on-change contract is
// served by publishing every written snapshot on a per-profile channel.
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

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(profile.ID), data, s.cfg.ProfileTTL)
	pipe.SAdd(ctx, profileIndexKey(), string(profile.ID))
	pipe.Publish(ctx, profileChannel(profile.ID), data)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, id model.UserID) (*model.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) MergeProfile(ctx context.Context, id model.UserID, patch model.ProfilePatch) (*model.Profile, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.XP != nil {
		profile.XP = *patch.XP
	}
	if patch.Level != nil {
		profile.Level = *patch.Level
	}
	if patch.Coins != nil {
		profile.Coins = *patch.Coins
	}
	if patch.Permissions != nil {
		profile.Permissions = patch.Permissions
	}
	profile.UpdatedAt = time.Now()

	data, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(id), data, s.cfg.ProfileTTL)
	pipe.Publish(ctx, profileChannel(id), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.UserID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, profileKey(id))
	pipe.Del(ctx, credentialsKey(id))
	pipe.SRem(ctx, profileIndexKey(), string(id))
	// Empty payload is the deletion marker terminating watchers
	pipe.Publish(ctx, profileChannel(id), "")
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	ids, err := s.client.SMembers(ctx, profileIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Profile{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(model.UserID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*model.Profile, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Profile may have expired
		}
		var profile model.Profile
		if err := json.Unmarshal([]byte(val.(string)), &profile); err != nil {
			continue // Skip invalid data
		}
		profiles = append(profiles, &profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Username < profiles[j].Username
	})
	return profiles, nil
}

func (s *Storage) WatchProfile(ctx context.Context, id model.UserID) (<-chan *model.Profile, error) {
	sub := s.client.Subscribe(ctx, profileChannel(id))

	// Force the subscription to be established before the first snapshot
	// read, so no write can slip between them unseen.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan *model.Profile, watcherBuffer)

	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		// Initial snapshot, if the record already exists
		if profile, err := s.GetProfile(ctx, id); err == nil {
			out <- profile
		}

		msgs := sub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if msg.Payload == "" {
					return // Profile deleted
				}
				var profile model.Profile
				if err := json.Unmarshal([]byte(msg.Payload), &profile); err != nil {
					continue
				}
				select {
				case out <- &profile:
				default:
					// Subscriber is behind; drop the intermediate snapshot
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialsKey(creds.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(strings.ToLower(creds.Username)), string(creds.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(strings.ToLower(username))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.UserID(idStr))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
