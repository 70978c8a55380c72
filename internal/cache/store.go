package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/trip-itinerary/internal/catalog"
)

// DefaultKey is the hash holding the destination catalog.
const DefaultKey = "catalog:destinations"

// Store keeps the destination catalog in a single Redis hash: one field per
// destination, each value an entry JSON document. It implements
// catalog.Source.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore constructs a Store on DefaultKey.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, key: DefaultKey}
}

// Load reads the whole catalog hash. A missing hash yields an empty map.
func (s *Store) Load(ctx context.Context) (map[string]catalog.Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading catalog hash %s: %w", s.key, err)
	}

	entries := make(map[string]catalog.Entry, len(fields))
	for name, raw := range fields {
		var e catalog.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("unmarshaling catalog entry %s: %w", name, err)
		}
		entries[name] = e
	}
	return entries, nil
}

// SaveCatalog replaces the hash contents with entries in one transaction.
func (s *Store) SaveCatalog(ctx context.Context, entries map[string]catalog.Entry) error {
	values := make(map[string]any, len(entries))
	for name, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling catalog entry %s: %w", name, err)
		}
		values[name] = b
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing catalog hash %s: %w", s.key, err)
	}
	return nil
}
