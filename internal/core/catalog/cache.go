// Copyright (c) 2026 FillyTrackr. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"fillytrackr/internal/platform/constants"
)

// # Lookup Cache

// LookupCache is a Redis read-through cache over [Repository.LookupEntries].
//
// Reference entities are immutable, so the only staleness source is a brand
// new entry; Create invalidates the kind's key, and the TTL bounds the worst
// case if that invalidation is lost. Cache failures degrade to direct
// database reads rather than failing the request.
type LookupCache struct {
	client *redis.Client
	repo   Repository
	logger *slog.Logger
}

// NewLookupCache creates a cache backed by the given Redis client.
func NewLookupCache(client *redis.Client, repo Repository, logger *slog.Logger) *LookupCache {
	return &LookupCache{
		client: client,
		repo:   repo,
		logger: logger,
	}
}

// key builds the Redis key for a kind's lookup payload.
func (cache *LookupCache) key(kind Kind) string {
	return constants.RedisPrefixCatalogLookup + string(kind)
}

/*
Entries returns the lookup projection of a kind, cached.

Description: On a cache miss the entries are loaded from the repository and
written back with the catalog TTL. Redis connectivity or decode failures are
logged at warn level and answered from the database.

Parameters:
  - context: context.Context
  - kind: Kind

Returns:
  - []LookupEntry: Id/name (and hex) entries
  - error: Database failures only; cache failures never surface
*/
func (cache *LookupCache) Entries(context context.Context, kind Kind) ([]LookupEntry, error) {

	// Attempt cache read first
	payload, err := cache.client.Get(context, cache.key(kind)).Bytes()
	if err == nil {
		var entries []LookupEntry
		if err := json.Unmarshal(payload, &entries); err == nil {
			return entries, nil
		}
		cache.logger.Warn("catalog lookup cache payload corrupt, rereading", "kind", kind)
	} else if !errors.Is(err, redis.Nil) {
		cache.logger.Warn("catalog lookup cache read failed", "kind", kind, "error", err)
	}

	// Fall through to the source of truth
	entries, err := cache.repo.LookupEntries(context, kind)
	if err != nil {
		return nil, err
	}

	// Write back on a best effort basis
	if payload, err := json.Marshal(entries); err == nil {
		if err := cache.client.Set(context, cache.key(kind), payload, constants.CatalogLookupTTL).Err(); err != nil {
			cache.logger.Warn("catalog lookup cache write failed", "kind", kind, "error", err)
		}
	}

	return entries, nil
}

/*
Invalidate drops the cached payload for a kind.

Description: Called after a successful Create so the next read sees the new
entry immediately instead of waiting out the TTL.

Parameters:
  - context: context.Context
  - kind: Kind
*/
func (cache *LookupCache) Invalidate(context context.Context, kind Kind) {
	if err := cache.client.Del(context, cache.key(kind)).Err(); err != nil {
		cache.logger.Warn("catalog lookup cache invalidation failed", "kind", kind, "error", err)
	}
}
