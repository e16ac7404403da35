package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mckechniep/sneatsnags-sub002/internal/domain/listing"
	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

const candidateKeyPrefix = "matching:candidates:"

// candidateCache decorates a ListingRepository with a short-TTL Redis cache
// of candidate pools. Matching reads data fresh by design, so the TTL is kept
// low; the cache only absorbs bursts of identical lookups, it never changes
// which listings are eligible.
type candidateCache struct {
	next   matching.ListingRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCandidateCache wraps the repository with Redis caching
func NewCandidateCache(next matching.ListingRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) (matching.ListingRepository, error) {
	if next == nil {
		return nil, fmt.Errorf("listing repository is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &candidateCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// FindCandidates serves the pool from Redis when a fresh copy exists,
// otherwise falls through to the store. Cache failures degrade to the store,
// never to an error.
func (c *candidateCache) FindCandidates(ctx context.Context, filters matching.CandidateFilters) ([]*listing.Listing, error) {
	key := candidateKey(filters)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var listings []*listing.Listing
		if err := json.Unmarshal(cached, &listings); err == nil {
			return listings, nil
		}
		c.logger.Warn("discarding corrupt candidate pool cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("candidate pool cache read failed", zap.Error(err))
	}

	listings, err := c.next.FindCandidates(ctx, filters)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(listings); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("candidate pool cache write failed", zap.Error(err))
		}
	}

	return listings, nil
}

// candidateKey digests the full filter set so any change in bounds, event,
// sections, or limit maps to a distinct pool
func candidateKey(filters matching.CandidateFilters) string {
	var b strings.Builder

	if filters.EventID != nil {
		b.WriteString(filters.EventID.String())
	}
	b.WriteByte('|')
	b.WriteString(filters.MinPrice.String())
	b.WriteByte('|')
	b.WriteString(filters.MaxPrice.String())
	fmt.Fprintf(&b, "|%d|%d|", filters.MinQuantity, filters.Limit)

	sections := append([]string(nil), filters.Sections...)
	sort.Strings(sections)
	b.WriteString(strings.Join(sections, ","))

	sum := sha256.Sum256([]byte(b.String()))
	return candidateKeyPrefix + hex.EncodeToString(sum[:16])
}
