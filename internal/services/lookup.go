package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
)

// lookupService implements LookupService
type lookupService struct {
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewLookupService creates a new lookup service
func NewLookupService(cfg *config.Config, rdb *redis.Client, log *logger.Logger) LookupService {
	ttl := time.Duration(cfg.Import.LookupCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &lookupService{
		redis:    rdb,
		cacheTTL: ttl,
		logger:   log,
	}
}

// FetchLookupData sequentially fetches each requirement's key set from the
// remote entity. A failed requirement degrades to an empty set plus a
// warning; the remaining requirements still proceed, so partial reference
// data never blocks a validation run.
func (s *lookupService) FetchLookupData(ctx context.Context, client *erp.Client, requirements []models.LookupRequirement, onProgress func(LookupProgress)) *LookupResult {
	result := &LookupResult{
		Lookups: make(map[string]map[string]struct{}, len(requirements)),
	}

	for i, req := range requirements {
		if onProgress != nil {
			onProgress(LookupProgress{Completed: i, Total: len(requirements), Current: req.Label})
		}

		keys, err := s.fetchKeySet(ctx, client, req)
		if err != nil {
			s.logger.WithField("lookup", req.Name).WithError(err).Warn("Lookup fetch failed, degrading to empty set")
			result.Lookups[req.Name] = map[string]struct{}{}
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Failed to fetch %s: %s. Lookup validation will be skipped for this field.",
				req.Label, erp.HumanizeGatewayError(err)))
			continue
		}
		result.Lookups[req.Name] = keys
	}

	if onProgress != nil {
		onProgress(LookupProgress{Completed: len(requirements), Total: len(requirements), Current: "Done"})
	}

	return result
}

func (s *lookupService) fetchKeySet(ctx context.Context, client *erp.Client, req models.LookupRequirement) (map[string]struct{}, error) {
	// Reference data is per instance; never serve one connection's key
	// sets to another
	cacheKey := fmt.Sprintf("lookup:%s:%s:%s", client.InstanceURL(), req.Entity, req.KeyField)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var records []map[string]models.FieldValue
	path := fmt.Sprintf("/%s?$select=%s", req.Entity, req.KeyField)
	if err := client.Get(ctx, path, &records); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(records))
	for _, record := range records {
		if fv, ok := record[req.KeyField]; ok {
			if str, ok := fv.Value.(string); ok {
				if trimmed := strings.TrimSpace(str); trimmed != "" {
					keys[trimmed] = struct{}{}
				}
			}
		}
	}

	s.writeCache(ctx, cacheKey, keys)
	return keys, nil
}

// readCache returns a cached key set, or nil on miss or any cache error.
// The cache is best-effort.
func (s *lookupService) readCache(ctx context.Context, key string) map[string]struct{} {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	keys := make(map[string]struct{}, len(values))
	for _, v := range values {
		keys[v] = struct{}{}
	}
	return keys
}

func (s *lookupService) writeCache(ctx context.Context, key string, keys map[string]struct{}) {
	if s.redis == nil {
		return
	}
	values := make([]string, 0, len(keys))
	for v := range keys {
		values = append(values, v)
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.WithError(err).Debug("Lookup cache write failed")
	}
}
