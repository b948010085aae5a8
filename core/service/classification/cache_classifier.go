package classification

import (
	"context"
	"time"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

const (
	cacheKeyPrefix  = "classify:fp:"
	defaultCacheTTL = 7 * 24 * time.Hour
)

// ResultCache is the cache surface the fingerprint tier needs.
// *cache.RedisCache satisfies it.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheClassifier serves verbatim results for previously seen
// fingerprints. A hit short-circuits the whole cascade.
type CacheClassifier struct {
	cache ResultCache
	ttl   time.Duration
}

func NewCacheClassifier(c ResultCache, ttl time.Duration) *CacheClassifier {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CacheClassifier{cache: c, ttl: ttl}
}

func (c *CacheClassifier) Name() domain.ClassifyMethod {
	return domain.MethodCache
}

// Classify returns the stored result for the fingerprint, or declines on
// a miss. Cache errors are treated as misses so Redis outages never block
// classification.
func (c *CacheClassifier) Classify(ctx context.Context, in *Input) (*TierResult, error) {
	if c.cache == nil || in.Fingerprint == "" {
		return nil, nil
	}

	var cached domain.ClassificationResult
	found, err := c.cache.GetJSON(ctx, cacheKeyPrefix+in.Fingerprint, &cached)
	if err != nil {
		logger.WithError(err).WithField("email_id", in.EmailID).
			Warn("classification cache lookup failed")
		return nil, nil
	}
	if !found {
		return nil, nil
	}

	cached.Method = domain.MethodCache
	cached.TokensUsed = 0

	return &TierResult{Complete: true, Cached: &cached}, nil
}

// Store saves a completed cascade result under the email's fingerprint.
// Cache-served results are never written back.
func (c *CacheClassifier) Store(ctx context.Context, fingerprint string, result *domain.ClassificationResult) {
	if c.cache == nil || fingerprint == "" || result == nil || result.Method == domain.MethodCache {
		return
	}
	if err := c.cache.SetJSON(ctx, cacheKeyPrefix+fingerprint, result, c.ttl); err != nil {
		logger.WithError(err).Warn("failed to store classification in cache")
	}
}
