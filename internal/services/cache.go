package services

import (
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"jobportal/resume-parser/internal/models"
)

// ResultCache keeps successful parse results keyed by a weak file identity
// (original filename + byte size) so re-uploads of the same file within the
// TTL skip the external parser. Failure profiles are never cached.
type ResultCache interface {
	Get(fingerprint string, info models.FileInfo) (models.Profile, bool)
	Put(fingerprint string, profile models.Profile)
}

type resultCache struct {
	entries *ttlcache.Cache[string, models.Profile]
}

// NewResultCache builds a process-local cache with the given TTL. No
// background sweeper runs; expiry is checked on read.
func NewResultCache(ttl time.Duration) ResultCache {
	return &resultCache{
		entries: ttlcache.New[string, models.Profile](
			ttlcache.WithTTL[string, models.Profile](ttl),
			ttlcache.WithDisableTouchOnHit[string, models.Profile](),
		),
	}
}

// Fingerprint builds the cache key for an upload.
func Fingerprint(originalFilename string, size int64) string {
	return fmt.Sprintf("%s-%d", originalFilename, size)
}

// Get returns a copy of the cached profile with fileInfo rewritten to the
// current upload; the same bytes may have arrived under a new storage path.
func (c *resultCache) Get(fingerprint string, info models.FileInfo) (models.Profile, bool) {
	item := c.entries.Get(fingerprint)
	if item == nil {
		return nil, false
	}

	profile := item.Value().Clone()
	profile.SetFileInfo(info)
	return profile, true
}

// Put stores the profile if it is a success. The stored copy is detached
// from the caller's map so later requests cannot mutate it.
func (c *resultCache) Put(fingerprint string, profile models.Profile) {
	if !profile.Success() {
		return
	}
	c.entries.Set(fingerprint, profile.Clone(), ttlcache.DefaultTTL)
}
