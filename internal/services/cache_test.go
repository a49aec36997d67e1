package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/resume-parser/internal/models"
)

func successProfile(name string) models.Profile {
	return models.Profile{
		"success":    true,
		"name":       name,
		"education":  []any{},
		"experience": []any{},
		"skill":      models.EmptySkill(),
	}
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "resume.pdf-1024", Fingerprint("resume.pdf", 1024))
	// Same name, different size means a different file
	assert.NotEqual(t, Fingerprint("resume.pdf", 1024), Fingerprint("resume.pdf", 2048))
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache := NewResultCache(30 * time.Minute)
	fp := Fingerprint("resume.pdf", 1024)

	_, ok := cache.Get(fp, models.FileInfo{})
	assert.False(t, ok)

	cache.Put(fp, successProfile("Jane Doe"))

	info := models.NewFileInfo("/uploads/resume_deepseek_99.pdf", "resume.pdf")
	cached, ok := cache.Get(fp, info)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", cached.Name())
	// The hit carries the current upload's file info, not the original's
	assert.Equal(t, info, cached["fileInfo"])
}

func TestResultCacheSkipsFailures(t *testing.T) {
	cache := NewResultCache(30 * time.Minute)
	fp := Fingerprint("resume.pdf", 1024)

	cache.Put(fp, models.FailureProfile("DeepSeek parser returned empty output", ""))

	_, ok := cache.Get(fp, models.FileInfo{})
	assert.False(t, ok)
}

func TestResultCacheExpiry(t *testing.T) {
	cache := NewResultCache(20 * time.Millisecond)
	fp := Fingerprint("resume.pdf", 1024)

	cache.Put(fp, successProfile("Jane Doe"))

	_, ok := cache.Get(fp, models.FileInfo{})
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = cache.Get(fp, models.FileInfo{})
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestResultCacheDetachesStoredProfile(t *testing.T) {
	cache := NewResultCache(30 * time.Minute)
	fp := Fingerprint("resume.pdf", 1024)

	original := successProfile("Jane Doe")
	cache.Put(fp, original)

	// Caller mutations after Put must not leak into the cache
	original["name"] = "Mallory"

	cached, ok := cache.Get(fp, models.FileInfo{})
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", cached.Name())

	// Mutating a hit must not affect later hits
	cached["name"] = "Mallory"
	again, ok := cache.Get(fp, models.FileInfo{})
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", again.Name())
}
