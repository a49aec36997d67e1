package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops an executable shell script standing in for the python
// parser so the failure modes can be driven deterministically.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("parser subprocess tests use shell scripts")
	}

	path := filepath.Join(t.TempDir(), "parser.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func writeResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
	return path
}

func TestDeepSeekParserSuccess(t *testing.T) {
	script := writeScript(t, `echo '{"success": true, "name": "Jane Doe", "education": [], "experience": []}'`)
	parser := NewDeepSeekParserService("sh", script, 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), writeResume(t))

	assert.True(t, profile.Success())
	assert.Equal(t, "Jane Doe", profile.Name())
	assert.NotNil(t, profile.Skill())
}

func TestDeepSeekParserPassesFileAndExtension(t *testing.T) {
	script := writeScript(t, `printf '{"success": true, "name": "%s %s"}' "$(basename "$1")" "$ORIGINAL_FILE_EXTENSION"`)
	parser := NewDeepSeekParserService("sh", script, 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), writeResume(t))

	assert.Equal(t, "resume.pdf pdf", profile.Name())
}

func TestDeepSeekParserNormalizesNoisyOutput(t *testing.T) {
	script := writeScript(t, `echo 'INFO loading model'
echo '{"success": false, "name": "Jane Doe", "skills": {"technical_skills": ["Go"]}}'`)
	parser := NewDeepSeekParserService("sh", script, 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), writeResume(t))

	// Log noise is stripped and the false flag is overridden by usable data
	assert.True(t, profile.Success())
	assert.Equal(t, []any{"Go"}, profile.Skill()["technical_skills"])
}

func TestDeepSeekParserExitFailure(t *testing.T) {
	script := writeScript(t, `echo 'ModuleNotFoundError: No module named torch' >&2
exit 1`)
	parser := NewDeepSeekParserService("sh", script, 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), writeResume(t))

	assert.False(t, profile.Success())
	assert.Equal(t, "DeepSeek parser failed with exit code 1", profile["error"])
	assert.Contains(t, profile["details"], "ModuleNotFoundError")
}

func TestDeepSeekParserExitFailureWithoutStderr(t *testing.T) {
	script := writeScript(t, `exit 3`)
	parser := NewDeepSeekParserService("sh", script, 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), writeResume(t))

	assert.Equal(t, "DeepSeek parser failed with exit code 3", profile["error"])
	assert.Equal(t, "No error details available", profile["details"])
}

func TestDeepSeekParserTimeout(t *testing.T) {
	script := writeScript(t, `sleep 10`)
	parser := NewDeepSeekParserService("sh", script, 100*time.Millisecond, NewNormalizerService())

	start := time.Now()
	profile := parser.ParseResume(context.Background(), writeResume(t))

	assert.Less(t, time.Since(start), 5*time.Second, "child must be killed at the deadline")
	assert.False(t, profile.Success())
	assert.Equal(t, "DeepSeek parser timed out after 2 minutes", profile["error"])
	assert.Equal(t,
		"The parsing process is taking too long. Try again with a smaller file or try later.",
		profile["details"])
}

func TestDeepSeekParserEmptyOutput(t *testing.T) {
	script := writeScript(t, `true`)
	parser := NewDeepSeekParserService("sh", script, 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), writeResume(t))

	assert.False(t, profile.Success())
	assert.Equal(t, "DeepSeek parser returned empty output", profile["error"])
	assert.Equal(t, "The parser completed but returned no data", profile["details"])
}

func TestDeepSeekParserMissingScript(t *testing.T) {
	parser := NewDeepSeekParserService("sh", "/nonexistent/parser.py", 5*time.Second, NewNormalizerService())

	profile := parser.ParseResume(context.Background(), "/tmp/resume.pdf")

	assert.False(t, profile.Success())
	assert.Equal(t,
		"DeepSeek parser script not found. Please make sure it's installed correctly.",
		profile["error"])
}
