package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartHeaderMem(t *testing.T, filename, content string, maxMemory int64) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(maxMemory)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["resume"]
	require.Len(t, files, 1)
	return files[0]
}

func multipartHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	return multipartHeaderMem(t, filename, content, 32<<20)
}

func TestEnsureUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	storage := NewStorageService(dir)

	require.NoError(t, storage.EnsureUploadDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveResume(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	header := multipartHeader(t, "My Resume.pdf", "%PDF-1.4 fake content")

	filename, filePath, err := storage.SaveResume(header)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "resume_deepseek_"), filename)
	assert.True(t, strings.HasSuffix(filename, ".pdf"), filename)
	assert.Equal(t, filepath.Join(dir, filename), filePath)

	saved, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake content", string(saved))
}

func TestSaveResumeDiskSpooledPart(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	// maxMemory 0 forces the part onto disk, so SaveResume takes the
	// spool-file route instead of the in-memory copy
	header := multipartHeaderMem(t, "resume.pdf", "%PDF-1.4 spooled content", 0)

	filename, filePath, err := storage.SaveResume(header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "resume_deepseek_"), filename)

	saved, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 spooled content", string(saved))
}

func TestPersistUploadRenamesSpooledFile(t *testing.T) {
	dir := t.TempDir()
	spool := filepath.Join(dir, "spool")
	require.NoError(t, os.WriteFile(spool, []byte("%PDF-1.4"), 0600))

	src, err := os.Open(spool)
	require.NoError(t, err)
	defer src.Close()

	dst := filepath.Join(dir, "resume_deepseek_1.pdf")
	require.NoError(t, persistUpload(src, dst))

	saved, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(saved))

	// The spool file was moved, not copied
	_, err = os.Stat(spool)
	assert.True(t, os.IsNotExist(err))
}

func TestPersistUploadCopyFallbackWhenRenameFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unlinking an open file")
	}

	dir := t.TempDir()
	spool := filepath.Join(dir, "spool")
	require.NoError(t, os.WriteFile(spool, []byte("%PDF-1.4"), 0600))

	src, err := os.Open(spool)
	require.NoError(t, err)
	defer src.Close()

	// Unlink the spool path so os.Rename has no source entry and fails;
	// the open descriptor keeps the bytes readable for the copy fallback
	require.NoError(t, os.Remove(spool))

	dst := filepath.Join(dir, "resume_deepseek_2.pdf")
	require.NoError(t, persistUpload(src, dst))

	saved, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(saved))
}

func TestSaveResumeRejectsUnknownExtensions(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	for _, filename := range []string{"resume.txt", "resume.png", "resume"} {
		header := multipartHeader(t, filename, "content")
		_, _, err := storage.SaveResume(header)
		assert.ErrorIs(t, err, ErrInvalidExtension, filename)
	}
}

func TestSaveResumeAcceptsWordDocuments(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	for _, filename := range []string{"resume.doc", "resume.DOCX"} {
		header := multipartHeader(t, filename, "content")
		saved, _, err := storage.SaveResume(header)
		require.NoError(t, err, filename)
		ext := strings.ToLower(filepath.Ext(filename))
		assert.True(t, strings.HasSuffix(saved, ext), saved)
	}
}

func TestGetFilePathAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	name := "resume_deepseek_1.pdf"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))

	assert.Equal(t, filepath.Join(dir, name), storage.GetFilePath(name))

	require.NoError(t, storage.DeleteFile(name))
	_, err := os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}
