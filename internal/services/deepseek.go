package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"jobportal/resume-parser/internal/models"
)

// ResumeParserService turns a stored upload into a candidate profile.
// Implementations never return an error: every failure mode resolves to a
// failure-shaped profile so the pipeline treats success and failure
// uniformly.
type ResumeParserService interface {
	ParseResume(ctx context.Context, filePath string) models.Profile
}

type deepSeekParserService struct {
	interpreter string
	scriptPath  string
	timeout     time.Duration
	normalizer  NormalizerService
}

// NewDeepSeekParserService invokes the DeepSeek python script as a child
// process with the uploaded file as its sole argument. stdout carries the
// result JSON, stderr is diagnostic text only.
func NewDeepSeekParserService(interpreter, scriptPath string, timeout time.Duration, normalizer NormalizerService) ResumeParserService {
	return &deepSeekParserService{
		interpreter: interpreter,
		scriptPath:  scriptPath,
		timeout:     timeout,
		normalizer:  normalizer,
	}
}

// ParseResume implements ResumeParserService.
func (p *deepSeekParserService) ParseResume(ctx context.Context, filePath string) models.Profile {
	if _, err := os.Stat(p.scriptPath); err != nil {
		log.Printf("❌ DeepSeek parser script not found: %s\n", p.scriptPath)
		return models.FailureProfile(
			"DeepSeek parser script not found. Please make sure it's installed correctly.",
			p.scriptPath,
		)
	}

	// The deadline also kills the child process; its late output is never
	// observed.
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")

	cmd := exec.CommandContext(ctx, p.interpreter, p.scriptPath, filePath)
	cmd.Env = append(os.Environ(), "ORIGINAL_FILE_EXTENSION="+ext)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Printf("🔄 Executing: %s %q %q\n", p.interpreter, p.scriptPath, filePath)
	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		log.Println("⏱️  DeepSeek parser execution timed out")
		return models.FailureProfile(
			"DeepSeek parser timed out after 2 minutes",
			"The parsing process is taking too long. Try again with a smaller file or try later.",
		)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Printf("❌ DeepSeek parser exited with code %d\n", exitErr.ExitCode())
			details := stderr.String()
			if details == "" {
				details = "No error details available"
			}
			return models.FailureProfile(
				fmt.Sprintf("DeepSeek parser failed with exit code %d", exitErr.ExitCode()),
				details,
			)
		}

		log.Printf("❌ Failed to execute DeepSeek parser: %v\n", err)
		return models.FailureProfile(
			fmt.Sprintf("Failed to execute DeepSeek parser: %v", err),
			"",
		)
	}

	output := stdout.String()
	if strings.TrimSpace(output) == "" {
		log.Println("❌ DeepSeek parser returned empty output")
		details := stderr.String()
		if details == "" {
			details = "The parser completed but returned no data"
		}
		return models.FailureProfile("DeepSeek parser returned empty output", details)
	}

	return p.normalizer.Normalize(output)
}
