package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"jobportal/resume-parser/internal/models"
)

type geminiParserService struct {
	gemini        GeminiService
	pdfParser     PDFParserService
	normalizer    NormalizerService
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewGeminiParserService is the alternative parser backend: text is
// extracted locally from the PDF and the Gemini API produces the profile
// JSON, with the same normalizer cleaning up the response.
func NewGeminiParserService(
	gemini GeminiService,
	pdfParser PDFParserService,
	normalizer NormalizerService,
	maxRetries int,
) ResumeParserService {
	return &geminiParserService{
		gemini:        gemini,
		pdfParser:     pdfParser,
		normalizer:    normalizer,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// ParseResume implements ResumeParserService.
func (g *geminiParserService) ParseResume(ctx context.Context, filePath string) models.Profile {
	if strings.ToLower(filepath.Ext(filePath)) != ".pdf" {
		return models.FailureProfile(
			"Gemini parser backend supports PDF resumes only",
			filePath,
		)
	}

	text, err := g.pdfParser.ExtractText(filePath)
	if err != nil {
		log.Printf("❌ Failed to extract resume text: %v\n", err)
		return models.FailureProfile(
			fmt.Sprintf("Failed to extract text from resume: %v", err),
			"",
		)
	}

	if len(text) > 40000 {
		text = text[:40000]
	}

	prompt := g.promptBuilder.BuildExtractionPrompt(text)
	response, err := g.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, g.maxRetries)
	if err != nil {
		log.Printf("❌ Gemini extraction failed: %v\n", err)
		return models.FailureProfile(
			fmt.Sprintf("Gemini extraction failed: %v", err),
			"",
		)
	}

	return g.normalizer.Normalize(response)
}
