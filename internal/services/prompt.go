package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionPrompt creates the prompt asking the model for a candidate
// profile in the canonical schema. The response still goes through the
// normalizer; models wrap JSON in markdown or prose often enough that the
// output is never trusted as-is.
func (pb *PromptBuilder) BuildExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a resume parser. Extract structured candidate data from the resume below.

RESUME TEXT:
%s

Return your response as a SINGLE JSON object and nothing else. No markdown, no code fences, no explanations. Empty lists must be [] and never null.

Schema:
{
  "success": true,
  "name": "<full name>",
  "contact_info": {
    "email": "<email or empty string>",
    "phone": "<phone or empty string>",
    "linkedin": "<linkedin url or empty string>",
    "github": "<github url or empty string>",
    "website": "<website url or empty string>"
  },
  "education": [{"institution": "", "degree": "", "date": "", "description": ""}],
  "experience": [{"position": "", "company": "", "date": "", "description": ""}],
  "skill": {
    "technical_skills": ["<skill>"],
    "soft_skills": ["<skill>"],
    "tools": ["<tool>"]
  }
}

Do not invent facts that are not in the resume. Do not add fields outside the schema.`, resumeText)
}
