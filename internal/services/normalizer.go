package services

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"jobportal/resume-parser/internal/models"
)

// NormalizerService reconciles the external parser's raw stdout into the
// canonical candidate profile. The output is trusted only as "probably JSON,
// possibly dirty": it may be empty, partial, wrapped in log lines, or carry
// fields under inconsistent names depending on the parser version. Every
// input, however malformed, produces a well-formed profile.
type NormalizerService interface {
	Normalize(raw string) models.Profile
	Reconcile(obj map[string]any) models.Profile
}

type normalizerService struct{}

func NewNormalizerService() NormalizerService {
	return &normalizerService{}
}

const extractionFailedError = "Failed to extract valid JSON from model output"

var (
	jsonObjectRe    = regexp.MustCompile(`(?s)\{.*?\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Normalize tries progressively weaker extraction strategies and reconciles
// whichever one yields a parseable object. If all of them fail it emits a
// terminal failure profile carrying the first 500 characters of the raw
// output as details.
func (n *normalizerService) Normalize(raw string) models.Profile {
	if obj, ok := parseObject(strings.TrimSpace(raw)); ok {
		return n.Reconcile(obj)
	}

	if obj, ok := extractObject(raw); ok {
		return n.Reconcile(obj)
	}

	details := raw
	if len(details) > 500 {
		// Truncate on rune boundaries; a byte slice could split a
		// multibyte character and emit invalid UTF-8 into the JSON
		if runes := []rune(details); len(runes) > 500 {
			details = string(runes[:500])
		}
	}
	return models.FailureProfile(extractionFailedError, details)
}

func parseObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// extractObject recovers a JSON object from output polluted with log noise:
// every {...} candidate largest-first, then the span from the first "{" to
// the last "}", then that span again with trailing commas stripped.
func extractObject(text string) (map[string]any, bool) {
	candidates := jsonObjectRe.FindAllString(text, -1)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})
	for _, candidate := range candidates {
		if obj, ok := parseObject(candidate); ok {
			return obj, true
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, false
	}

	span := text[start : end+1]
	if obj, ok := parseObject(span); ok {
		return obj, true
	}
	if obj, ok := parseObject(trailingCommaRe.ReplaceAllString(span, "$1")); ok {
		return obj, true
	}

	return nil, false
}

// foldedKeys are removed from the top level once their content has been
// merged into skill/contact_info, so duplicate representations never coexist.
var foldedKeys = []string{
	"technical_skills",
	"soft_skills",
	"tools",
	"skills",
	"email",
	"phone",
	"linkedin",
	"github",
	"language_skills",
}

// Reconcile builds the canonical profile shape from a parsed object.
// Reconciling an already-reconciled profile is a no-op.
func (n *normalizerService) Reconcile(obj map[string]any) models.Profile {
	out := make(models.Profile, len(obj))
	for k, v := range obj {
		out[k] = v
	}

	out["education"] = asList(out["education"])
	out["experience"] = asList(out["experience"])

	skill, ok := asObject(out["skill"])
	if !ok {
		if renamed, ok := asObject(out["skills"]); ok {
			skill = renamed
		} else {
			skill = map[string]any{
				"technical_skills": asList(out["technical_skills"]),
				"soft_skills":      asList(out["soft_skills"]),
				"tools":            asList(out["tools"]),
			}
		}
	}
	normalized := make(map[string]any, len(skill))
	for k, v := range skill {
		normalized[k] = v
	}
	for _, key := range models.SkillKeys {
		normalized[key] = asList(normalized[key])
	}
	out["skill"] = normalized

	if _, ok := asObject(out["contact_info"]); !ok {
		out["contact_info"] = map[string]any{
			"email":    asString(out["email"]),
			"phone":    asString(out["phone"]),
			"linkedin": asString(out["linkedin"]),
			"github":   asString(out["github"]),
		}
	}

	for _, key := range foldedKeys {
		delete(out, key)
	}

	success := true
	if flag, ok := out["success"].(bool); ok && !flag {
		success = hasUsableData(out)
	}
	out["success"] = success

	return out
}

// hasUsableData backs the success override: an upstream failure flag is
// ignored when the object plainly carries extracted content. The python
// parser's self-reported status is unreliable across versions.
func hasUsableData(p models.Profile) bool {
	if p.Name() != "" {
		return true
	}
	if len(p.List("education")) > 0 || len(p.List("experience")) > 0 {
		return true
	}
	if skill := p.Skill(); skill != nil {
		for _, key := range models.SkillKeys {
			if len(asList(skill[key])) > 0 {
				return true
			}
		}
	}
	return false
}

func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{}
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
