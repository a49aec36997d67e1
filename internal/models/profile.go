package models

import (
	"path/filepath"
	"strings"
)

// FileInfo identifies the stored upload a parse result came from. It is
// derived from the upload on the server side, never from parser output.
type FileInfo struct {
	FilePath         string `json:"filePath"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"originalFilename"`
	Extension        string `json:"extension"`
}

func NewFileInfo(filePath, originalFilename string) FileInfo {
	return FileInfo{
		FilePath:         filePath,
		Filename:         filepath.Base(filePath),
		OriginalFilename: originalFilename,
		Extension:        filepath.Ext(filePath),
	}
}

// Profile is the canonical candidate profile. The external parser's output
// shape varies between versions, so the profile stays a loose JSON object;
// the normalizer guarantees the canonical keys are present and well-formed.
type Profile map[string]any

// SkillKeys are the sub-lists of the skill object, always present after
// normalization.
var SkillKeys = []string{"technical_skills", "soft_skills", "tools"}

// EmptySkill returns a skill object with all sub-lists present and empty.
func EmptySkill() map[string]any {
	return map[string]any{
		"technical_skills": []any{},
		"soft_skills":      []any{},
		"tools":            []any{},
	}
}

// FailureProfile builds a failure-shaped profile. Every failure path in the
// pipeline resolves to one of these, so downstream code can treat success and
// failure uniformly.
func FailureProfile(errMsg, details string) Profile {
	p := Profile{
		"success":    false,
		"error":      errMsg,
		"education":  []any{},
		"experience": []any{},
		"skill":      EmptySkill(),
	}
	if details != "" {
		p["details"] = details
	}
	return p
}

func (p Profile) Success() bool {
	b, ok := p["success"].(bool)
	return ok && b
}

func (p Profile) Name() string {
	s, _ := p["name"].(string)
	return strings.TrimSpace(s)
}

// List returns the named top-level list, or nil if absent or not a list.
func (p Profile) List(key string) []any {
	l, _ := p[key].([]any)
	return l
}

// Skill returns the skill object, or nil if absent.
func (p Profile) Skill() map[string]any {
	m, _ := p["skill"].(map[string]any)
	return m
}

// ContactInfo returns the contact_info object, or nil if absent.
func (p Profile) ContactInfo() map[string]any {
	m, _ := p["contact_info"].(map[string]any)
	return m
}

func (p Profile) SetFileInfo(info FileInfo) {
	p["fileInfo"] = info
}

// Clone copies the top level of the profile. Nested values are shared and
// treated as immutable after normalization.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
