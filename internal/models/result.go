package models

type UploadResponse struct {
	Success          bool   `json:"success"`
	FilePath         string `json:"filePath"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"originalFilename"`
}

type ParseRequest struct {
	FilePath string `json:"filePath"`
}

type ParseRunResponse struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Success      bool    `json:"success"`
	FromCache    bool    `json:"from_cache"`
	DurationMs   int64   `json:"duration_ms"`
	Profile      Profile `json:"profile,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

type TalentMatch struct {
	DocumentID string  `json:"document_id"`
	Name       string  `json:"name"`
	Score      float32 `json:"score"`
	Summary    string  `json:"summary"`
}

type TalentSearchResponse struct {
	Query   string        `json:"query"`
	Results []TalentMatch `json:"results"`
}
