package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"jobportal/resume-parser/internal/models"
)

// TalentService maintains the talent-pool vector index: one point per parsed
// candidate, searchable by free-text query.
type TalentService interface {
	InitCollection() error
	IndexProfile(ctx context.Context, docID uuid.UUID, profile models.Profile) error
	Search(ctx context.Context, query string, limit int) ([]models.TalentMatch, error)
}

type talentService struct {
	client         *qdrant.Client
	gemini         GeminiService
	collectionName string
	vectorSize     uint64
}

func NewTalentService(urlStr, apiKey, collectionName string, gemini GeminiService) (TalentService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &talentService{
		client:         client,
		gemini:         gemini,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements TalentService.
func (t *talentService) InitCollection() error {
	ctx := context.Background()

	exists, err := t.client.CollectionExists(ctx, t.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Talent collection already exists")
		return nil
	}

	err = t.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: t.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     t.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", t.collectionName)
	return nil
}

// IndexProfile implements TalentService. The point ID is the document ID so
// re-parsing the same upload overwrites its entry instead of duplicating it.
func (t *talentService) IndexProfile(ctx context.Context, docID uuid.UUID, profile models.Profile) error {
	text := ProfileText(profile)
	if text == "" {
		return fmt.Errorf("profile has no indexable content")
	}

	embedding, err := t.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed profile: %w", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(docID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"doc_id":  docID.String(),
			"name":    profile.Name(),
			"summary": text,
		}),
	}

	_, err = t.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: t.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements TalentService.
func (t *talentService) Search(ctx context.Context, query string, limit int) ([]models.TalentMatch, error) {
	embedding, err := t.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := t.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: t.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []models.TalentMatch
	for _, point := range searchResult {
		payload := point.Payload

		match := models.TalentMatch{
			Score: point.Score,
		}

		if docID, ok := payload["doc_id"]; ok {
			if val, ok := docID.GetKind().(*qdrant.Value_StringValue); ok {
				match.DocumentID = val.StringValue
			}
		}

		if name, ok := payload["name"]; ok {
			if val, ok := name.GetKind().(*qdrant.Value_StringValue); ok {
				match.Name = val.StringValue
			}
		}

		if summary, ok := payload["summary"]; ok {
			if val, ok := summary.GetKind().(*qdrant.Value_StringValue); ok {
				match.Summary = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// ProfileText flattens a profile into the text that gets embedded: name,
// skills, experience, and education.
func ProfileText(profile models.Profile) string {
	var parts []string

	if name := profile.Name(); name != "" {
		parts = append(parts, name)
	}

	if skill := profile.Skill(); skill != nil {
		for _, key := range models.SkillKeys {
			for _, item := range asList(skill[key]) {
				if s := asString(item); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}

	for _, key := range []string{"experience", "education"} {
		for _, item := range profile.List(key) {
			entry, ok := asObject(item)
			if !ok {
				continue
			}
			for _, field := range []string{"position", "company", "institution", "degree", "description"} {
				if s := asString(entry[field]); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}

	return strings.Join(parts, "\n")
}
