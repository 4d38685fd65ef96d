// Package nlp adapts the prose NLP library to the topic-extraction
// capability the graph builder consumes.
package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// ProseExtractor detects named entities in capture text. Extraction is
// best-effort: any failure yields an empty result, never an error.
type ProseExtractor struct {
	logger *zap.Logger
}

// NewProseExtractor creates a prose-backed topic extractor
func NewProseExtractor(logger *zap.Logger) *ProseExtractor {
	return &ProseExtractor{logger: logger}
}

// Topics returns the lowercased surface text of each detected entity,
// unique in first-seen order. Tag-shaped tokens (leading '#') are
// dropped here so the same surface text is never represented as both
// a tag and an entity.
func (e *ProseExtractor) Topics(text string) []string {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		e.logger.Debug("topic detection failed", zap.Error(err))
		return nil
	}

	entities := doc.Entities()
	seen := make(map[string]struct{}, len(entities))
	topics := make([]string, 0, len(entities))
	for _, ent := range entities {
		name := strings.ToLower(strings.TrimSpace(ent.Text))
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		topics = append(topics, name)
	}
	return topics
}
