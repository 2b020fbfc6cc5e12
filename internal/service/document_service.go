package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"archtutor_backend/internal/model"
	"archtutor_backend/pkg/logger"

	"go.uber.org/zap"
)

// maxContextBytes caps how much material is stuffed into one prompt.
const maxContextBytes = 16 * 1024

// DocumentService catalogs the pre-extracted course material held by
// the storage backend and assembles prompt context from it.
type DocumentService struct {
	provider StorageProvider
}

func NewDocumentService(provider StorageProvider) *DocumentService {
	return &DocumentService{provider: provider}
}

// List returns the available documents, ordered by id. The id is the
// object name without extension, usable directly in chat requests.
func (s *DocumentService) List(ctx context.Context) ([]model.Document, error) {
	names, err := s.provider.List(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".md") {
			continue
		}
		docs = append(docs, model.Document{
			ID:    docID(name),
			Title: docTitle(name),
			Path:  name,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Context fetches the named documents and concatenates their text for
// the chat prompt, together with reference entries. Unknown ids are
// skipped rather than failing the whole chat request.
func (s *DocumentService) Context(ctx context.Context, ids []string) (string, []model.Reference, error) {
	if len(ids) == 0 {
		return "", nil, nil
	}

	docs, err := s.List(ctx)
	if err != nil {
		return "", nil, err
	}
	byID := make(map[string]model.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	var builder strings.Builder
	var refs []model.Reference
	for _, id := range ids {
		doc, ok := byID[id]
		if !ok {
			logger.Log.Warn("unknown document requested", zap.String("document_id", id))
			continue
		}

		text, err := s.fetchText(ctx, doc.Path)
		if err != nil {
			logger.Log.Warn("document fetch failed", zap.String("document_id", id), zap.Error(err))
			continue
		}

		remaining := maxContextBytes - builder.Len()
		if remaining <= 0 {
			break
		}
		if len(text) > remaining {
			text = text[:remaining]
		}

		fmt.Fprintf(&builder, "--- %s ---\n%s\n\n", doc.Title, text)
		refs = append(refs, model.Reference{
			Title:  doc.Title,
			Source: doc.Path,
		})
	}
	return builder.String(), refs, nil
}

func (s *DocumentService) fetchText(ctx context.Context, objectName string) (string, error) {
	rc, err := s.provider.Fetch(ctx, objectName)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxContextBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func docID(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

func docTitle(name string) string {
	id := docID(name)
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
