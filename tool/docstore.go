package tool

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/contentmesh/internal/util"
)

// Document is a stored piece of content with its creation metadata.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DocStore is a volatile, process-local document store standing in for an
// external document service. Documents do not survive a restart.
type DocStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewDocStore constructs an empty document store.
func NewDocStore() *DocStore {
	return &DocStore{docs: make(map[string]Document)}
}

// Name implements Tool.
func (d *DocStore) Name() string { return "docstore" }

// Description implements Tool.
func (d *DocStore) Description() string {
	return "Create and retrieve stored content documents"
}

// Call supports two operations:
//
//	create - args: title, content; returns document_id
//	get    - args: document_id; returns the stored document
func (d *DocStore) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	operation, _ := args["operation"].(string)

	switch operation {
	case "create":
		title, _ := args["title"].(string)
		content, _ := args["content"].(string)
		doc := Document{
			ID:        util.NewID(),
			Title:     title,
			Content:   content,
			CreatedAt: time.Now(),
		}
		d.mu.Lock()
		d.docs[doc.ID] = doc
		d.mu.Unlock()
		return map[string]any{"document_id": doc.ID, "result": "success"}, nil

	case "get":
		id, _ := args["document_id"].(string)
		d.mu.RLock()
		doc, ok := d.docs[id]
		d.mu.RUnlock()
		if !ok {
			return nil, NewError(d.Name(), "document not found: "+id, "NOT_FOUND")
		}
		return map[string]any{
			"document_id": doc.ID,
			"title":       doc.Title,
			"content":     doc.Content,
			"created_at":  doc.CreatedAt,
		}, nil

	default:
		return nil, NewError(d.Name(), "unsupported operation: "+operation, "VALIDATION_ERROR")
	}
}

// Len reports how many documents are stored. Used by tests and status endpoints.
func (d *DocStore) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs)
}
