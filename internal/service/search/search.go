// Package search keeps an Elasticsearch index of books and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
)

// BookDoc is the indexed projection of a book.
type BookDoc struct {
	UID       string   `json:"uid"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Publisher string   `json:"publisher"`
	Language  string   `json:"language"`
	PageCount int      `json:"page_count"`
	Tags      []string `json:"tags,omitempty"`
}

func DocFromBook(b *models.Book) BookDoc {
	doc := BookDoc{
		UID:       b.UID.String(),
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Language:  b.Language,
		PageCount: b.PageCount,
	}
	for _, t := range b.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	return doc
}

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func (ix *Index) IndexBook(ctx context.Context, b *models.Book) error {
	body, err := json.Marshal(DocFromBook(b))
	if err != nil {
		return fmt.Errorf("encode book doc: %w", err)
	}

	res, err := ix.ES.Index(ix.Name, bytes.NewReader(body),
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(b.UID.String()),
	)
	if err != nil {
		return fmt.Errorf("index book: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index book", res.Status(), res.Body)
	}
	return nil
}

// DeleteBook removes a book's document. A missing document is not an error.
func (ix *Index) DeleteBook(ctx context.Context, uid uuid.UUID) error {
	res, err := ix.ES.Delete(ix.Name, uid.String(), ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete book doc: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete book doc", res.Status(), res.Body)
	}
	return nil
}

// MaxResultWindow is the default index.max_result_window of a cluster.
const MaxResultWindow = 10000

// Search runs a fuzzy multi_match over title (boosted), author and publisher.
// Pages past MaxResultWindow only report the total.
func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []BookDoc, error) {
	if from < 0 {
		from = 0
	}
	if size < 0 || from+size > MaxResultWindow {
		from, size = 0, 0
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "author", "publisher"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search books: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search books", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source BookDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]BookDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("%s: %s: %s", op, status, bytes.TrimSpace(b))
}
