package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/models"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

// fakeES answers like a cluster and records each request.
func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()

	var mu sync.Mutex
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func TestIndex_IndexBook(t *testing.T) {
	es, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	ix := &Index{ES: es, Name: "books"}

	b := &models.Book{UID: uuid.New(), Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton",
		Tags: []models.Tag{{Name: "scifi"}}}
	require.NoError(t, ix.IndexBook(context.Background(), b))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/books/_doc/"+b.UID.String(), got.Path)

	var doc BookDoc
	require.NoError(t, json.Unmarshal([]byte(got.Body), &doc))
	assert.Equal(t, "Dune", doc.Title)
	assert.Equal(t, []string{"scifi"}, doc.Tags)
}

func TestIndex_DeleteBook_MissingIsFine(t *testing.T) {
	es, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	ix := &Index{ES: es, Name: "books"}

	id := uuid.New()
	require.NoError(t, ix.DeleteBook(context.Background(), id))
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodDelete, (*reqs)[0].Method)
	assert.Equal(t, "/books/_doc/"+id.String(), (*reqs)[0].Path)
}

func TestIndex_Search(t *testing.T) {
	es, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[
			{"_source":{"uid":"1","title":"Dune","author":"Frank Herbert"}},
			{"_source":{"uid":"2","title":"Dune Messiah","author":"Frank Herbert"}}]}}`))
	})
	ix := &Index{ES: es, Name: "books"}

	total, docs, err := ix.Search(context.Background(), "dune", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, docs, 2)
	assert.Equal(t, "Dune Messiah", docs[1].Title)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/books/_search", (*reqs)[0].Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*reqs)[0].Body), &body))
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "dune", mm["query"])
	assert.Equal(t, []any{"title^2", "author", "publisher"}, mm["fields"])
	assert.EqualValues(t, 10, body["size"])
}

func TestIndex_Search_ClusterError(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})
	ix := &Index{ES: es, Name: "books"}

	_, _, err := ix.Search(context.Background(), "dune", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}

func TestIndex_Search_PastResultWindowOnlyCounts(t *testing.T) {
	es, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":3},"hits":[]}}`))
	})
	ix := &Index{ES: es, Name: "books"}

	total, docs, err := ix.Search(context.Background(), "dune", MaxResultWindow, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, docs)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*reqs)[0].Body), &body))
	assert.EqualValues(t, 0, body["from"])
	assert.EqualValues(t, 0, body["size"])
}
