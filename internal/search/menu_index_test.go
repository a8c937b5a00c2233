package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	f.bodies[key] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"}}`)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/menu/_doc/"):
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete && r.URL.Path == "/menu/_doc/404":
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	case r.Method == http.MethodDelete:
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func newIndex(t *testing.T) (*MenuIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{bodies: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	return &MenuIndex{ES: client, Index: "menu"}, fake
}

func TestMenuIndex_IndexItem(t *testing.T) {
	idx, fake := newIndex(t)

	item := models.MenuItem{ID: 12, Name: "Paneer Tikka", Category: "Starter", Price: decimal.RequireFromString("7.5")}
	require.NoError(t, idx.IndexItem(context.Background(), item))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies["PUT /menu/_doc/12"]), &doc))
	assert.Equal(t, "Paneer Tikka", doc["name"])
	assert.Equal(t, "7.50", doc["price"])
	assert.EqualValues(t, 12, doc["id"])
}

func TestMenuIndex_DeleteMissingIsOK(t *testing.T) {
	idx, _ := newIndex(t)

	assert.NoError(t, idx.DeleteItem(context.Background(), 404))
	assert.NoError(t, idx.DeleteItem(context.Background(), 5))
}

func TestMenuIndex_Search(t *testing.T) {
	idx, fake := newIndex(t)

	total, ids, err := idx.Search(context.Background(), "tikka", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{3, 1}, ids)

	var body map[string]any
	for key, b := range fake.bodies {
		if strings.HasSuffix(key, "/_search") {
			require.NoError(t, json.Unmarshal([]byte(b), &body))
		}
	}
	require.NotNil(t, body)
	assert.EqualValues(t, 10, body["size"])
}

func TestNewClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, "elastic", "wrong")
	assert.Error(t, err)
}
