package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElasticSearch(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/_search", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"took": 1,
			"hits": {
				"total": {"value": 3, "relation": "eq"},
				"hits": [
					{"_index": "videos", "_id": "3", "_score": 2.0},
					{"_index": "videos", "_id": "bogus", "_score": 1.5},
					{"_index": "videos", "_id": "1", "_score": 1.0}
				]
			}
		}`))
	}))
	defer srv.Close()

	idx, err := NewElasticIndex(srv.URL, "videos")
	require.NoError(t, err)

	ids, err := idx.Search(context.Background(), "golang", 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids)
	assert.EqualValues(t, 20, body["size"])
	assert.Contains(t, body, "query")
}
