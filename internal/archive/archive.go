package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/clausewise/clausewise/pkg/models"
	"github.com/elastic/go-elasticsearch/v8"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Client indexes completed analyses so past findings stay searchable.
// Archiving is fire-and-forget from the pipeline's perspective: an
// indexing failure never fails the request that produced the analysis.
type Client struct {
	es    *elasticsearch.Client
	index string
}

// New creates a new archive client.
func New(config Config) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{
		es:    es,
		index: config.Index,
	}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// indexMapping defines the ES mapping for archived analyses.
var indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"identity": { "type": "keyword" },
			"url": { "type": "keyword" },
			"hash": { "type": "keyword" },
			"tags": { "type": "keyword" },
			"titles": { "type": "text", "analyzer": "english" },
			"summary": { "type": "text", "analyzer": "english" },
			"analyzed_at": { "type": "date" }
		}
	}
}`

// CreateIndex creates the index with proper mapping.
func (c *Client) CreateIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (c *Client) DeleteIndex(ctx context.Context) error {
	res, err := c.es.Indices.Delete([]string{c.index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// IndexAnalysis indexes a single analysis record.
func (c *Client) IndexAnalysis(ctx context.Context, a models.Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(a.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index analysis: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing analysis (status %d): %s", res.StatusCode, res.String())
	}

	return nil
}

// Refresh forces an index refresh (useful for testing).
func (c *Client) Refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// searchResponse represents ES search response structure.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Analysis `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search performs a BM25 search over an identity's archived analyses,
// matching clause titles, tags, and summaries.
func (c *Client) Search(ctx context.Context, identity, query string, limit int) ([]models.Analysis, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"identity": identity},
				},
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"titles", "tags^2", "summary", "url"},
					},
				},
			},
		},
		"size": limit,
	}

	data, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	analyses := make([]models.Analysis, len(sr.Hits.Hits))
	for i, hit := range sr.Hits.Hits {
		analyses[i] = hit.Source
	}

	return analyses, nil
}
