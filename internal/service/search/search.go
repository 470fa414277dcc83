package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

// Search runs a fuzzy multi_match over the product index. Documents are
// indexed with the same field names the API exposes.
func Search(ctx context.Context, client *elasticsearch.Client, index, rawQuery string, from, size int) (int64, []transport.ProductStock, error) {
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return 0, []transport.ProductStock{}, nil
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	if from < 0 {
		from = 0
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"productName^2", "productId"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source transport.ProductStock `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	results := make([]transport.ProductStock, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		results[i] = hit.Source
	}
	return r.Hits.Total.Value, results, nil
}
