package models

const HealthStatusHealthy = "healthy"

// HealthResponse is returned by GET /health. Services keep their received order.
type HealthResponse struct {
	Status    string             `json:"status"`
	Timestamp Timestamp          `json:"timestamp"`
	Version   string             `json:"version"`
	Services  OrderedPairs[bool] `json:"services"`
}

func (h *HealthResponse) IsHealthy() bool {
	return h != nil && h.Status == HealthStatusHealthy
}

// VectorStoreStats is the vector_store block of GET /stats
type VectorStoreStats struct {
	TotalDocuments        int               `json:"total_documents"`
	NamespaceDistribution OrderedPairs[int] `json:"namespace_distribution"`
	CollectionName        string            `json:"collection_name"`
}

// SystemStatsResponse is returned by GET /stats
type SystemStatsResponse struct {
	VectorStore         VectorStoreStats `json:"vector_store"`
	GeminiConnection    bool             `json:"gemini_connection"`
	AvailableNamespaces []string         `json:"available_namespaces"`
	Status              string           `json:"status"`
}

// TotalChunks sums the per-namespace counts.
func (s *SystemStatsResponse) TotalChunks() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, ns := range s.VectorStore.NamespaceDistribution {
		total += ns.Value
	}
	return total
}

// MaxNamespaceCount is the largest per-namespace count, used to scale distribution bars.
func (s *SystemStatsResponse) MaxNamespaceCount() int {
	if s == nil {
		return 0
	}
	max := 0
	for _, ns := range s.VectorStore.NamespaceDistribution {
		if ns.Value > max {
			max = ns.Value
		}
	}
	return max
}
