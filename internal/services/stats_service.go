package services

import (
	"fmt"
	"time"

	"shelfmap/internal/location"
	"shelfmap/internal/repositories"
)

// Stats are the summary counters shown on the management page.
type Stats struct {
	TotalProducts int `json:"total_products"`
	TotalLines    int `json:"total_lines"`
	TotalRacks    int `json:"total_racks"`
	RecentlyAdded int `json:"recently_added"`
}

// StatsService computes catalog summary statistics. The numbers are derived
// on demand from a full location scan, never cached.
type StatsService struct {
	repo repositories.ProductRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo repositories.ProductRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Summary counts products, distinct lines, distinct racks and products added
// in the trailing 7 days. "Now" is captured once so every row is measured
// against the same instant.
func (s *StatsService) Summary() (*Stats, error) {
	records, err := s.repo.Locations()
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	lines := make(map[int]struct{})
	racks := make(map[location.Coordinate]struct{})
	recentlyAdded := 0
	for _, rec := range records {
		lines[rec.LineNumber] = struct{}{}
		// Section is ignored: products in different sections of one
		// rack count as the same rack.
		racks[location.Coordinate{Line: rec.LineNumber, Rack: rec.RackNumber}] = struct{}{}
		if rec.CreatedAt.After(weekAgo) {
			recentlyAdded++
		}
	}

	return &Stats{
		TotalProducts: len(records),
		TotalLines:    len(lines),
		TotalRacks:    len(racks),
		RecentlyAdded: recentlyAdded,
	}, nil
}
