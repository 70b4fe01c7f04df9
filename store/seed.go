package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"petmatch_server/models"
)

// Seeder is implemented by every store backend
type Seeder interface {
	SaveCandidate(ctx context.Context, c *models.Candidate) error
	SavePreference(ctx context.Context, p *models.ExplicitPreference) error
}

// SeedData is the layout of a seed file
type SeedData struct {
	Candidates  []*models.Candidate          `json:"candidates"`
	Preferences []*models.ExplicitPreference `json:"preferences"`
}

// LoadSeedFile writes the candidates and preferences in the JSON file at path into s
func LoadSeedFile(ctx context.Context, path string, s Seeder) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	for _, c := range data.Candidates {
		if err := s.SaveCandidate(ctx, c); err != nil {
			return nil, err
		}
	}
	for _, p := range data.Preferences {
		if p.UserID == "" {
			return nil, fmt.Errorf("preference without user_id: %w", models.ErrInvalidArgument)
		}
		if err := s.SavePreference(ctx, p); err != nil {
			return nil, err
		}
	}
	return &data, nil
}
