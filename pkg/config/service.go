package config

import (
	"github.com/shishobooks/cabinet/pkg/query"
	"github.com/shishobooks/cabinet/pkg/ranking"
)

// SearchSettings is the client-visible subset of the config that shapes search
// results.
type SearchSettings struct {
	DefaultLimit   int             `json:"defaultLimit"`
	MaxLimit       int             `json:"maxLimit"`
	HighlightOpen  string          `json:"highlightOpen"`
	HighlightClose string          `json:"highlightClose"`
	MaxFolderDepth int             `json:"maxFolderDepth"`
	Weights        ranking.Weights `json:"weights"`
}

type Service struct {
	config *Config
}

func NewService(cfg *Config) *Service {
	return &Service{config: cfg}
}

func (s *Service) RetrieveSearchSettings() *SearchSettings {
	return &SearchSettings{
		DefaultLimit:   query.DefaultLimit,
		MaxLimit:       query.MaxLimit,
		HighlightOpen:  s.config.HighlightOpen,
		HighlightClose: s.config.HighlightClose,
		MaxFolderDepth: s.config.MaxFolderDepth,
		Weights:        s.config.RankingWeights(),
	}
}
