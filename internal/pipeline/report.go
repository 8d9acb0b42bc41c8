// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tfoster-dev/featurelens/internal/modelstore"
	"github.com/tfoster-dev/featurelens/internal/table"
)

// ImputationStat records one cold-start fill pass.
type ImputationStat struct {
	Side   string `json:"side"`
	Column string `json:"column"`
	Cells  int    `json:"cells"`
}

// RunStats is the run report persisted as JSON at the end of a successful
// run. Field values accumulate as stages complete.
type RunStats struct {
	RunID      string    `json:"run_id"`
	Seed       int64     `json:"seed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Sources map[string]table.FilterReport `json:"sources"`

	TrainRows      int `json:"train_rows"`
	TestRows       int `json:"test_rows"`
	MovieIndexSize int `json:"movie_index_size"`
	UserIndexSize  int `json:"user_index_size"`

	ContractColumns []string         `json:"contract_columns"`
	Imputed         []ImputationStat `json:"imputed,omitempty"`

	TestMSE     float64 `json:"test_mse"`
	TestRMSE    float64 `json:"test_rmse"`
	HoldoutMSE  float64 `json:"holdout_mse"`
	HoldoutRMSE float64 `json:"holdout_rmse"`

	Artifacts []modelstore.Metadata `json:"artifacts,omitempty"`
}

// Duration reports the wall-clock time of the run.
func (s *RunStats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// WriteReport writes the stats as indented JSON, atomically.
func (s *RunStats) WriteReport(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write run report: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}
