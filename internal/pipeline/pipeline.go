// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package pipeline wires the stages into a single-pass batch run:
//
//	load -> filter -> split -> aggregate (train only) -> join -> validate
//	     -> fit/predict -> evaluate -> persist
//
// Stages run strictly in dependency order. The frozen AggregateSet is the
// only state shared between the train-join and score-join stages; every
// fatal error aborts the run before later outputs are persisted.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tfoster-dev/featurelens/internal/config"
	"github.com/tfoster-dev/featurelens/internal/contract"
	"github.com/tfoster-dev/featurelens/internal/dataset"
	"github.com/tfoster-dev/featurelens/internal/evaluate"
	"github.com/tfoster-dev/featurelens/internal/features"
	"github.com/tfoster-dev/featurelens/internal/logging"
	"github.com/tfoster-dev/featurelens/internal/metrics"
	"github.com/tfoster-dev/featurelens/internal/model"
	"github.com/tfoster-dev/featurelens/internal/modelstore"
	"github.com/tfoster-dev/featurelens/internal/split"
	"github.com/tfoster-dev/featurelens/internal/table"
)

// Feature column names shared by both pipeline paths.
const (
	ColMovieAvgRating    = "MovieAvgRating"
	ColUserAvgRating     = "UserAvgRating"
	ColUserRatingCount   = "UserRatingCount"
	ColRatingYear        = "RatingYear"
	ColRatingMonth       = "RatingMonth"
	ColYearsSinceRelease = "YearsSinceRelease"
)

// RequiredColumns is the schema contract both feature tables must expose,
// in order, before either reaches the model. YearsSinceRelease is
// deliberately absent: it exists only on the scoring path and is projected
// away at the contract boundary.
var RequiredColumns = []string{
	"UserID",
	"MovieID",
	ColMovieAvgRating,
	ColUserAvgRating,
	ColUserRatingCount,
	ColRatingYear,
	ColRatingMonth,
	"Rating",
}

// Aggregate names in the frozen set.
const (
	aggMovieAvg  = "movie_avg_rating"
	aggUserAvg   = "user_avg_rating"
	aggUserCount = "user_rating_count"
)

// Pipeline executes one batch run.
type Pipeline struct {
	cfg *config.Config
	reg model.Regressor
}

// New creates a pipeline for the given configuration. A nil regressor
// selects the configured model; tests inject a deterministic stub.
func New(cfg *config.Config, reg model.Regressor) *Pipeline {
	if reg == nil {
		b := model.NewBaseline()
		b.Ridge = cfg.Model.Ridge
		reg = b
	}
	return &Pipeline{cfg: cfg, reg: reg}
}

// Run executes the full pipeline and returns the run stats. Any returned
// error is fatal: no later-stage outputs have been persisted.
func (p *Pipeline) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{
		RunID:     uuid.New().String(),
		Seed:      p.cfg.Split.Seed,
		StartedAt: time.Now().UTC(),
		Sources:   make(map[string]table.FilterReport),
	}
	runLog := logging.With().Str("run_id", stats.RunID).Logger()
	runLog.Info().Int64("seed", stats.Seed).Msg("pipeline run starting")

	if err := p.run(ctx, stats, runLog); err != nil {
		stats.FinishedAt = time.Now().UTC()
		metrics.PipelineRuns.WithLabelValues("failure").Inc()
		runLog.Error().Err(err).Msg("pipeline run failed")
		return nil, err
	}
	metrics.PipelineRuns.WithLabelValues("success").Inc()
	runLog.Info().
		Float64("test_rmse", stats.TestRMSE).
		Float64("holdout_rmse", stats.HoldoutRMSE).
		Msg("pipeline run complete")
	return stats, nil
}

func (p *Pipeline) run(ctx context.Context, stats *RunStats, runLog zerolog.Logger) error {
	// Stage 1: load and clean the primary sources.
	src, err := p.loadPrimary(ctx, stats, runLog)
	if err != nil {
		return err
	}

	// Stage 2: partition the ratings. Aggregates may only see the train
	// side from here on.
	trainIdx, testIdx, err := split.Split(src.ratings.NumRows(), p.cfg.Split.TestFraction, p.cfg.Split.Seed)
	if err != nil {
		return fmt.Errorf("split ratings: %w", err)
	}
	train, err := src.ratings.Take(trainIdx)
	if err != nil {
		return fmt.Errorf("materialize train partition: %w", err)
	}
	test, err := src.ratings.Take(testIdx)
	if err != nil {
		return fmt.Errorf("materialize test partition: %w", err)
	}
	stats.TrainRows = train.NumRows()
	stats.TestRows = test.NumRows()
	runLog.Info().Int("train_rows", train.NumRows()).Int("test_rows", test.NumRows()).Msg("ratings partitioned")

	// Stage 3: build the frozen aggregates from the train partition only.
	aggs, err := buildAggregates(train, stats)
	if err != nil {
		return err
	}

	// Stage 4: engineered features for the train and test partitions.
	trainFeat, err := p.ratingFeatures(train, aggs, stats, "train")
	if err != nil {
		return fmt.Errorf("train features: %w", err)
	}
	testFeat, err := p.ratingFeatures(test, aggs, stats, "test")
	if err != nil {
		return fmt.Errorf("test features: %w", err)
	}

	// Stage 5: holdout (scoring path) features from the ::-delimited
	// sources, through the same joins against the same frozen aggregates.
	scoreFeat, err := p.holdoutFeatures(ctx, aggs, stats, runLog)
	if err != nil {
		return err
	}

	// Stage 6: schema contract. Both pairs must expose the identical
	// ordered column set with no missing cells.
	valStart := time.Now()
	trainMat, scoreMat, err := contract.Validate(trainFeat, scoreFeat, RequiredColumns)
	if err != nil {
		return fmt.Errorf("validate train/score contract: %w", err)
	}
	_, testMat, err := contract.Validate(trainFeat, testFeat, RequiredColumns)
	if err != nil {
		return fmt.Errorf("validate train/test contract: %w", err)
	}
	stats.ContractColumns = RequiredColumns
	metrics.ObserveStage("validate", valStart)

	// Stage 7: opaque model fit and predict.
	fitStart := time.Now()
	if err := p.reg.Fit(ctx, trainMat, "Rating"); err != nil {
		return fmt.Errorf("fit model: %w", err)
	}
	metrics.ObserveStage("fit", fitStart)

	testPred, err := p.reg.Predict(ctx, testMat)
	if err != nil {
		return fmt.Errorf("predict test partition: %w", err)
	}
	scorePred, err := p.reg.Predict(ctx, scoreMat)
	if err != nil {
		return fmt.Errorf("predict holdout: %w", err)
	}

	// Stage 8: evaluation.
	if err := p.evaluate(testMat, testPred, scoreMat, scorePred, stats); err != nil {
		return err
	}

	// Stage 9: persist artifacts and the run report.
	if err := p.persist(trainMat, testMat, scoreMat, stats); err != nil {
		return err
	}
	return nil
}

// primarySources holds the cleaned training-path tables.
type primarySources struct {
	movies  *table.Table
	ratings *table.Table
	tags    *table.Table
	links   *table.Table
}

// loadPrimary loads, cleans and persists the four primary sources.
func (p *Pipeline) loadPrimary(ctx context.Context, stats *RunStats, runLog zerolog.Logger) (*primarySources, error) {
	defer metrics.ObserveStage("load_primary", time.Now())

	movies, ratings, tags, links, err := p.loadTables(ctx)
	if err != nil {
		return nil, err
	}

	// Release year comes out of the title before filtering, so movies
	// without a parseable year are dropped by the gate rather than
	// carrying a null year forward.
	movies, err = features.DeriveReleaseYear(movies, "Title", "Year")
	if err != nil {
		return nil, fmt.Errorf("derive movie release year: %w", err)
	}

	src := &primarySources{}
	for _, sc := range []struct {
		entity string
		in     *table.Table
		out    **table.Table
	}{
		{"movies", movies, &src.movies},
		{"ratings", ratings, &src.ratings},
		{"tags", tags, &src.tags},
		{"links", links, &src.links},
	} {
		metrics.RowsLoaded.WithLabelValues(sc.entity, p.cfg.Data.Format).Add(float64(sc.in.NumRows()))
		cleaned, report := table.Filter(sc.in)
		stats.Sources[sc.entity] = report
		metrics.RowsDroppedMissing.WithLabelValues(sc.entity).Add(float64(report.RowsDroppedMissing))
		metrics.DuplicateRowsRemoved.WithLabelValues(sc.entity).Add(float64(report.DuplicatesRemoved))
		runLog.Info().
			Str("entity", sc.entity).
			Int("rows_in", report.RowsIn).
			Int("rows_out", report.RowsOut).
			Int("dropped_missing", report.RowsDroppedMissing).
			Int("duplicates_removed", report.DuplicatesRemoved).
			Msg("source filtered")

		if err := cleaned.SaveCSV(filepath.Join(p.cfg.Output.CleanDir, sc.entity+".csv")); err != nil {
			return nil, fmt.Errorf("persist cleaned %s: %w", sc.entity, err)
		}
		*sc.out = cleaned
	}

	if src.ratings.NumRows() == 0 {
		return nil, fmt.Errorf("ratings source is empty after filtering")
	}
	return src, nil
}

// loadTables reads the four sources through the configured loader.
func (p *Pipeline) loadTables(ctx context.Context) (movies, ratings, tags, links *table.Table, err error) {
	na := p.cfg.Data.NATokens
	switch p.cfg.Data.Format {
	case "duckdb":
		reader, err := dataset.OpenReader(p.cfg.Data.DatabasePath)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		defer reader.Close()
		if movies, err = reader.LoadTable(ctx, dataset.Movies); err != nil {
			return nil, nil, nil, nil, err
		}
		if ratings, err = reader.LoadTable(ctx, dataset.Ratings); err != nil {
			return nil, nil, nil, nil, err
		}
		if tags, err = reader.LoadTable(ctx, dataset.Tags); err != nil {
			return nil, nil, nil, nil, err
		}
		if links, err = reader.LoadTable(ctx, dataset.Links); err != nil {
			return nil, nil, nil, nil, err
		}
		return movies, ratings, tags, links, nil
	default: // csv, enforced by config validation
		if movies, err = dataset.LoadCSV(p.cfg.Data.MoviesPath, dataset.Movies, na); err != nil {
			return nil, nil, nil, nil, err
		}
		if ratings, err = dataset.LoadCSV(p.cfg.Data.RatingsPath, dataset.Ratings, na); err != nil {
			return nil, nil, nil, nil, err
		}
		if tags, err = dataset.LoadCSV(p.cfg.Data.TagsPath, dataset.Tags, na); err != nil {
			return nil, nil, nil, nil, err
		}
		if links, err = dataset.LoadCSV(p.cfg.Data.LinksPath, dataset.Links, na); err != nil {
			return nil, nil, nil, nil, err
		}
		return movies, ratings, tags, links, nil
	}
}

// buildAggregates computes the three training aggregates and freezes them.
func buildAggregates(train *table.Table, stats *RunStats) (*features.AggregateSet, error) {
	defer metrics.ObserveStage("aggregate", time.Now())

	set := features.NewAggregateSet()
	movieAvg, err := features.BuildMeanIndex(train, "MovieID", "Rating")
	if err != nil {
		return nil, fmt.Errorf("movie average index: %w", err)
	}
	userAvg, err := features.BuildMeanIndex(train, "UserID", "Rating")
	if err != nil {
		return nil, fmt.Errorf("user average index: %w", err)
	}
	userCount, err := features.BuildCountIndex(train, "UserID")
	if err != nil {
		return nil, fmt.Errorf("user count index: %w", err)
	}
	for name, idx := range map[string]*features.AggregateIndex{
		aggMovieAvg:  movieAvg,
		aggUserAvg:   userAvg,
		aggUserCount: userCount,
	} {
		if err := set.Register(name, idx); err != nil {
			return nil, err
		}
	}
	stats.MovieIndexSize = movieAvg.Len()
	stats.UserIndexSize = userAvg.Len()
	return set, nil
}

// ratingFeatures joins the frozen aggregates and calendar features into a
// ratings partition, imputing cold-start cells.
func (p *Pipeline) ratingFeatures(ratings *table.Table, aggs *features.AggregateSet, stats *RunStats, side string) (*table.Table, error) {
	defer metrics.ObserveStage("features_"+side, time.Now())

	out := ratings
	var err error
	for _, j := range []struct {
		agg   string
		key   string
		col   string
		count bool
	}{
		{aggMovieAvg, "MovieID", ColMovieAvgRating, false},
		{aggUserAvg, "UserID", ColUserAvgRating, false},
		{aggUserCount, "UserID", ColUserRatingCount, true},
	} {
		idx, ok := aggs.Get(j.agg)
		if !ok {
			return nil, fmt.Errorf("aggregate %q not registered", j.agg)
		}
		if out, err = features.Join(out, idx, j.key, j.col); err != nil {
			return nil, err
		}
		n, err := features.Unresolved(out, j.col)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			// Mean features fall back to the column mean; a cold-start
			// count is genuinely zero.
			if j.count {
				out, n, err = features.FillUnresolved(out, j.col, 0)
			} else {
				out, n, err = features.Impute(out, j.col)
			}
			if err != nil {
				return nil, err
			}
			metrics.ColdStartImputations.WithLabelValues(j.col).Add(float64(n))
			stats.Imputed = append(stats.Imputed, ImputationStat{Side: side, Column: j.col, Cells: n})
		}
	}

	if out, err = features.DeriveCalendar(out, "Timestamp", ColRatingYear, ColRatingMonth); err != nil {
		return nil, err
	}
	return out, nil
}

// holdoutFeatures builds the scoring-path feature table from the
// ::-delimited holdout sources.
func (p *Pipeline) holdoutFeatures(ctx context.Context, aggs *features.AggregateSet, stats *RunStats, runLog zerolog.Logger) (*table.Table, error) {
	defer metrics.ObserveStage("features_holdout", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	na := p.cfg.Data.NATokens
	ratings, err := dataset.LoadDat(p.cfg.Data.HoldoutRatingsPath, dataset.Ratings, na)
	if err != nil {
		return nil, err
	}
	movies, err := dataset.LoadDat(p.cfg.Data.HoldoutMoviesPath, dataset.Movies, na)
	if err != nil {
		return nil, err
	}

	metrics.RowsLoaded.WithLabelValues("holdout_ratings", "dat").Add(float64(ratings.NumRows()))
	metrics.RowsLoaded.WithLabelValues("holdout_movies", "dat").Add(float64(movies.NumRows()))

	ratings, report := table.Filter(ratings)
	stats.Sources["holdout_ratings"] = report
	runLog.Info().
		Str("entity", "holdout_ratings").
		Int("rows_in", report.RowsIn).
		Int("rows_out", report.RowsOut).
		Msg("source filtered")
	if ratings.NumRows() == 0 {
		return nil, fmt.Errorf("holdout ratings source is empty after filtering")
	}

	// Holdout titles carry the release year; the same ExtractYear routine
	// the training path uses parses it here.
	movies, err = features.DeriveReleaseYear(movies, "Title", "Year")
	if err != nil {
		return nil, fmt.Errorf("derive holdout release year: %w", err)
	}
	movies, report = table.Filter(movies)
	stats.Sources["holdout_movies"] = report

	out, err := p.ratingFeatures(ratings, aggs, stats, "score")
	if err != nil {
		return nil, fmt.Errorf("holdout features: %w", err)
	}

	// YearsSinceRelease rides along outside the contract: it is derived
	// only here, where the release year is known, and is projected away
	// at the model boundary.
	yearByMovie, err := features.BuildMeanIndex(movies, "MovieID", "Year")
	if err != nil {
		return nil, fmt.Errorf("holdout release-year lookup: %w", err)
	}
	if out, err = features.Join(out, yearByMovie, "MovieID", "ReleaseYear"); err != nil {
		return nil, err
	}
	if out, err = features.DeriveYearsSince(out, "ReleaseYear", ColYearsSinceRelease, time.Now().UTC().Year()); err != nil {
		return nil, err
	}
	return out, nil
}

// evaluate reduces both prediction vectors against their actuals.
func (p *Pipeline) evaluate(testMat *table.Table, testPred []float64, scoreMat *table.Table, scorePred []float64, stats *RunStats) error {
	defer metrics.ObserveStage("evaluate", time.Now())

	scoreActual, err := scoreMat.Column("Rating")
	if err != nil {
		return fmt.Errorf("evaluate holdout: %w", err)
	}

	// A zero test fraction is valid; there is just nothing to evaluate
	// on the internal partition.
	if testMat.NumRows() > 0 {
		testActual, err := testMat.Column("Rating")
		if err != nil {
			return fmt.Errorf("evaluate test: %w", err)
		}
		if stats.TestMSE, err = evaluate.MSE(testActual.Floats, testPred); err != nil {
			return fmt.Errorf("evaluate test: %w", err)
		}
		if stats.TestRMSE, err = evaluate.RMSE(testActual.Floats, testPred); err != nil {
			return fmt.Errorf("evaluate test: %w", err)
		}
	}
	if stats.HoldoutMSE, err = evaluate.MSE(scoreActual.Floats, scorePred); err != nil {
		return fmt.Errorf("evaluate holdout: %w", err)
	}
	if stats.HoldoutRMSE, err = evaluate.RMSE(scoreActual.Floats, scorePred); err != nil {
		return fmt.Errorf("evaluate holdout: %w", err)
	}
	metrics.EvaluationRMSE.Set(stats.HoldoutRMSE)
	return nil
}

// persist writes the model, the three feature matrices and the run report.
func (p *Pipeline) persist(trainMat, testMat, scoreMat *table.Table, stats *RunStats) error {
	defer metrics.ObserveStage("persist", time.Now())

	store, err := modelstore.NewStore(p.cfg.Output.ArtifactDir)
	if err != nil {
		return err
	}
	for _, artifact := range []struct {
		name string
		tbl  *table.Table
	}{
		{"train_features", trainMat},
		{"test_features", testMat},
		{"score_features", scoreMat},
	} {
		meta, err := store.Save(artifact.name, artifact.tbl, modelstore.Metadata{
			RunID: stats.RunID,
			Rows:  artifact.tbl.NumRows(),
		})
		if err != nil {
			return fmt.Errorf("persist %s: %w", artifact.name, err)
		}
		stats.Artifacts = append(stats.Artifacts, *meta)
	}
	meta, err := store.Save("model", p.reg, modelstore.Metadata{RunID: stats.RunID})
	if err != nil {
		return fmt.Errorf("persist model: %w", err)
	}
	stats.Artifacts = append(stats.Artifacts, *meta)

	stats.FinishedAt = time.Now().UTC()
	return stats.WriteReport(p.cfg.Output.ReportPath)
}
