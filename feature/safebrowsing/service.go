package safebrowsing

import (
	"context"
	"fmt"
	"time"

	"sb-verify/core/reconcile"
	"sb-verify/core/storage"
	"sb-verify/feature/safebrowsing/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run performs one full verification: it loads the legacy lists through db,
// decodes the new-format profile from newDir, compares every reference list
// and aggregates the results under a fresh run id.
func Run(ctx context.Context, db *gorm.DB, schema LegacySchema, newDir string, opts DecodeOptions, log *zap.Logger) (*reconcile.OverallReport, error) {
	newLists, newErrs, err := LoadProfileDir(newDir, opts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load new store: %w", err)
	}

	oldLists, err := LoadLegacyLists(ctx, db, schema, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy store: %w", err)
	}

	return buildReport(oldLists, newLists, newErrs, log), nil
}

// RunFromBucket is Run for a new-format profile archived in object storage.
func RunFromBucket(ctx context.Context, db *gorm.DB, schema LegacySchema, client storage.Client, bucket, prefix string, opts DecodeOptions, log *zap.Logger) (*reconcile.OverallReport, error) {
	newLists, newErrs, err := LoadProfileBucket(ctx, client, bucket, prefix, opts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load archived store: %w", err)
	}

	oldLists, err := LoadLegacyLists(ctx, db, schema, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy store: %w", err)
	}

	return buildReport(oldLists, newLists, newErrs, log), nil
}

func buildReport(oldLists, newLists map[string]*models.ListRecordSet, newErrs map[string]error, log *zap.Logger) *reconcile.OverallReport {
	lists := CompareAll(oldLists, newLists, newErrs)
	report := reconcile.Aggregate(uuid.NewString(), lists)

	for _, l := range report.Lists {
		log.Info("Compared list",
			zap.String("list", l.Name),
			zap.Bool("missing", l.Missing),
			zap.Int("add_mismatches", l.AddMismatches),
			zap.Int("sub_mismatches", l.SubMismatches),
			zap.Float64("match_percent", l.MatchPercent()),
		)
	}
	return report
}

// Service exposes cached verification reports to the HTTP serve mode.
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	schema   LegacySchema
	newDir   string
	opts     DecodeOptions
	cacheTTL time.Duration
}

// NewService creates a verification service for one legacy/new store pair.
func NewService(logger *zap.Logger, db *gorm.DB, newDir string, opts DecodeOptions, cacheTTL time.Duration) *Service {
	return &Service{
		logger:   logger,
		db:       db,
		schema:   DefaultLegacySchema(),
		newDir:   newDir,
		opts:     opts,
		cacheTTL: cacheTTL,
	}
}

// Report returns the current verification report, reusing a cached one
// within the configured TTL.
func (s *Service) Report(ctx context.Context) (*reconcile.OverallReport, error) {
	key := "safebrowsing|" + s.newDir
	return reconcile.GetOrBuildReport(ctx, key, s.cacheTTL, func(ctx context.Context) (*reconcile.OverallReport, error) {
		return Run(ctx, s.db, s.schema, s.newDir, s.opts, s.logger)
	})
}

// ListReport returns the report entry for a single list, or nil when the
// list is unknown to the reference store.
func (s *Service) ListReport(ctx context.Context, name string) (*reconcile.ListReport, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	for i := range report.Lists {
		if report.Lists[i].Name == name {
			return &report.Lists[i], nil
		}
	}
	return nil, nil
}
