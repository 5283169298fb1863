package storage

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/slopjam/perftest/internal/logger"
	"github.com/slopjam/perftest/pkg/model"
)

// Report is one persisted measurement session.
type Report struct {
	ID             string `gorm:"primaryKey;size:36"`
	URL            string
	CacheMode      string
	TotalRuns      int
	SuccessfulRuns int
	OverallRating  string
	Document       string // full JSON results document
	CreatedAt      time.Time
}

// Run is one persisted measurement run belonging to a Report.
type Run struct {
	ID       string `gorm:"primaryKey;size:36"`
	ReportID string `gorm:"index;size:36"`
	RunIndex int
	Status   string
	Reason   string
	FCPMs    *float64
	LCPMs    *float64
	TTFBMs   *float64
	CLSScore *float64
}

// Store persists reports and runs into sqlite.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the sqlite database at dsn.
func Open(dsn, prefix string, l logger.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(l),
		NamingStrategy: schema.NamingStrategy{TablePrefix: prefix},
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Report{}, &Run{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// SaveReport writes the aggregate and its runs in one transaction and
// returns the report ID.
func (s *Store) SaveReport(ctx context.Context, target model.Target, agg model.AggregateReport, results []model.RunResult, document string) (string, error) {
	rep := Report{
		ID:             uuid.NewString(),
		URL:            target.URL,
		CacheMode:      string(agg.CacheMode),
		TotalRuns:      agg.TotalRuns,
		SuccessfulRuns: agg.SuccessfulRuns,
		OverallRating:  string(agg.OverallRating),
		Document:       document,
	}
	runs := make([]Run, 0, len(results))
	for _, r := range results {
		run := Run{
			ID:       uuid.NewString(),
			ReportID: rep.ID,
			RunIndex: r.RunIndex,
			Status:   string(r.Status),
			Reason:   r.Reason,
		}
		if r.Snapshot != nil {
			run.FCPMs = r.Snapshot.FCPMs
			ttfb := r.Snapshot.TTFBMs
			run.TTFBMs = &ttfb
			cls := r.Snapshot.CLSScore
			run.CLSScore = &cls
		}
		if r.LCP != nil {
			run.LCPMs = r.LCP.FinalValueMs
		}
		runs = append(runs, run)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rep).Error; err != nil {
			return err
		}
		if len(runs) == 0 {
			return nil
		}
		return tx.Create(&runs).Error
	})
	if err != nil {
		return "", err
	}
	return rep.ID, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
