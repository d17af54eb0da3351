// Package storage persists episode outcomes in a SQLite database
// through gorm
package storage

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/samuelfneumann/parkrl/timestep"
)

// Memory is the path that opens a private in-memory database
const Memory = ":memory:"

// Episode is the stored outcome of a single episode
type Episode struct {
	ID        uint    `gorm:"primaryKey"`
	Run       string  `gorm:"index"`
	Number    int     `gorm:"column:number"`
	Return    float64 `gorm:"column:episode_return"`
	Length    int
	Reason    string `gorm:"index"`
	CreatedAt time.Time
}

// ReasonCount is the number of episodes in a run that ended for some
// reason
type ReasonCount struct {
	Reason string
	Count  int64
}

// Store records episodes of experiment runs
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open opens the SQLite database at path, creating it if needed, and
// migrates the schema. Use Memory for a database that is discarded
// on Close.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open: database path not set")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("open: error setting PRAGMA: %w", err)
		}
	}

	// Each connection to an in-memory database sees its own database
	if path == Memory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open: failed to access sql interface: %w",
				err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &Store{db: db, logger: log}
	if err := s.Migrate(); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("opened episode store")
	return s, nil
}

// Migrate creates or updates the tables of the store
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Episode{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Record stores the outcome of the episode of run with the given
// number
func (s *Store) Record(run string, number int, ret float64, length int,
	reason timestep.EndType) error {
	ep := Episode{
		Run:    run,
		Number: number,
		Return: ret,
		Length: length,
		Reason: reason.String(),
	}
	if err := s.db.Create(&ep).Error; err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

// Episodes returns the stored episodes of run in the order they were
// played
func (s *Store) Episodes(run string) ([]Episode, error) {
	var eps []Episode
	err := s.db.Where("run = ?", run).Order("number asc").Find(&eps).Error
	if err != nil {
		return nil, fmt.Errorf("episodes: %w", err)
	}
	return eps, nil
}

// Returns returns the episodic returns of run in the order the
// episodes were played. If reasons are given, only episodes that ended
// for one of them are included.
func (s *Store) Returns(run string, reasons ...timestep.EndType) ([]float64,
	error) {
	var returns []float64
	err := s.episodes(run, reasons).Order("number asc").
		Pluck("episode_return", &returns).Error
	if err != nil {
		return nil, fmt.Errorf("returns: %w", err)
	}
	return returns, nil
}

// ReasonCounts returns how many episodes of run ended for each reason,
// most frequent first. If reasons are given, only those are counted.
func (s *Store) ReasonCounts(run string, reasons ...timestep.EndType) (
	[]ReasonCount, error) {
	var counts []ReasonCount
	err := s.episodes(run, reasons).
		Select("reason, count(*) as count").
		Group("reason").
		Order("count desc, reason asc").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("reasonCounts: %w", err)
	}
	return counts, nil
}

// episodes scopes a query to the episodes of run that ended for one
// of reasons, or for any reason if there are none
func (s *Store) episodes(run string, reasons []timestep.EndType) *gorm.DB {
	tx := s.db.Model(&Episode{}).Where("run = ?", run)
	if len(reasons) == 0 {
		return tx
	}

	names := make([]string, len(reasons))
	for i, r := range reasons {
		names[i] = r.String()
	}
	return tx.Where("reason IN ?", names)
}

// Runs returns the names of all runs in the store
func (s *Store) Runs() ([]string, error) {
	var runs []string
	err := s.db.Model(&Episode{}).Distinct().Order("run asc").
		Pluck("run", &runs).Error
	if err != nil {
		return nil, fmt.Errorf("runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close: failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}
