package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"merc/internal/config"
	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

const maxRetries = 3

// SQLiteRepository implements ports.StateRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.StateRepository = (*SQLiteRepository)(nil)

// gormLogger wraps the merc logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error", "error", err, "duration", elapsed, "sql", sql, "rows", rows)
		return
	}
	logging.Logger.Debug("gorm query", "duration", elapsed, "sql", sql, "rows", rows)
}

func newGormLogger() logger.Interface {
	if os.Getenv("MERC_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository opens (creating if needed) the state database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbPath = config.ExpandPath(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Several merc processes may share one state file
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	if err := db.AutoMigrate(&RepoModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate repos schema: %w", err)
	}

	if !db.Migrator().HasTable(&ShadowRootModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS shadow_roots (
				source_repo_root TEXT NOT NULL,
				shadow_hash TEXT NOT NULL,
				source_hash TEXT NOT NULL,
				created_at DATETIME,
				PRIMARY KEY (source_repo_root, shadow_hash),
				FOREIGN KEY (source_repo_root) REFERENCES repos(source_repo_root) ON UPDATE CASCADE ON DELETE CASCADE
			)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create shadow_roots table: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	logging.Logger.Debug("State database opened", "path", dbPath)
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get implements StateRepository.Get
func (r *SQLiteRepository) Get(ctx context.Context, sourceRepoRoot string) (*domain.RepoState, error) {
	var repo RepoModel
	var roots []ShadowRootModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("source_repo_root = ?", sourceRepoRoot).First(&repo).Error; err != nil {
				return err
			}
			return tx.Where("source_repo_root = ?", sourceRepoRoot).Find(&roots).Error
		})
	}, maxRetries)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRepoNotInitialized, sourceRepoRoot)
		}
		return nil, err
	}

	return repoModelToDomain(repo, roots), nil
}

// Save implements StateRepository.Save. The stored shadow root mapping is replaced.
func (r *SQLiteRepository) Save(ctx context.Context, state *domain.RepoState) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			model := domainToRepoModel(state)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "source_repo_root"}},
				DoUpdates: clause.AssignmentColumns([]string{"initialized", "shadow_is_dirty", "shadow_repo_root", "sync_clock", "updated_at"}),
			}).Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save repo state: %w", err)
			}

			if err := tx.Where("source_repo_root = ?", state.SourceRepoRoot).Delete(&ShadowRootModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear shadow roots: %w", err)
			}

			roots := domainToShadowRootModels(state)
			if len(roots) > 0 {
				if err := tx.Create(&roots).Error; err != nil {
					return fmt.Errorf("failed to save shadow roots: %w", err)
				}
			}

			state.UpdatedAt = model.UpdatedAt
			return nil
		})
	}, maxRetries)
}

// Delete implements StateRepository.Delete
func (r *SQLiteRepository) Delete(ctx context.Context, sourceRepoRoot string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("source_repo_root = ?", sourceRepoRoot).Delete(&ShadowRootModel{}).Error; err != nil {
				return err
			}
			result := tx.Where("source_repo_root = ?", sourceRepoRoot).Delete(&RepoModel{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", domain.ErrRepoNotInitialized, sourceRepoRoot)
			}
			return nil
		})
	}, maxRetries)
}

// withRetry retries fn when SQLite reports the database busy or locked
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
