package infrastructure

import (
	"fmt"

	"github.com/yourusername/podgrab-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository creates a new SQLite repository
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.EpisodeDownload{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Create stores a new outcome
func (r *SQLiteHistoryRepository) Create(download *domain.EpisodeDownload) error {
	return r.db.Create(download).Error
}

// FindByRun returns the outcomes of a run in processing order
func (r *SQLiteHistoryRepository) FindByRun(runID string) ([]*domain.EpisodeDownload, error) {
	var downloads []*domain.EpisodeDownload
	err := r.db.Where("run_id = ?", runID).
		Order("created_at ASC, rowid ASC").
		Find(&downloads).Error
	return downloads, err
}

// FindRecent returns the most recent outcomes, newest first
func (r *SQLiteHistoryRepository) FindRecent(limit int) ([]*domain.EpisodeDownload, error) {
	var downloads []*domain.EpisodeDownload
	query := r.db.Order("created_at DESC, rowid DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&downloads).Error
	return downloads, err
}

// FindByStatus returns the most recent outcomes with status, newest first
func (r *SQLiteHistoryRepository) FindByStatus(status domain.DownloadStatus, limit int) ([]*domain.EpisodeDownload, error) {
	var downloads []*domain.EpisodeDownload
	query := r.db.Where("status = ?", status).Order("created_at DESC, rowid DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&downloads).Error
	return downloads, err
}

// GetStats returns download statistics
func (r *SQLiteHistoryRepository) GetStats() (*domain.DownloadStats, error) {
	stats := &domain.DownloadStats{}

	if err := r.db.Model(&domain.EpisodeDownload{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.DownloadStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.EpisodeDownload{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusSucceeded:
			stats.Succeeded = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		case domain.StatusSkipped:
			stats.Skipped = sc.Count
		}
	}

	if err := r.db.Model(&domain.EpisodeDownload{}).
		Distinct("run_id").
		Count(&stats.Runs).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&domain.EpisodeDownload{}).
		Select("COALESCE(SUM(bytes), 0)").
		Scan(&stats.Bytes).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
