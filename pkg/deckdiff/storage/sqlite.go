//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/himanishpuri/DeckDiff/pkg/models"
	"github.com/himanishpuri/DeckDiff/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "deckdiff.sqlite3"
const errDBClientNil = "db client is nil"

// ErrNotFound is returned when no cached render matches the lookup.
var ErrNotFound = errors.New("render not cached")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// DeckRender is the cache row for one rendered deck file.
type DeckRender struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	SourceHash string `gorm:"uniqueIndex:idx_render_unique,priority:1;type:varchar(64)" json:"source_hash"`
	Algorithm  string `gorm:"uniqueIndex:idx_render_unique,priority:2;type:varchar(16)" json:"algorithm"`
	DPI        int    `gorm:"uniqueIndex:idx_render_unique,priority:3" json:"dpi"`
	SourceName string `json:"source_name"`
	Dir        string `json:"dir"`
	PageCount  int    `json:"page_count"`
	CreatedAt  time.Time
}

// NewDBClientWithPath opens (and migrates) the cache database at dbPath,
// creating its parent directory. An empty path means DefaultDBFile.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=busy_timeout(5000)"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	// Both decks of a comparison may write their render concurrently.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&DeckRender{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// FindRender looks up a cached render by deck hash, algorithm and DPI.
func (c *DBClient) FindRender(sourceHash, algorithm string, dpi int) (*models.DeckRender, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var row DeckRender
	err := c.DB.Where("source_hash = ? AND algorithm = ? AND dpi = ?", sourceHash, algorithm, dpi).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying render: %w", err)
	}
	return row.toModel(), nil
}

// SaveRender stores r, replacing an existing entry for the same hash, algorithm
// and DPI. The ID of an existing entry is kept; otherwise an empty ID is filled
// with a new UUID.
func (c *DBClient) SaveRender(r *models.DeckRender) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	existing, err := c.FindRender(r.SourceHash, r.Algorithm, r.DPI)
	switch {
	case err == nil:
		r.ID = existing.ID
		row := fromModel(r)
		if err := c.DB.Save(&row).Error; err != nil {
			return fmt.Errorf("updating render: %w", err)
		}
		return nil
	case !errors.Is(err, ErrNotFound):
		return err
	}

	if r.ID == "" {
		r.ID = utils.GenerateUUID()
	}
	row := fromModel(r)
	if err := c.DB.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			// Lost a race with a concurrent render of the same file; keep the winner.
			if winner, fetchErr := c.FindRender(r.SourceHash, r.Algorithm, r.DPI); fetchErr == nil {
				*r = *winner
				return nil
			}
		}
		return fmt.Errorf("creating render: %w", err)
	}
	return nil
}

// ListRenders returns all cached renders, newest first.
func (c *DBClient) ListRenders() ([]models.DeckRender, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var rows []DeckRender
	if err := c.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing renders: %w", err)
	}

	out := make([]models.DeckRender, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}

// DeleteRender removes the cache row with the given ID. Files are left to the caller.
func (c *DBClient) DeleteRender(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	res := c.DB.Where("id = ?", id).Delete(&DeckRender{})
	if res.Error != nil {
		return fmt.Errorf("deleting render: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DeckRender) toModel() *models.DeckRender {
	return &models.DeckRender{
		ID:         r.ID,
		SourceHash: r.SourceHash,
		SourceName: r.SourceName,
		Algorithm:  r.Algorithm,
		DPI:        r.DPI,
		Dir:        r.Dir,
		PageCount:  r.PageCount,
		CreatedAt:  r.CreatedAt,
	}
}

func fromModel(m *models.DeckRender) DeckRender {
	return DeckRender{
		ID:         m.ID,
		SourceHash: m.SourceHash,
		SourceName: m.SourceName,
		Algorithm:  m.Algorithm,
		DPI:        m.DPI,
		Dir:        m.Dir,
		PageCount:  m.PageCount,
		CreatedAt:  m.CreatedAt,
	}
}
