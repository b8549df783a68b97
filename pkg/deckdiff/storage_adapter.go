package deckdiff

import (
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/storage"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// storageAdapter adapts the storage.DBClient to implement the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage opens the render cache database at dbPath.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) FindRender(sourceHash, algorithm string, dpi int) (*models.DeckRender, error) {
	return s.db.FindRender(sourceHash, algorithm, dpi)
}

func (s *storageAdapter) SaveRender(r *models.DeckRender) error {
	return s.db.SaveRender(r)
}

func (s *storageAdapter) ListRenders() ([]models.DeckRender, error) {
	return s.db.ListRenders()
}

func (s *storageAdapter) DeleteRender(id string) error {
	return s.db.DeleteRender(id)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
