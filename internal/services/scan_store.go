package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"partsrecv/internal/ledger"
	"partsrecv/internal/models"
)

// ScanStore persists the shared scan ledger. Writes replace the whole set
// and bump the version counter in one transaction, so pollers can detect a
// change with a single integer comparison.
type ScanStore struct {
	db *gorm.DB
}

func NewScanStore(db *gorm.DB) *ScanStore {
	return &ScanStore{db: db}
}

// FetchScans loads the stored entries in their original append order along
// with the current version.
func (s *ScanStore) FetchScans() ([]*ledger.Entry, uint64, error) {
	var records []models.ScanRecord
	if err := s.db.Order("position asc").Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load scans: %w", err)
	}
	entries := make([]*ledger.Entry, len(records))
	for i := range records {
		entries[i] = records[i].ToEntry()
	}
	version, err := s.Version()
	if err != nil {
		return nil, 0, err
	}
	return entries, version, nil
}

// ReplaceScans swaps the stored set for the given entries and returns the
// new version.
func (s *ScanStore) ReplaceScans(entries []*ledger.Entry) (uint64, error) {
	var version uint64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ScanRecord{}).Error; err != nil {
			return err
		}
		for i, e := range entries {
			record := models.FromEntry(e, i)
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		v, err := bumpVersion(tx)
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace scans: %w", err)
	}
	return version, nil
}

// ClearScans removes every stored entry and returns the new version.
func (s *ScanStore) ClearScans() (uint64, error) {
	return s.ReplaceScans(nil)
}

// Version returns the current version counter.
func (s *ScanStore) Version() (uint64, error) {
	var state models.SyncState
	if err := s.db.First(&state, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load sync state: %w", err)
	}
	return state.Version, nil
}

// Count returns the number of stored entries.
func (s *ScanStore) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.ScanRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}
	return n, nil
}

func bumpVersion(tx *gorm.DB) (uint64, error) {
	var state models.SyncState
	if err := tx.FirstOrCreate(&state, models.SyncState{ID: 1}).Error; err != nil {
		return 0, err
	}
	state.Version++
	if err := tx.Save(&state).Error; err != nil {
		return 0, err
	}
	return state.Version, nil
}
