package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"partsrecv/internal/feed"
	"partsrecv/internal/models"
)

var ErrUnsupportedFeed = errors.New("unsupported feed file type")

// FeedService imports PWB+ exports into the purchase-order store.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// ImportFile reads and imports a feed file from disk.
func (fs *FeedService) ImportFile(path string) (*models.PurchaseOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()
	return fs.ImportReader(filepath.Base(path), f)
}

// ImportReader imports a feed from any reader. The filename determines both
// the parser (xlsx vs csv/tsv) and the purchase-order identity; re-importing
// the same identity replaces its whole line set.
func (fs *FeedService) ImportReader(name string, r io.Reader) (*models.PurchaseOrder, error) {
	var (
		rows []map[string]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		rows, err = feed.ParseXLSX(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse spreadsheet %s: %w", name, err)
		}
	case ".csv", ".txt", ".tsv":
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, fmt.Errorf("failed to read feed %s: %w", name, err)
		}
		rows = feed.ParseCSV(buf.String())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFeed, name)
	}

	lines := feed.Normalize(rows)
	info := feed.ParseFilename(name)

	po := models.PurchaseOrder{
		PBSPO:     info.PBSPO,
		GMControl: info.GMControl,
		DateStr:   info.Date,
		Filename:  name,
	}
	err = fs.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PurchaseOrder
		lookup := tx.Where("pbs_po = ? AND gm_control = ?", info.PBSPO, info.GMControl).First(&existing)
		if lookup.Error == nil {
			if err := tx.Where("purchase_order_id = ?", existing.ID).Delete(&models.ShipmentLine{}).Error; err != nil {
				return err
			}
			existing.DateStr = info.Date
			existing.Filename = name
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			po = existing
		} else if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
			if err := tx.Create(&po).Error; err != nil {
				return err
			}
		} else {
			return lookup.Error
		}
		for _, l := range lines {
			record := models.FromFeedLine(po.ID, l)
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import feed %s: %w", name, err)
	}
	po.Lines = make([]models.ShipmentLine, 0, len(lines))
	if err := fs.db.Where("purchase_order_id = ?", po.ID).Order("id asc").Find(&po.Lines).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// ListPurchaseOrders returns all imported orders, newest first, without
// their line sets.
func (fs *FeedService) ListPurchaseOrders() ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	if err := fs.db.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return orders, nil
}

// GetPurchaseOrder loads one order with its lines.
func (fs *FeedService) GetPurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := fs.db.Preload("Lines").First(&po, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchase order %d: %w", id, err)
	}
	return &po, nil
}

// DeletePurchaseOrder removes an order and its lines.
func (fs *FeedService) DeletePurchaseOrder(id uint) error {
	err := fs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&models.ShipmentLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PurchaseOrder{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete purchase order %d: %w", id, err)
	}
	return nil
}

// Lines returns the normalized line set of one order, or of every order
// when id is zero.
func (fs *FeedService) Lines(id uint) ([]feed.ShipmentLine, error) {
	var records []models.ShipmentLine
	q := fs.db.Order("id asc")
	if id != 0 {
		q = q.Where("purchase_order_id = ?", id)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load shipment lines: %w", err)
	}
	lines := make([]feed.ShipmentLine, len(records))
	for i := range records {
		lines[i] = records[i].ToFeedLine()
	}
	return lines, nil
}
