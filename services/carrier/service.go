package carrier

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	carrierModel "fulfillment-ops/models/carrier"
	"fulfillment-ops/models/order"

	"gorm.io/gorm"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var (
	ErrNotFound         = errors.New("carrier not found")
	ErrInvalidDirection = errors.New("direction must be 'up' or 'down'")
)

// UploadError marks a rejected bulk upload: malformed CSV or a failed
// validation rule. Storage faults come back unwrapped so callers can tell
// a bad upload from a broken database.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return e.Reason
}

func uploadErrf(format string, args ...interface{}) error {
	return &UploadError{Reason: fmt.Sprintf(format, args...)}
}

// csvColumns is the bulk upload contract, in order.
var csvColumns = []string{"carrier_id", "carrier_name", "status", "priority", "weight_in_kg", "account_code"}

// Service owns the per-store carrier priority ledger.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// List returns a store's carriers in priority order.
func (s *Service) List(accountCode string) ([]carrierModel.Carrier, error) {
	var carriers []carrierModel.Carrier
	err := s.DB.Where("account_code = ?", accountCode).
		Order("priority ASC").Find(&carriers).Error
	return carriers, err
}

// Move swaps the carrier's priority with its neighbour in the given
// direction within the same store. At the list boundary the move is a
// no-op and the unchanged list is returned.
func (s *Service) Move(carrierID, accountCode, direction string) ([]carrierModel.Carrier, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return nil, ErrInvalidDirection
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var current carrierModel.Carrier
		err := tx.Where("carrier_id = ? AND account_code = ?", carrierID, accountCode).
			First(&current).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// up = toward priority 1 (preferred), down = away from it.
		var neighbour carrierModel.Carrier
		q := tx.Where("account_code = ?", accountCode)
		if direction == DirectionUp {
			q = q.Where("priority < ?", current.Priority).Order("priority DESC")
		} else {
			q = q.Where("priority > ?", current.Priority).Order("priority ASC")
		}
		if err := q.First(&neighbour).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // boundary, nothing to swap
			}
			return err
		}

		currentPriority, neighbourPriority := current.Priority, neighbour.Priority
		if err := tx.Model(&carrierModel.Carrier{}).Where("id = ?", current.ID).
			Update("priority", neighbourPriority).Error; err != nil {
			return err
		}
		return tx.Model(&carrierModel.Carrier{}).Where("id = ?", neighbour.ID).
			Update("priority", currentPriority).Error
	})
	if err != nil {
		return nil, err
	}

	return s.List(accountCode)
}

// csvRow is one parsed upload line.
type csvRow struct {
	CarrierID   string
	CarrierName string
	Status      string
	Priority    int
	WeightInKg  float64
	AccountCode string
}

// ReplaceFromCSV validates and applies a bulk priority upload. The upload
// is a full replace per referenced store: every account_code must be a
// known store, priorities must be unique per store, and every carrier_id
// currently registered for a referenced store must appear in the upload.
// Returns the number of carrier rows written.
func (s *Service) ReplaceFromCSV(r io.Reader) (int, error) {
	rows, err := parseCSV(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, uploadErrf("CSV contains no data rows")
	}

	byStore := make(map[string][]csvRow)
	for _, row := range rows {
		byStore[row.AccountCode] = append(byStore[row.AccountCode], row)
	}

	var written int
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for store, storeRows := range byStore {
			known, err := isKnownStore(tx, store)
			if err != nil {
				return err
			}
			if !known {
				return uploadErrf("unknown store: %s", store)
			}

			// Priority uniqueness within the store.
			seen := make(map[int]string, len(storeRows))
			ids := make(map[string]bool, len(storeRows))
			for _, row := range storeRows {
				if other, dup := seen[row.Priority]; dup {
					return uploadErrf("duplicate priority %d in store %s (%s and %s)",
						row.Priority, store, other, row.CarrierID)
				}
				seen[row.Priority] = row.CarrierID
				ids[row.CarrierID] = true
			}

			// The upload must cover every carrier currently registered for
			// the store; a partial replace would silently drop carriers.
			var existing []carrierModel.Carrier
			if err := tx.Where("account_code = ?", store).Find(&existing).Error; err != nil {
				return err
			}
			var missing []string
			for _, e := range existing {
				if !ids[e.CarrierID] {
					missing = append(missing, e.CarrierID)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				return uploadErrf("upload for store %s is missing registered carriers: %s",
					store, strings.Join(missing, ", "))
			}

			if err := tx.Where("account_code = ?", store).
				Delete(&carrierModel.Carrier{}).Error; err != nil {
				return err
			}
			for _, row := range storeRows {
				c := carrierModel.Carrier{
					CarrierID:   row.CarrierID,
					AccountCode: row.AccountCode,
					CarrierName: row.CarrierName,
					Status:      row.Status,
					Priority:    row.Priority,
					WeightInKg:  row.WeightInKg,
				}
				if err := tx.Create(&c).Error; err != nil {
					return err
				}
				written++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// isKnownStore checks the account code against existing carrier and order
// rows; a store the platform has never seen is rejected.
func isKnownStore(tx *gorm.DB, accountCode string) (bool, error) {
	var count int64
	if err := tx.Model(&carrierModel.Carrier{}).
		Where("account_code = ?", accountCode).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := tx.Model(&order.Order{}).
		Where("account_code = ?", accountCode).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func parseCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, uploadErrf("failed to read CSV header: %v", err)
	}

	// Map required columns to their positions; header match is
	// case-insensitive.
	idx := make(map[string]int, len(csvColumns))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var missing []string
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, uploadErrf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []csvRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, uploadErrf("failed to read CSV line %d: %v", line+1, err)
		}
		line++

		get := func(col string) string {
			return strings.TrimSpace(record[idx[col]])
		}

		priority, err := strconv.Atoi(get("priority"))
		if err != nil {
			return nil, uploadErrf("line %d: invalid priority %q", line, get("priority"))
		}
		weight, err := strconv.ParseFloat(get("weight_in_kg"), 64)
		if err != nil {
			return nil, uploadErrf("line %d: invalid weight_in_kg %q", line, get("weight_in_kg"))
		}
		status := strings.ToLower(get("status"))
		if !carrierModel.IsValidStatus(status) {
			return nil, uploadErrf("line %d: invalid status %q", line, get("status"))
		}
		if get("carrier_id") == "" || get("account_code") == "" {
			return nil, uploadErrf("line %d: carrier_id and account_code are required", line)
		}

		rows = append(rows, csvRow{
			CarrierID:   get("carrier_id"),
			CarrierName: get("carrier_name"),
			Status:      status,
			Priority:    priority,
			WeightInKg:  weight,
			AccountCode: get("account_code"),
		})
	}
	return rows, nil
}
