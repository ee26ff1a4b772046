package settlement

import (
	"errors"
	"strings"
	"time"

	"fulfillment-ops/models/order"
	settlementModel "fulfillment-ops/models/settlement"
	"fulfillment-ops/services/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidUPI           = errors.New("invalid UPI id")
	ErrNothingToSettle      = errors.New("no amount available for settlement")
	ErrNotFound             = errors.New("settlement not found")
	ErrNotPending           = errors.New("settlement is not in pending status")
	ErrAmountExceedsRequest = errors.New("amount paid exceeds requested amount")
)

// Service owns the settlement arithmetic and state transitions. Every
// read-check-write sequence runs inside one database transaction so two
// concurrent requests for the same vendor cannot both pass the remaining-
// amount check.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Summary is the vendor-facing payment snapshot.
type Summary struct {
	CurrentPayment  float64 `json:"currentPayment"`
	TotalSettled    float64 `json:"totalSettled"`
	RemainingAmount float64 `json:"remainingAmount"`
	HandoverOrders  int     `json:"handoverOrders"`
}

// currentPayment computes the accrued balance inside tx:
// sum of handover-order values minus already-paid approved settlements,
// floored at 0.
func currentPayment(tx *gorm.DB, vendorID uint) (float64, error) {
	var handoverTotal float64
	err := tx.Model(&order.Order{}).
		Where("vendor_id = ? AND status = ?", vendorID, order.StatusHandover.String()).
		Select("COALESCE(SUM(value), 0)").Scan(&handoverTotal).Error
	if err != nil {
		return 0, err
	}

	var paidTotal float64
	err = tx.Model(&settlementModel.Settlement{}).
		Where("vendor_id = ? AND status = ?", vendorID, settlementModel.StatusApproved).
		Select("COALESCE(SUM(amount_paid), 0)").Scan(&paidTotal).Error
	if err != nil {
		return 0, err
	}

	remaining := handoverTotal - paidTotal
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// CurrentPayment returns the vendor's accrued settleable balance.
func (s *Service) CurrentPayment(vendorID uint) (float64, error) {
	return currentPayment(s.DB, vendorID)
}

// PaymentSummary returns the vendor's balance breakdown.
func (s *Service) PaymentSummary(vendorID uint) (*Summary, error) {
	summary := &Summary{}

	remaining, err := currentPayment(s.DB, vendorID)
	if err != nil {
		return nil, err
	}

	var paidTotal float64
	err = s.DB.Model(&settlementModel.Settlement{}).
		Where("vendor_id = ? AND status = ?", vendorID, settlementModel.StatusApproved).
		Select("COALESCE(SUM(amount_paid), 0)").Scan(&paidTotal).Error
	if err != nil {
		return nil, err
	}

	var handoverCount int64
	err = s.DB.Model(&order.Order{}).
		Where("vendor_id = ? AND status = ?", vendorID, order.StatusHandover.String()).
		Count(&handoverCount).Error
	if err != nil {
		return nil, err
	}

	summary.CurrentPayment = remaining + paidTotal
	summary.TotalSettled = paidTotal
	summary.RemainingAmount = remaining
	summary.HandoverOrders = int(handoverCount)
	return summary, nil
}

// CreateRequest opens a settlement for the vendor's full remaining amount,
// snapshotted at request time together with the backing handover order ids.
func (s *Service) CreateRequest(vendorID uint, upiID string) (*settlementModel.Settlement, error) {
	if !validation.IsValidUPI(upiID) {
		return nil, ErrInvalidUPI
	}

	var created settlementModel.Settlement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		remaining, err := currentPayment(tx, vendorID)
		if err != nil {
			return err
		}
		if remaining <= 0 {
			return ErrNothingToSettle
		}

		var handoverOrders []order.Order
		err = tx.Where("vendor_id = ? AND status = ?", vendorID, order.StatusHandover.String()).
			Order("unique_id").Find(&handoverOrders).Error
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(handoverOrders))
		for _, o := range handoverOrders {
			ids = append(ids, o.UniqueID)
		}

		created = settlementModel.Settlement{
			VendorID:       vendorID,
			Amount:         remaining,
			Status:         settlementModel.StatusPending,
			UpiID:          upiID,
			OrderIDs:       strings.Join(ids, ","),
			NumberOfOrders: len(ids),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Approve settles a pending request. The settlement update and the ledger
// transaction row are written in a single database transaction so a crash
// cannot leave an approved settlement without its ledger entry.
func (s *Service) Approve(id uint, amountPaid float64, transactionID string, proofPath *string, adminID uint) (*settlementModel.Settlement, error) {
	var updated settlementModel.Settlement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var stl settlementModel.Settlement
		if err := tx.First(&stl, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !stl.IsPending() {
			return ErrNotPending
		}
		if amountPaid > stl.Amount {
			return ErrAmountExceedsRequest
		}

		paymentStatus := settlementModel.PaymentSettledPartially
		if amountPaid == stl.Amount {
			paymentStatus = settlementModel.PaymentSettledFully
		}

		now := time.Now()
		stl.Status = settlementModel.StatusApproved
		stl.PaymentStatus = &paymentStatus
		stl.AmountPaid = amountPaid
		stl.TransactionID = &transactionID
		stl.PaymentProof = proofPath
		stl.ReviewedBy = &adminID
		stl.ReviewedAt = &now

		if err := tx.Save(&stl).Error; err != nil {
			return err
		}

		ledger := settlementModel.Transaction{
			Reference:     uuid.NewString(),
			SettlementID:  stl.ID,
			VendorID:      stl.VendorID,
			Amount:        amountPaid,
			TransactionID: transactionID,
		}
		if err := tx.Create(&ledger).Error; err != nil {
			return err
		}

		updated = stl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reject closes a pending request with a reason and the acting admin.
func (s *Service) Reject(id uint, reason string, adminID uint) (*settlementModel.Settlement, error) {
	var updated settlementModel.Settlement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var stl settlementModel.Settlement
		if err := tx.First(&stl, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !stl.IsPending() {
			return ErrNotPending
		}

		now := time.Now()
		stl.Status = settlementModel.StatusRejected
		stl.Reason = &reason
		stl.ReviewedBy = &adminID
		stl.ReviewedAt = &now

		if err := tx.Save(&stl).Error; err != nil {
			return err
		}
		updated = stl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
