package services

import (
	"context"
	"errors"
	"log"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger errors
var (
	ErrResourceNotFound     = errors.New("resource not found")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrNegativeInitialStock = errors.New("initial stock cannot be negative")
)

// stockScale is the fixed precision for stock arithmetic: quantities
// are stored as decimal(15,3) and divisions round half-up to 3 places.
const stockScale = 3

// ResourceService owns the stock ledger: every mutation of a resource's
// stock goes through here, inside one transaction, and recomputes the
// derived status before committing.
type ResourceService struct {
	db *gorm.DB
}

// NewResourceService creates a new resource service
func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{db: db}
}

// ResourceInput represents resource create/edit input
type ResourceInput struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	LotNumber    string          `json:"lot_number"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	Unit         string          `json:"unit"`
}

// UsageInput represents a consumption request
type UsageInput struct {
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	Purpose      string          `json:"purpose"`
}

// RestockInput represents a replenishment request
type RestockInput struct {
	Quantity  decimal.Decimal `json:"quantity"`
	LotNumber string          `json:"lot_number"`
}

// lockForUpdate adds a row lock on databases that support it. SQLite has
// no FOR UPDATE clause; there the single writer plus the capped
// connection pool serialize stock mutations instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Create creates a resource with current stock equal to initial stock.
func (s *ResourceService) Create(ctx context.Context, input *ResourceInput, actorID uint) (*models.Resource, error) {
	if input.InitialStock.Sign() < 0 {
		return nil, ErrNegativeInitialStock
	}

	resource := &models.Resource{
		Name:         input.Name,
		Category:     input.Category,
		LotNumber:    input.LotNumber,
		InitialStock: input.InitialStock,
		CurrentStock: input.InitialStock,
		Unit:         input.Unit,
		CreatedBy:    actorID,
		UpdatedBy:    actorID,
	}
	resource.ComputeStatus()

	if err := s.db.WithContext(ctx).Create(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

// GetByID gets a resource by ID
func (s *ResourceService) GetByID(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	err := s.db.WithContext(ctx).First(&resource, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

// List lists resources with optional category/status filters, ordered by name.
func (s *ResourceService) List(ctx context.Context, category, status string) ([]*models.Resource, error) {
	query := s.db.WithContext(ctx).Model(&models.Resource{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var resources []*models.Resource
	err := query.Order("name ASC").Find(&resources).Error
	return resources, err
}

// Edit updates a resource's descriptive fields and nominal lot size.
// When the initial stock changes, the current stock is rescaled by the
// old fill ratio so the edit neither claims nor consumes stock. With a
// degenerate old initial (<= 0) the ratio is taken as 1, matching the
// historical behavior: the lot comes back full.
func (s *ResourceService) Edit(ctx context.Context, id uint, input *ResourceInput, actorID uint) (*models.Resource, error) {
	if input.InitialStock.Sign() < 0 {
		return nil, ErrNegativeInitialStock
	}

	var resource models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&resource, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResourceNotFound
			}
			return err
		}

		newCurrent := resource.CurrentStock
		if !input.InitialStock.Equal(resource.InitialStock) {
			if resource.InitialStock.Sign() > 0 {
				newCurrent = input.InitialStock.
					Mul(resource.CurrentStock).
					DivRound(resource.InitialStock, stockScale)
			} else {
				newCurrent = input.InitialStock
			}
		}

		resource.Name = input.Name
		resource.Category = input.Category
		resource.LotNumber = input.LotNumber
		resource.InitialStock = input.InitialStock
		resource.CurrentStock = newCurrent
		resource.Unit = input.Unit
		resource.UpdatedBy = actorID
		resource.ComputeStatus()

		return tx.Save(&resource).Error
	})
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// RecordUsage consumes stock and appends an immutable ledger entry.
// The locked read, sufficiency check, ledger insert and balance update
// form one transaction, so two concurrent calls can never both spend
// the same stock.
func (s *ResourceService) RecordUsage(ctx context.Context, resourceID uint, input *UsageInput, actorID uint) (*models.ResourceUsage, error) {
	if input.QuantityUsed.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}

	var usage *models.ResourceUsage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource models.Resource
		if err := lockForUpdate(tx).First(&resource, resourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResourceNotFound
			}
			return err
		}

		stockBefore := resource.CurrentStock
		if input.QuantityUsed.GreaterThan(stockBefore) {
			return &domain.InsufficientStockError{
				Available: stockBefore,
				Requested: input.QuantityUsed,
				Unit:      resource.Unit,
			}
		}

		stockAfter := stockBefore.Sub(input.QuantityUsed)

		usage = &models.ResourceUsage{
			ResourceID:   resource.ID,
			QuantityUsed: input.QuantityUsed,
			Purpose:      input.Purpose,
			StockBefore:  stockBefore,
			StockAfter:   stockAfter,
			UsedBy:       actorID,
		}
		if err := tx.Create(usage).Error; err != nil {
			return err
		}

		resource.CurrentStock = stockAfter
		resource.UpdatedBy = actorID
		resource.ComputeStatus()

		return tx.Save(&resource).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📉 Resource %d usage recorded: -%s (%s left)", resourceID, input.QuantityUsed, usage.StockAfter)
	return usage, nil
}

// Restock raises current and initial stock by the same amount, which
// moves the fill ratio (and the derived status) back toward available.
// The lot number is replaced only when a new one is supplied.
func (s *ResourceService) Restock(ctx context.Context, resourceID uint, input *RestockInput, actorID uint) (*models.Resource, error) {
	if input.Quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}

	var resource models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&resource, resourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResourceNotFound
			}
			return err
		}

		resource.CurrentStock = resource.CurrentStock.Add(input.Quantity)
		resource.InitialStock = resource.InitialStock.Add(input.Quantity)
		if input.LotNumber != "" {
			resource.LotNumber = input.LotNumber
		}
		resource.UpdatedBy = actorID
		resource.ComputeStatus()

		return tx.Save(&resource).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📈 Resource %d restocked: +%s (%s now)", resourceID, input.Quantity, resource.CurrentStock)
	return &resource, nil
}

// UsageHistory returns a resource's ledger entries, most recent first,
// each decorated with the acting user's name. The join is left-outer:
// a vanished user never suppresses the event.
func (s *ResourceService) UsageHistory(ctx context.Context, resourceID uint) ([]*models.ResourceUsageEntry, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Resource{}).Where("id = ?", resourceID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrResourceNotFound
	}

	var entries []*models.ResourceUsageEntry
	err := s.db.WithContext(ctx).Table("resource_usage").
		Select("resource_usage.id, resource_usage.resource_id, resource_usage.quantity_used, resource_usage.purpose, resource_usage.stock_before, resource_usage.stock_after, resource_usage.used_by, resource_usage.used_at, COALESCE(users.full_name, '') AS user_name").
		Joins("LEFT JOIN users ON resource_usage.used_by = users.id").
		Where("resource_usage.resource_id = ?", resourceID).
		Order("resource_usage.used_at DESC, resource_usage.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.ResourceUsageEntry{}
	}
	return entries, nil
}

// Delete removes a resource together with its usage history in one
// transaction, so no ledger rows are left pointing at a dead resource.
func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", id).Delete(&models.ResourceUsage{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Resource{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrResourceNotFound
		}
		return nil
	})
}
