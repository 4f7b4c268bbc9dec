package models

import (
	"time"

	"labops-backend/internal/pkg/dateonly"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Stock quantities serialize as JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// User roles
const (
	RoleResearcher = "researcher"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
)

// ============================================================
// Identity
// ============================================================

// User represents users table. Emails are stored lowercase.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Role         string    `gorm:"size:50;not null;default:'researcher'" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleResearcher || role == RoleAdmin || role == RoleManager
}

// ============================================================
// Task / Experiment records
// ============================================================

// Task statuses
const (
	TaskStatusTodo     = "todo"
	TaskStatusProgress = "progress"
	TaskStatusReview   = "review"
	TaskStatusDone     = "done"
)

// Task priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Experiment statuses
const (
	ExperimentStatusPlanned  = "planned"
	ExperimentStatusProgress = "progress"
	ExperimentStatusDone     = "done"
)

// Task represents tasks table
type Task struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:500;not null" json:"title"`
	Assignee    string        `gorm:"size:255;not null" json:"assignee"`
	Status      string        `gorm:"size:50;not null" json:"status"`
	Priority    string        `gorm:"size:50;not null" json:"priority"`
	StartDate   dateonly.Date `json:"start_date"`
	EndDate     dateonly.Date `json:"end_date"`
	Description string        `gorm:"type:text" json:"description"`
	CreatedBy   uint          `gorm:"index" json:"created_by"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// Experiment represents experiments table
type Experiment struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Title        string        `gorm:"size:500;not null" json:"title"`
	ProtocolType string        `gorm:"size:255;not null" json:"protocol_type"`
	Assignee     string        `gorm:"size:255;not null" json:"assignee"`
	Status       string        `gorm:"size:50;not null" json:"status"`
	StartDate    dateonly.Date `json:"start_date"`
	EndDate      dateonly.Date `json:"end_date"`
	Description  string        `gorm:"type:text" json:"description"`
	Results      string        `gorm:"type:text" json:"results"`
	CreatedBy    uint          `gorm:"index" json:"created_by"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Experiment) TableName() string {
	return "experiments"
}

// ============================================================
// Resource ledger
// ============================================================

// Resource statuses, derived from the stock ratio. No code path writes
// Status except through ComputeStatus.
const (
	StatusAvailable = "available"
	StatusLow       = "low"
	StatusCritical  = "critical"
	StatusEmpty     = "empty"
)

// Resource represents resources table: one tracked consumable lot.
type Resource struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Category     string          `gorm:"size:100;not null" json:"category"`
	LotNumber    string          `gorm:"size:100;default:''" json:"lot_number"`
	InitialStock decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"initial_stock"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"current_stock"`
	Unit         string          `gorm:"size:50;not null" json:"unit"`
	Status       string          `gorm:"size:50;not null;default:'available'" json:"status"`
	CreatedBy    uint            `gorm:"index" json:"created_by"`
	UpdatedBy    uint            `json:"updated_by"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
	Updater *User `gorm:"foreignKey:UpdatedBy" json:"-"`
}

func (Resource) TableName() string {
	return "resources"
}

var (
	decTen  = decimal.NewFromInt(10)
	decFour = decimal.NewFromInt(4)
)

// StatusFor derives the resource status from the stock ratio
// current/initial (treated as 0 when initial <= 0):
//
//	empty      current <= 0
//	critical   0 < ratio <= 0.10
//	low        0.10 < ratio <= 0.25
//	available  otherwise
//
// Thresholds are evaluated with exact decimal arithmetic, so boundary
// values never depend on rounding.
func StatusFor(current, initial decimal.Decimal) string {
	if current.Sign() <= 0 {
		return StatusEmpty
	}
	if initial.Sign() <= 0 {
		return StatusCritical
	}
	if current.Mul(decTen).Cmp(initial) <= 0 {
		return StatusCritical
	}
	if current.Mul(decFour).Cmp(initial) <= 0 {
		return StatusLow
	}
	return StatusAvailable
}

// ComputeStatus recomputes Status from the stock fields. Must be called
// after every mutation of CurrentStock or InitialStock.
func (r *Resource) ComputeStatus() {
	r.Status = StatusFor(r.CurrentStock, r.InitialStock)
}

// ResourceUsage represents resource_usage table: an immutable,
// append-only ledger entry. Rows are never updated; they are deleted
// only when their resource is deleted.
type ResourceUsage struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ResourceID   uint            `gorm:"index;not null" json:"resource_id"`
	QuantityUsed decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity_used"`
	Purpose      string          `gorm:"type:text;not null" json:"purpose"`
	StockBefore  decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"stock_before"`
	StockAfter   decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"stock_after"`
	UsedBy       uint            `gorm:"not null" json:"used_by"`
	UsedAt       time.Time       `gorm:"autoCreateTime" json:"used_at"`

	Resource *Resource `gorm:"foreignKey:ResourceID" json:"-"`
	Actor    *User     `gorm:"foreignKey:UsedBy" json:"-"`
}

func (ResourceUsage) TableName() string {
	return "resource_usage"
}

// ResourceUsageEntry is the read model for usage history: a ledger row
// decorated with the acting user's display name (left outer join, so a
// missing user never hides the event).
type ResourceUsageEntry struct {
	ID           uint            `json:"id"`
	ResourceID   uint            `json:"resource_id"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	Purpose      string          `json:"purpose"`
	StockBefore  decimal.Decimal `json:"stock_before"`
	StockAfter   decimal.Decimal `json:"stock_after"`
	UsedBy       uint            `json:"used_by"`
	UsedAt       time.Time       `json:"used_at"`
	UserName     string          `json:"user_name"`
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Task{},
		&Experiment{},
		&Resource{},
		&ResourceUsage{},
	)
}
