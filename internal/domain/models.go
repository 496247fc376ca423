package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BaseModel contains common fields for all entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:(gen_random_uuid())" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an ID when the database does not (sqlite in tests)
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Role identifies the access level of a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleForeman Role = "foreman"
	RoleOwner   Role = "owner"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleForeman, RoleOwner:
		return true
	}
	return false
}

// User represents an account that can sign in to the system
type User struct {
	BaseModel
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	DisplayName  string `gorm:"size:255" json:"displayName"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         Role   `gorm:"size:20;not null" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`
}

// Customer is shared by reference across jobs. Deleting a job never
// deletes its customer.
type Customer struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	Phone   string `gorm:"size:50;not null" json:"phone"`
	Address string `gorm:"size:500" json:"address,omitempty"`
}

// Job is a single contracted work order tracked from intake through
// payment completion. It exclusively owns its sub-entities; they are
// removed with the job.
type Job struct {
	BaseModel
	Code        string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"customerId"`
	Customer    *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status      JobStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TotalAmount *float64  `json:"totalAmount,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	// Version guards against concurrent writes. Saving with a stale
	// version fails with a conflict.
	Version int `gorm:"not null;default:1" json:"version"`

	Appointment  *Appointment    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"appointment,omitempty"`
	Quotation    *Quotation      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"quotation,omitempty"`
	Payments     []PaymentPhase  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	Expenses     []Expense       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	DailyReports []DailyReport   `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"dailyReports,omitempty"`
	Attachments  []Attachment    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Checklist    []ChecklistItem `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"checklist,omitempty"`
}

// JobStatusHistory records every status transition of a job, append-only
type JobStatusHistory struct {
	BaseModel
	JobID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"jobId"`
	FromStatus JobStatus  `gorm:"size:20;not null" json:"fromStatus"`
	ToStatus   JobStatus  `gorm:"size:20;not null" json:"toStatus"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid" json:"changedBy,omitempty"`
	Note       string     `gorm:"size:500" json:"note,omitempty"`
}

// TableName overrides the default table name
func (JobStatusHistory) TableName() string {
	return "job_status_history"
}

// Appointment is the site measurement visit. At most one per job.
type Appointment struct {
	BaseModel
	JobID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"jobId"`
	Date     time.Time `gorm:"type:date;not null" json:"date"`
	Time     string    `gorm:"size:10;not null" json:"time"`
	Address  string    `gorm:"size:500;not null" json:"address"`
	Distance *float64  `json:"distance,omitempty"`
	Fee      *float64  `json:"fee,omitempty"`
	Notes    string    `gorm:"size:1000" json:"notes,omitempty"`
}

// QuotationStatus tracks the customer-facing state of a quotation
type QuotationStatus string

const (
	QuotationNotCreated QuotationStatus = "not-created"
	QuotationSent       QuotationStatus = "sent"
	QuotationAccepted   QuotationStatus = "accepted"
	QuotationRejected   QuotationStatus = "rejected"
)

// IsValid checks if the quotation status is a known value
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationNotCreated, QuotationSent, QuotationAccepted, QuotationRejected:
		return true
	}
	return false
}

// IsResolved reports whether the customer has answered
func (s QuotationStatus) IsResolved() bool {
	return s == QuotationAccepted || s == QuotationRejected
}

// Quotation is the priced proposal sent to the customer. At most one per job.
type Quotation struct {
	BaseModel
	JobID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"jobId"`
	Status       QuotationStatus `gorm:"size:20;not null;default:'not-created'" json:"status"`
	Amount       float64         `gorm:"not null" json:"amount"`
	FileURL      string          `gorm:"size:1000" json:"fileUrl,omitempty"`
	SentDate     *time.Time      `json:"sentDate,omitempty"`
	ResponseDate *time.Time      `json:"responseDate,omitempty"`
	Notes        string          `gorm:"size:1000" json:"notes,omitempty"`
}

// PaymentStatus tracks a single installment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// IsValid checks if the payment status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// PaymentPhase is one installment of the agreed payment schedule.
// Phase numbers are unique per job and conventionally sequential from 1.
type PaymentPhase struct {
	BaseModel
	JobID    uuid.UUID     `gorm:"type:uuid;not null;index:idx_payment_job_phase,unique" json:"jobId"`
	Phase    int           `gorm:"not null;index:idx_payment_job_phase,unique" json:"phase"`
	Amount   float64       `gorm:"not null" json:"amount"`
	DueDate  time.Time     `gorm:"type:date;not null" json:"dueDate"`
	PaidDate *time.Time    `gorm:"type:date" json:"paidDate,omitempty"`
	Status   PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	SlipURL  string        `gorm:"size:1000" json:"slipUrl,omitempty"`
}

// Expense is a cost attributed to a job, optionally through a daily report
type Expense struct {
	BaseModel
	JobID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"jobId"`
	DailyReportID *uuid.UUID `gorm:"type:uuid;index" json:"dailyReportId,omitempty"`
	Description   string     `gorm:"size:500;not null" json:"description"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Date          time.Time  `gorm:"type:date;not null" json:"date"`
	Category      string     `gorm:"size:100;not null" json:"category"`
	ReceiptURL    string     `gorm:"size:1000" json:"receiptUrl,omitempty"`
}

// DailyReport is the foreman's on-site progress entry. Reports are
// append-only once submitted; corrections are new reports.
type DailyReport struct {
	BaseModel
	JobID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"jobId"`
	ReportedBy      *uuid.UUID     `gorm:"type:uuid" json:"reportedBy,omitempty"`
	Date            time.Time      `gorm:"type:date;not null" json:"date"`
	WorkDescription string         `gorm:"type:text;not null" json:"workDescription"`
	Images          pq.StringArray `gorm:"type:text[]" json:"images"`
	Expenses        []Expense      `gorm:"foreignKey:DailyReportID" json:"expenses,omitempty"`
}

// AttachmentType classifies uploaded files for display grouping
type AttachmentType string

const (
	AttachmentImage     AttachmentType = "image"
	AttachmentVideo     AttachmentType = "video"
	AttachmentModelFile AttachmentType = "model-file"
	AttachmentReceipt   AttachmentType = "receipt"
)

// IsValid checks if the attachment type is a known value
func (t AttachmentType) IsValid() bool {
	switch t {
	case AttachmentImage, AttachmentVideo, AttachmentModelFile, AttachmentReceipt:
		return true
	}
	return false
}

// AllAttachmentTypes lists every attachment type in display order
func AllAttachmentTypes() []AttachmentType {
	return []AttachmentType{AttachmentImage, AttachmentVideo, AttachmentModelFile, AttachmentReceipt}
}

// Attachment is file metadata for a job. Bytes live in the storage
// backend; deletion is terminal.
type Attachment struct {
	BaseModel
	JobID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"jobId"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Type        AttachmentType `gorm:"size:20;not null" json:"type"`
	ContentType string         `gorm:"size:100" json:"contentType,omitempty"`
	StoragePath string         `gorm:"size:1000;not null" json:"storagePath"`
	Size        int64          `json:"size"`
	UploadedBy  *uuid.UUID     `gorm:"type:uuid" json:"uploadedBy,omitempty"`
}

// ChecklistItem is one task on a job's execution checklist
type ChecklistItem struct {
	BaseModel
	JobID     uuid.UUID `gorm:"type:uuid;not null;index" json:"jobId"`
	Task      string    `gorm:"size:255;not null" json:"task"`
	Completed bool      `gorm:"default:false" json:"completed"`
	Position  int       `gorm:"not null" json:"position"`
}

// DefaultChecklistTasks are seeded when a job enters execution
var DefaultChecklistTasks = []string{
	"เคลียร์พื้นที่หน้างาน",
	"ปรับระดับดิน",
	"ปูวัสดุรองพื้น",
	"ติดตั้งหญ้าเทียม/วัสดุหลัก",
	"เก็บขอบและรายละเอียด",
	"ทำความสะอาดส่งมอบงาน",
}

// JobCodeSequence backs per-year job code generation
type JobCodeSequence struct {
	Year         int       `gorm:"primaryKey" json:"year"`
	LastSequence int       `gorm:"not null" json:"lastSequence"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName overrides the default table name
func (JobCodeSequence) TableName() string {
	return "job_code_sequences"
}
