package domain

import (
	"time"

	"github.com/google/uuid"
)

// --- Auth ---

// LoginRequest is the payload for username/password sign-in
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the signed-in user
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
}

// --- Customers ---

// CreateCustomerRequest is the payload for creating a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Address string `json:"address" validate:"max=500"`
}

// UpdateCustomerRequest is the payload for updating a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// --- Jobs ---

// CreateJobRequest is the payload for creating a job.
// Either an existing customer is referenced or a new one is created inline.
type CreateJobRequest struct {
	CustomerID  *uuid.UUID             `json:"customerId" validate:"omitempty"`
	Customer    *CreateCustomerRequest `json:"customer" validate:"omitempty"`
	TotalAmount *float64               `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes       string                 `json:"notes" validate:"max=2000"`
}

// UpdateJobRequest is the payload for updating job fields.
// Status changes go through the transition endpoint instead.
type UpdateJobRequest struct {
	TotalAmount *float64 `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes" validate:"omitempty,max=2000"`
	Version     int      `json:"version" validate:"required,gte=1"`
}

// TransitionJobRequest asks for a status change
type TransitionJobRequest struct {
	Status JobStatus `json:"status" validate:"required"`
	Note   string    `json:"note" validate:"max=500"`
}

// JobListFilter narrows job listing
type JobListFilter struct {
	Status *JobStatus
	Search string
	Limit  int
	Offset int
}

// JobResponse is the API view of a job with derived lifecycle data
type JobResponse struct {
	Job
	AllowedNext []JobStatus `json:"allowedNext"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// JobListResponse is a paged job listing
type JobListResponse struct {
	Jobs   []Job `json:"jobs"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// JobStatusHistoryResponse is the transition audit trail of a job
type JobStatusHistoryResponse struct {
	JobID   uuid.UUID          `json:"jobId"`
	History []JobStatusHistory `json:"history"`
}

// --- Appointments ---

// UpsertAppointmentRequest creates or replaces a job's appointment
type UpsertAppointmentRequest struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string   `json:"time" validate:"required,max=10"`
	Address  string   `json:"address" validate:"required,max=500"`
	Distance *float64 `json:"distance" validate:"omitempty,gte=0"`
	Fee      *float64 `json:"fee" validate:"omitempty,gte=0"`
	Notes    string   `json:"notes" validate:"max=1000"`
}

// --- Quotations ---

// UpsertQuotationRequest creates or updates a job's quotation draft
type UpsertQuotationRequest struct {
	Amount  float64 `json:"amount" validate:"required,gte=0"`
	FileURL string  `json:"fileUrl" validate:"omitempty,url,max=1000"`
	Notes   string  `json:"notes" validate:"max=1000"`
}

// QuotationResponseRequest records the customer's answer
type QuotationResponseRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// --- Payments ---

// PaymentPhaseInput is one installment in a schedule request
type PaymentPhaseInput struct {
	Phase   int     `json:"phase" validate:"required,gte=1"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	DueDate string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

// CreatePaymentScheduleRequest replaces a job's payment schedule.
// Five phases is the house convention, not a structural limit.
type CreatePaymentScheduleRequest struct {
	Phases []PaymentPhaseInput `json:"phases" validate:"required,min=1,max=5,dive"`
}

// MarkPaymentPaidRequest marks one phase as paid
type MarkPaymentPaidRequest struct {
	PaidDate string `json:"paidDate" validate:"required,datetime=2006-01-02"`
	SlipURL  string `json:"slipUrl" validate:"omitempty,url,max=1000"`
}

// PaymentSummary aggregates a job's payment schedule
type PaymentSummary struct {
	JobID           uuid.UUID      `json:"jobId"`
	TotalAmount     float64        `json:"totalAmount"`
	PaidAmount      float64        `json:"paidAmount"`
	PendingAmount   float64        `json:"pendingAmount"`
	OverdueAmount   float64        `json:"overdueAmount"`
	ProgressPercent float64        `json:"progressPercent"`
	Phases          []PaymentPhase `json:"phases"`
}

// --- Expenses ---

// CreateExpenseRequest records a cost against a job
type CreateExpenseRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Amount      float64 `json:"amount" validate:"required,gte=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string  `json:"category" validate:"required,max=100"`
	ReceiptURL  string  `json:"receiptUrl" validate:"omitempty,url,max=1000"`
}

// --- Daily reports ---

// CreateDailyReportRequest submits a foreman's daily report.
// Expenses listed here are created together with the report.
type CreateDailyReportRequest struct {
	Date            string                 `json:"date" validate:"required,datetime=2006-01-02"`
	WorkDescription string                 `json:"workDescription" validate:"required"`
	Images          []string               `json:"images" validate:"omitempty,dive,url"`
	Expenses        []CreateExpenseRequest `json:"expenses" validate:"omitempty,dive"`
}

// --- Checklist ---

// ToggleChecklistItemRequest flips an item's completion state
type ToggleChecklistItemRequest struct {
	Completed bool `json:"completed"`
}

// ChecklistResponse is a job's checklist with completion progress
type ChecklistResponse struct {
	JobID           uuid.UUID       `json:"jobId"`
	Items           []ChecklistItem `json:"items"`
	ProgressPercent float64         `json:"progressPercent"`
}

// --- Attachments ---

// AttachmentGroups maps each attachment type to its files in upload order
type AttachmentGroups map[AttachmentType][]Attachment

// --- Dashboard ---

// DashboardStats is the owner/admin overview
type DashboardStats struct {
	TodayAppointments  int64   `json:"todayAppointments"`
	MeasuringCount     int64   `json:"measuringCount"`
	QuotingCount       int64   `json:"quotingCount"`
	InProgressCount    int64   `json:"inProgressCount"`
	PendingFollowCount int64   `json:"pendingFollowCount"`
	TotalRevenue       float64 `json:"totalRevenue"`
	RecentJobs         []Job   `json:"recentJobs"`
}
