package orders

import (
	"time"
)

// Sentinel stands in for any field whose extraction failed. Orders are kept
// with degraded fields rather than discarded.
const Sentinel = "N/A"

type AdjustmentStatus string

const (
	StatusNotAttempted AdjustmentStatus = "not_attempted"
	StatusSuccess      AdjustmentStatus = "success"
	StatusNotAvailable AdjustmentStatus = "not_available"
	StatusFailed       AdjustmentStatus = "failed"
)

// Summary is what order enumeration extracts from a listing container.
type Summary struct {
	ID        string     `json:"id"`
	DateStr   string     `json:"date_str"`
	Date      *time.Time `json:"date_obj,omitempty"`
	ItemCount string     `json:"item_count"`
	Valid     bool       `json:"valid"`
}

type TrackingInfo struct {
	TrackingNumber    string `json:"tracking_number"`
	DeliveryText      string `json:"delivery_text"`
	FormattedDelivery string `json:"formatted_delivery"`
}

type Details struct {
	ItemName  string `json:"item_name"`
	OrderDate string `json:"order_date"`
	OrderID   string `json:"order_id"`
}

// Record is the persisted per-order state, upserted after every processing
// attempt and never deleted.
type Record struct {
	Summary
	Attempts            int              `json:"attempts"`
	Tracking            TrackingInfo     `json:"tracking_info"`
	Details             Details          `json:"details"`
	AdjustmentAttempted bool             `json:"adjustment_attempted"`
	AdjustmentSuccess   bool             `json:"adjustment_success"`
	AdjustmentStatus    AdjustmentStatus `json:"adjustment_status"`
	LastError           string           `json:"last_error"`
	RefundAmount        string           `json:"refund_amount,omitempty"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func NewRecord(s Summary) *Record {
	return &Record{
		Summary: s,
		Tracking: TrackingInfo{
			TrackingNumber:    Sentinel,
			DeliveryText:      Sentinel,
			FormattedDelivery: Sentinel,
		},
		AdjustmentStatus: StatusNotAttempted,
	}
}

// MarkSuccess records a confirmed adjustment. AdjustmentSuccess is only ever
// set here, which keeps the success flag and the status enum consistent.
func (r *Record) MarkSuccess(refundAmount string) {
	r.AdjustmentAttempted = true
	r.AdjustmentSuccess = true
	r.AdjustmentStatus = StatusSuccess
	r.LastError = ""
	if refundAmount != "" {
		r.RefundAmount = refundAmount
	}
}

// MarkUnavailable records a decisive "cannot adjust" outcome from the site.
func (r *Record) MarkUnavailable() {
	r.AdjustmentAttempted = true
	r.AdjustmentSuccess = false
	r.AdjustmentStatus = StatusNotAvailable
}

// MarkFailed records an indeterminate or errored attempt.
func (r *Record) MarkFailed(reason string) {
	r.AdjustmentAttempted = true
	r.AdjustmentSuccess = false
	r.AdjustmentStatus = StatusFailed
	r.LastError = reason
}
