package model

import (
	"strings"
	"time"
)

type CustomerPaymentStatus string

const (
	CustomerPaid   CustomerPaymentStatus = "paid"
	CustomerUnpaid CustomerPaymentStatus = "unpaid"
)

// Customer.PaymentStatus and LastPaymentDate are a cached view of the ledger.
// They track the latest payment activity, not whether the current period is paid.
type Customer struct {
	ID              int64                 `json:"id"`
	Office          string                `json:"office"`
	SerialNo        string                `json:"serial_no"`
	Name            string                `json:"name"`
	Phone           string                `json:"phone"`
	Area            string                `json:"area"`
	IDNumber        string                `json:"id_number"`
	BoxNumber       string                `json:"box_number"`
	PackageID       *int64                `json:"package_id"`
	AgentID         *int64                `json:"agent_id"`
	PaymentStatus   CustomerPaymentStatus `json:"payment_status"`
	LastPaymentDate *time.Time            `json:"last_payment_date"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`

	Package *Package `json:"package,omitempty"`
}

type CustomerInput struct {
	Office    string `json:"office"`
	SerialNo  string `json:"serial_no"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Area      string `json:"area"`
	IDNumber  string `json:"id_number"`
	BoxNumber string `json:"box_number"`
	PackageID *int64 `json:"package_id"`
	AgentID   *int64 `json:"agent_id"`
}

func (in *CustomerInput) Normalize() {
	in.Office = strings.TrimSpace(in.Office)
	in.SerialNo = strings.TrimSpace(in.SerialNo)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Area = strings.TrimSpace(in.Area)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.BoxNumber = strings.TrimSpace(in.BoxNumber)
	if in.PackageID != nil && *in.PackageID == 0 {
		in.PackageID = nil
	}
	if in.AgentID != nil && *in.AgentID == 0 {
		in.AgentID = nil
	}
}

func (in *CustomerInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("customer name is required")
	}
	return nil
}

// Apply copies the editable fields onto c. Payment status fields are left alone.
func (in *CustomerInput) Apply(c *Customer) {
	c.Office = in.Office
	c.SerialNo = in.SerialNo
	c.Name = in.Name
	c.Phone = in.Phone
	c.Area = in.Area
	c.IDNumber = in.IDNumber
	c.BoxNumber = in.BoxNumber
	c.PackageID = in.PackageID
	c.AgentID = in.AgentID
}

type CustomerFilter struct {
	Search        string
	PaymentStatus *CustomerPaymentStatus
	PackageID     *int64
	WithPhone     bool
	Limit         int
	Offset        int
}

type ImportRowError struct {
	Row   int           `json:"row"`
	Data  CustomerInput `json:"data"`
	Error string        `json:"error"`
}

type ImportResult struct {
	Success []*Customer      `json:"success"`
	Errors  []ImportRowError `json:"errors"`
}
