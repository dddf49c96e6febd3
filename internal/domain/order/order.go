package order

import "time"

// Status is the fulfillment/display status of an order. It moves
// independently of payment confirmation.
type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusPacking        Status = "PACKING"
	StatusShipped        Status = "SHIPPED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusPacking, StatusShipped, StatusOutForDelivery, StatusDelivered:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "COD"
	PaymentHosted   PaymentMethod = "HOSTED"
	PaymentTwoPhase PaymentMethod = "TWO_PHASE"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCOD, PaymentHosted, PaymentTwoPhase:
		return true
	default:
		return false
	}
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

func (a Address) IsComplete() bool {
	return a.Street != "" && a.City != "" && a.Country != ""
}

type Order struct {
	ID               int64
	UserID           int64
	Items            []OrderItem
	Address          Address
	Amount           float64
	PaymentMethod    PaymentMethod
	PaymentConfirmed bool
	// PaymentRef holds the gateway-side handle for the live payment
	// attempt: the checkout session id on the hosted path, the intent id
	// on the two-phase path. At most one per order.
	PaymentRef string
	Status     Status
	CreatedAt  time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Size      string
	UnitPrice float64
	Quantity  int64
}
