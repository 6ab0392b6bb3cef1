package model

// PaymentMethod is the fixed set of methods the payment endpoint accepts.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodEWallet      PaymentMethod = "e_wallet"
	MethodCash         PaymentMethod = "cash"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{MethodCreditCard, MethodBankTransfer, MethodEWallet, MethodCash}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// PaymentState is the state of a single payment record, distinct from the
// booking-level PaymentStatus.
type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStateSuccess PaymentState = "success"
	PaymentStateFailed  PaymentState = "failed"
)

// Payment is created against a booking and then processed.
type Payment struct {
	ID            uint64        `json:"ID"`
	BookingID     uint64        `json:"booking_id"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        PaymentState  `json:"status"`
	TransactionID string        `json:"transaction_id"`
}
