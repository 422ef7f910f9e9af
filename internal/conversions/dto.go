package conversions

// ShopifyOrder is the subset of a Shopify order webhook payload the
// conversion flow consumes. TotalPrice arrives as a string and is parsed as
// a decimal; malformed prices fail the individual order, not the batch.
type ShopifyOrder struct {
	ID             int64                `json:"id"`
	OrderNumber    int64                `json:"order_number"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	TotalPrice     string               `json:"total_price"`
	Currency       string               `json:"currency"`
	CreatedAt      string               `json:"created_at"`
	Customer       ShopifyCustomer      `json:"customer"`
	NoteAttributes []OrderNoteAttribute `json:"note_attributes"`
}

// ShopifyCustomer carries the customer identity attached to an order.
type ShopifyCustomer struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OrderNoteAttribute is a free-form name/value pair on the order. UTM
// parameters travel here when the storefront captures them at checkout.
type OrderNoteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderOutcome classifies what happened to one order within a batch.
type OrderOutcome string

const (
	OutcomeConverted OrderOutcome = "converted"
	OutcomeNoMatch   OrderOutcome = "no-match"
	OutcomeDuplicate OrderOutcome = "duplicate"
	OutcomeError     OrderOutcome = "error"
)

// OrderDetail reports the per-order outcome of a batch.
type OrderDetail struct {
	OrderRef string       `json:"order_ref"`
	Outcome  OrderOutcome `json:"outcome"`
	LeadID   string       `json:"lead_id,omitempty"`
	Revenue  float64      `json:"revenue,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// ProcessResult summarizes a processed order batch.
type ProcessResult struct {
	Success     bool          `json:"success"`
	Processed   int           `json:"processed"`
	Conversions int           `json:"conversions"`
	NoMatches   int           `json:"no_matches"`
	Duplicates  int           `json:"duplicates"`
	Errors      int           `json:"errors"`
	Revenue     float64       `json:"revenue"`
	Details     []OrderDetail `json:"details"`
}
