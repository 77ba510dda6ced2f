package document

import "time"

// Input shapes, one per upstream source format. Each is mapped once by its
// own normalizer method; no per-field fallback probing happens anywhere
// downstream of these adapters.

// TaxLineInput is one per-rate summary row as emitted by the upstream
// invoice parser. Amounts arrive as float64 from JSON and are converted to
// decimals at the adapter edge.
type TaxLineInput struct {
	Rate          float64 `json:"rate" validate:"gte=0,lte=100"`
	TaxableAmount float64 `json:"taxable_amount" validate:"gte=0"`
	TaxAmount     float64 `json:"tax_amount" validate:"gte=0"`
}

// InvoiceInput is the parsed form of an electronic invoice (FatturaPA or
// equivalent) after upstream XML extraction.
type InvoiceInput struct {
	SellerName     string         `json:"seller_name"`
	SellerVATID    string         `json:"seller_vat_id"`
	SellerTaxID    string         `json:"seller_tax_id"`
	BuyerName      string         `json:"buyer_name"`
	BuyerVATID     string         `json:"buyer_vat_id"`
	BuyerTaxID     string         `json:"buyer_tax_id"`
	DocumentNumber string         `json:"document_number" validate:"required"`
	IssueDate      time.Time      `json:"issue_date" validate:"required"`
	Lines          []TaxLineInput `json:"lines" validate:"required,min=1,dive"`
	DeclaredTotal  float64        `json:"declared_total" validate:"gte=0"`
	// Direction is the explicit classification when the upstream parser
	// knows it; DirectionUnknown triggers the hint heuristic.
	Direction Direction `json:"direction"`
	// SourceHint is the filename or document-type label used by the
	// direction heuristic when Direction is unknown.
	SourceHint string `json:"source_hint"`
}

// PayslipInput is the parsed form of a payslip.
type PayslipInput struct {
	EmployeeName   string    `json:"employee_name" validate:"required"`
	EmployeeTaxID  string    `json:"employee_tax_id"`
	DocumentNumber string    `json:"document_number"`
	PeriodDate     time.Time `json:"period_date" validate:"required"`
	Gross          float64   `json:"gross" validate:"gt=0"`
	SocialSecurity float64   `json:"social_security" validate:"gte=0"`
	IncomeTax      float64   `json:"income_tax" validate:"gte=0"`
	Net            float64   `json:"net" validate:"gt=0"`
}

// ReceiptInput is the parsed form of a payment receipt. Receipts carry no
// per-rate breakdown, only the settled amount.
type ReceiptInput struct {
	CounterpartName  string    `json:"counterpart_name"`
	CounterpartVATID string    `json:"counterpart_vat_id"`
	CounterpartTaxID string    `json:"counterpart_tax_id"`
	DocumentNumber   string    `json:"document_number"`
	Date             time.Time `json:"date" validate:"required"`
	Amount           float64   `json:"amount" validate:"gt=0"`
}

// TransferInput is the parsed form of a bank transfer row.
type TransferInput struct {
	CounterpartName  string    `json:"counterpart_name"`
	CounterpartVATID string    `json:"counterpart_vat_id"`
	CounterpartTaxID string    `json:"counterpart_tax_id"`
	Reference        string    `json:"reference"`
	Date             time.Time `json:"date" validate:"required"`
	Amount           float64   `json:"amount" validate:"gt=0"`
}
