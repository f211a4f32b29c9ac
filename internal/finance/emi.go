package finance

import "math"

// Reasons reported by InvalidInputError
const (
	ReasonPriceNotNumeric       = "price_not_numeric"
	ReasonDownPaymentOutOfRange = "down_payment_out_of_range"
	ReasonInvalidTenure         = "invalid_tenure"
	ReasonInvalidRate           = "invalid_rate"
)

// InvalidInputError reports loan parameters the calculator cannot price.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid loan input: " + e.Reason
}

// Is matches any InvalidInputError carrying the same reason.
func (e *InvalidInputError) Is(target error) bool {
	t, ok := target.(*InvalidInputError)
	return ok && t.Reason == e.Reason
}

var (
	ErrPriceNotNumeric       = &InvalidInputError{Reason: ReasonPriceNotNumeric}
	ErrDownPaymentOutOfRange = &InvalidInputError{Reason: ReasonDownPaymentOutOfRange}
	ErrInvalidTenure         = &InvalidInputError{Reason: ReasonInvalidTenure}
	ErrInvalidRate           = &InvalidInputError{Reason: ReasonInvalidRate}
)

// ComputeMonthlyPayment returns the equal monthly installment of a
// reducing-balance loan taken for price minus downPayment.
//
// A zero rate falls back to straight-line repayment. The result is not
// rounded.
func ComputeMonthlyPayment(price, downPayment float64, tenureMonths int, annualRatePercent float64) (float64, error) {
	if !isFinite(price) {
		return 0, ErrPriceNotNumeric
	}
	if !isFinite(downPayment) || downPayment < 0 || downPayment > price {
		return 0, ErrDownPaymentOutOfRange
	}
	if tenureMonths <= 0 {
		return 0, ErrInvalidTenure
	}
	if !isFinite(annualRatePercent) || annualRatePercent < 0 {
		return 0, ErrInvalidRate
	}

	principal := math.Max(price-downPayment, 0)
	monthlyRate := annualRatePercent / 12 / 100
	n := float64(tenureMonths)

	if monthlyRate == 0 {
		return principal / n, nil
	}

	growth := math.Pow(1+monthlyRate, n)
	return principal * monthlyRate * growth / (growth - 1), nil
}

// LoanQuoteInput holds the loan parameters entered on a property page
type LoanQuoteInput struct {
	Price             float64 `json:"price"`
	DownPayment       float64 `json:"down_payment"`
	TenureMonths      int     `json:"tenure_months"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
}

// LoanQuoteResult is a priced loan
type LoanQuoteResult struct {
	Principal         float64 `json:"principal"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalPayable      float64 `json:"total_payable"`
	TotalInterest     float64 `json:"total_interest"`
	TenureMonths      int     `json:"tenure_months"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
}

// Quote prices a loan and derives the repayment totals from the monthly
// installment.
func Quote(in LoanQuoteInput) (LoanQuoteResult, error) {
	monthly, err := ComputeMonthlyPayment(in.Price, in.DownPayment, in.TenureMonths, in.AnnualRatePercent)
	if err != nil {
		return LoanQuoteResult{}, err
	}

	principal := math.Max(in.Price-in.DownPayment, 0)
	total := monthly * float64(in.TenureMonths)
	return LoanQuoteResult{
		Principal:         principal,
		MonthlyPayment:    monthly,
		TotalPayable:      total,
		TotalInterest:     math.Max(total-principal, 0),
		TenureMonths:      in.TenureMonths,
		AnnualRatePercent: in.AnnualRatePercent,
	}, nil
}

// RoundUnits rounds an amount to whole currency units, halves away from zero.
func RoundUnits(amount float64) float64 {
	return math.Round(amount)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
