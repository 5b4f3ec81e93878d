package pricing

import "github.com/iwvelando/ananda-quote/pkg/mathutil"

// Financing is the payment plan for a final price. The down payment itself is
// split into TermMonths installments; the remaining balance is due at delivery.
type Financing struct {
	DownPaymentPct     int     `json:"downPaymentPct"`
	TermMonths         int     `json:"termMonths"`
	DownPayment        float64 `json:"downPayment"`
	MonthlyInstallment float64 `json:"monthlyInstallment"`
	RemainingBalance   float64 `json:"remainingBalance"`
}

// Installment is one monthly payment towards the down payment.
type Installment struct {
	Number                 int     `json:"number"`
	Amount                 float64 `json:"amount"`
	OutstandingDownPayment float64 `json:"outstandingDownPayment"`
}

// CalculateFinancing splits finalPrice into a down payment and remaining
// balance. A term of 0 months means the down payment is due immediately.
func CalculateFinancing(finalPrice float64, downPaymentPct, termMonths int) Financing {
	downPayment := mathutil.ApplyPercentage(finalPrice, float64(downPaymentPct))
	financing := Financing{
		DownPaymentPct:   downPaymentPct,
		TermMonths:       termMonths,
		DownPayment:      downPayment,
		RemainingBalance: finalPrice - downPayment,
	}
	if termMonths > 0 {
		financing.MonthlyInstallment = downPayment / float64(termMonths)
	}
	return financing
}

// PaymentPlan lists every installment of the down payment. It is empty when
// the down payment is paid up front.
func (f Financing) PaymentPlan() []Installment {
	if f.TermMonths <= 0 {
		return nil
	}

	plan := make([]Installment, f.TermMonths)
	outstanding := f.DownPayment
	for i := range plan {
		outstanding -= f.MonthlyInstallment
		if i == len(plan)-1 || mathutil.IsZero(outstanding) {
			outstanding = 0
		}
		plan[i] = Installment{Number: i + 1, Amount: f.MonthlyInstallment, OutstandingDownPayment: outstanding}
	}
	return plan
}
