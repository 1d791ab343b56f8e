package core

import "math"

// Percentage precision is standardized at two decimal places across every
// view; the dashboards round here, not at render time.

// Round2 rounds a percentage (or any float) to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BudgetSpentPercent returns spent/total as a percentage. A zero or
// negative total yields 0 rather than a division by zero.
func BudgetSpentPercent(spent, total Money) float64 {
	if total.Paise <= 0 {
		return 0
	}
	return Round2(float64(spent.Paise) / float64(total.Paise) * 100)
}

// BalancePercent returns balance/amount as a percentage, guarded against a
// zero amount: BalancePercent(x, 0) == 0 for any x.
func BalancePercent(balance, amount Money) float64 {
	if amount.Paise == 0 {
		return 0
	}
	return Round2(float64(balance.Paise) / float64(amount.Paise) * 100)
}

// PaymentsDonePercent returns received/expected as a percentage with the
// same zero-divisor guard.
func PaymentsDonePercent(received, expected Money) float64 {
	if expected.Paise <= 0 {
		return 0
	}
	return Round2(float64(received.Paise) / float64(expected.Paise) * 100)
}

// ProjectMetrics carries the derived numbers behind the dashboard summary
// cards. It is a presentation-layer computation, never stored.
type ProjectMetrics struct {
	Budget           Money
	Spent            Money
	ExistingBalance  Money
	ExpectedPayments Money
	PaymentsReceived Money
	BudgetSpentPct   float64
	BalancePct       float64
	PaymentsDonePct  float64
}

// DeriveMetrics combines the project budget with aggregated ledger sums and
// recorded client payments.
func DeriveMetrics(budget Money, groups []AggregatedGroup, payments []ClientPayment) ProjectMetrics {
	var spent, balance Money
	for _, g := range groups {
		spent.Paise += g.TotalAmount.Paise
		balance.Paise += g.TotalBalance.Paise
	}

	var received Money
	for _, p := range payments {
		received.Paise += p.Amount.Paise
	}

	m := ProjectMetrics{
		Budget:           budget,
		Spent:            spent,
		ExistingBalance:  Money{Paise: budget.Paise - spent.Paise},
		ExpectedPayments: budget,
		PaymentsReceived: received,
	}
	m.BudgetSpentPct = BudgetSpentPercent(spent, budget)
	m.BalancePct = BalancePercent(balance, spent)
	m.PaymentsDonePct = PaymentsDonePercent(received, m.ExpectedPayments)
	return m
}
