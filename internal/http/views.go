package http

import (
	"sitebook/internal/core"
	"sitebook/internal/services"
)

// JSON projections of the domain types. Monetary fields carry both the
// exact paise value and a formatted display string.

type moneyView struct {
	Paise   int64  `json:"paise"`
	Display string `json:"display"`
}

func newMoneyView(m core.Money) moneyView {
	return moneyView{Paise: m.Paise, Display: core.FormatRupees(m.Paise)}
}

type projectView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Client    string    `json:"client"`
	Location  string    `json:"location"`
	Budget    moneyView `json:"budget"`
	StartDate string    `json:"start_date,omitempty"`
}

func newProjectView(p core.Project) projectView {
	return projectView{
		ID:        p.ID,
		Name:      p.Name,
		Client:    p.Client,
		Location:  p.Location,
		Budget:    newMoneyView(p.Budget),
		StartDate: p.StartDate,
	}
}

type clientView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type entryView struct {
	ID          string    `json:"id"`
	SequenceNo  string    `json:"sequence_no"`
	DRNo        string    `json:"dr_no,omitempty"`
	Particulars string    `json:"particulars"`
	Date        string    `json:"date"`
	Amount      moneyView `json:"amount"`
	Paid        moneyView `json:"paid"`
	Balance     moneyView `json:"balance"`
	Unit        string    `json:"unit,omitempty"`
	Quantity    float64   `json:"quantity"`
	Received    moneyView `json:"received"`
	Consumed    moneyView `json:"consumed"`
	Remarks     string    `json:"remarks,omitempty"`
}

func newEntryView(e core.LedgerEntry) entryView {
	return entryView{
		ID:          e.ID,
		SequenceNo:  e.SequenceNo,
		DRNo:        e.DRNo,
		Particulars: e.Particulars,
		Date:        e.Date,
		Amount:      newMoneyView(e.Amount),
		Paid:        newMoneyView(e.Paid),
		Balance:     newMoneyView(e.Balance),
		Unit:        e.Unit,
		Quantity:    e.Quantity,
		Received:    newMoneyView(e.Received),
		Consumed:    newMoneyView(e.Consumed),
		Remarks:     e.Remarks,
	}
}

func newEntryViews(entries []core.LedgerEntry) []entryView {
	out := make([]entryView, len(entries))
	for i, e := range entries {
		out[i] = newEntryView(e)
	}
	return out
}

type groupView struct {
	Particulars   string      `json:"particulars"`
	SequenceNo    string      `json:"sequence_no"`
	DRNo          string      `json:"dr_no,omitempty"`
	Remarks       string      `json:"remarks,omitempty"`
	TotalAmount   moneyView   `json:"total_amount"`
	TotalPaid     moneyView   `json:"total_paid"`
	TotalBalance  moneyView   `json:"total_balance"`
	BalancePct    float64     `json:"balance_pct"`
	TotalQuantity float64     `json:"total_quantity"`
	Unit          string      `json:"unit,omitempty"`
	LastUpdated   string      `json:"last_updated,omitempty"`
	Transactions  []entryView `json:"transactions"`
}

func newGroupView(g core.AggregatedGroup) groupView {
	return groupView{
		Particulars:   g.Particulars,
		SequenceNo:    g.SequenceNo,
		DRNo:          g.DRNo,
		Remarks:       g.Remarks,
		TotalAmount:   newMoneyView(g.TotalAmount),
		TotalPaid:     newMoneyView(g.TotalPaid),
		TotalBalance:  newMoneyView(g.TotalBalance),
		BalancePct:    core.BalancePercent(g.TotalBalance, g.TotalAmount),
		TotalQuantity: g.TotalQuantity,
		Unit:          g.Unit,
		LastUpdated:   g.LastUpdated,
		Transactions:  newEntryViews(g.Transactions),
	}
}

func newGroupViews(groups []core.AggregatedGroup) []groupView {
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = newGroupView(g)
	}
	return out
}

type stockView struct {
	Particulars string    `json:"particulars"`
	Unit        string    `json:"unit,omitempty"`
	Quantity    float64   `json:"quantity"`
	Received    moneyView `json:"received"`
	Consumed    moneyView `json:"consumed"`
	InStock     moneyView `json:"in_stock"`
	LastUpdated string    `json:"last_updated,omitempty"`
}

func newStockViews(stocks []core.MaterialStock) []stockView {
	out := make([]stockView, len(stocks))
	for i, m := range stocks {
		out[i] = stockView{
			Particulars: m.Particulars,
			Unit:        m.Unit,
			Quantity:    m.Quantity,
			Received:    newMoneyView(m.Received),
			Consumed:    newMoneyView(m.Consumed),
			InStock:     newMoneyView(m.InStock),
			LastUpdated: m.LastUpdated,
		}
	}
	return out
}

type metricsView struct {
	Budget           moneyView `json:"budget"`
	Spent            moneyView `json:"spent"`
	ExistingBalance  moneyView `json:"existing_balance"`
	ExpectedPayments moneyView `json:"expected_payments"`
	PaymentsReceived moneyView `json:"payments_received"`
	BudgetSpentPct   float64   `json:"budget_spent_pct"`
	BalancePct       float64   `json:"balance_pct"`
	PaymentsDonePct  float64   `json:"payments_done_pct"`
}

func newMetricsView(m core.ProjectMetrics) metricsView {
	return metricsView{
		Budget:           newMoneyView(m.Budget),
		Spent:            newMoneyView(m.Spent),
		ExistingBalance:  newMoneyView(m.ExistingBalance),
		ExpectedPayments: newMoneyView(m.ExpectedPayments),
		PaymentsReceived: newMoneyView(m.PaymentsReceived),
		BudgetSpentPct:   m.BudgetSpentPct,
		BalancePct:       m.BalancePct,
		PaymentsDonePct:  m.PaymentsDonePct,
	}
}

type dashboardView struct {
	Project           projectView `json:"project"`
	Metrics           metricsView `json:"metrics"`
	RecentActivity    []groupView `json:"recent_activity"`
	Materials         []stockView `json:"materials"`
	LabourOutstanding moneyView   `json:"labour_outstanding"`
	PendingDrawings   int         `json:"pending_drawings"`
	MalformedEntries  int         `json:"malformed_entries"`
}

func newDashboardView(d services.Dashboard) dashboardView {
	return dashboardView{
		Project:           newProjectView(d.Project),
		Metrics:           newMetricsView(d.Metrics),
		RecentActivity:    newGroupViews(d.RecentActivity),
		Materials:         newStockViews(d.Materials),
		LabourOutstanding: newMoneyView(d.LabourOutstanding),
		PendingDrawings:   d.PendingDrawings,
		MalformedEntries:  d.MalformedEntries,
	}
}

type billView struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Contractor  string    `json:"contractor"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Amount      moneyView `json:"amount"`
	Paid        moneyView `json:"paid"`
	Outstanding moneyView `json:"outstanding"`
}

func newBillView(b core.LabourBill) billView {
	return billView{
		ID:          b.ID,
		ProjectID:   b.ProjectID,
		Contractor:  b.Contractor,
		Description: b.Description,
		Date:        b.Date,
		Amount:      newMoneyView(b.Amount),
		Paid:        newMoneyView(b.Paid),
		Outstanding: newMoneyView(b.Outstanding()),
	}
}

type paymentView struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Date      string    `json:"date"`
	Amount    moneyView `json:"amount"`
	Mode      string    `json:"mode,omitempty"`
	Reference string    `json:"reference,omitempty"`
	Remarks   string    `json:"remarks,omitempty"`
}

func newPaymentView(p core.ClientPayment) paymentView {
	return paymentView{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		Date:      p.Date,
		Amount:    newMoneyView(p.Amount),
		Mode:      p.Mode,
		Reference: p.Reference,
		Remarks:   p.Remarks,
	}
}

type drawingView struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	SheetNo     string `json:"sheet_no,omitempty"`
	Status      string `json:"status"`
	SubmittedOn string `json:"submitted_on"`
	DecidedOn   string `json:"decided_on,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

func newDrawingView(d core.Drawing) drawingView {
	return drawingView{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Title:       d.Title,
		SheetNo:     d.SheetNo,
		Status:      d.Status.String(),
		SubmittedOn: d.SubmittedOn,
		DecidedOn:   d.DecidedOn,
		Remarks:     d.Remarks,
	}
}
