package services

import (
	"sort"
	"time"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/shopspring/decimal"
)

// The functions here are pure: callers fetch the scoped ledger slice and these
// fold it. Non-completed payments are skipped everywhere.

func Summarize(payments []*model.Payment) model.Collection {
	total := decimal.Zero
	var count int64
	customers := make(map[int64]struct{})
	for _, p := range payments {
		if !p.Completed() {
			continue
		}
		total = total.Add(p.Amount)
		count++
		customers[p.CustomerID] = struct{}{}
	}
	return model.Collection{
		Total:         total,
		PaymentCount:  count,
		CustomerCount: int64(len(customers)),
	}
}

// SummarizeBetween folds the payments collected in [from, until).
func SummarizeBetween(payments []*model.Payment, from, until time.Time) model.Collection {
	in := make([]*model.Payment, 0, len(payments))
	for _, p := range payments {
		if !p.CollectionDate.Before(from) && p.CollectionDate.Before(until) {
			in = append(in, p)
		}
	}
	return Summarize(in)
}

// AgentLabel is how a payment is attributed in the agent breakdown: the agent's
// current name when it still exists, otherwise the collected_by snapshot.
func AgentLabel(p *model.Payment, agentNames map[int64]string) string {
	if p.AgentID != nil {
		if name, ok := agentNames[*p.AgentID]; ok && name != "" {
			return name
		}
	}
	if p.CollectedBy != "" {
		return p.CollectedBy
	}
	return model.AdminCollector
}

// PackageLabel attributes a payment to the customer's current package.
func PackageLabel(p *model.Payment, customerPackages map[int64]*int64, packageNames map[int64]string) string {
	pkgID, ok := customerPackages[p.CustomerID]
	if !ok || pkgID == nil {
		return model.NoPackageLabel
	}
	if name, ok := packageNames[*pkgID]; ok {
		return name
	}
	return model.NoPackageLabel
}

// Breakdown groups completed payments by label, largest total first.
func Breakdown(payments []*model.Payment, label func(*model.Payment) string) []model.BreakdownRow {
	type acc struct {
		row       model.BreakdownRow
		customers map[int64]struct{}
	}
	groups := make(map[string]*acc)
	for _, p := range payments {
		if !p.Completed() {
			continue
		}
		key := label(p)
		g, ok := groups[key]
		if !ok {
			g = &acc{
				row:       model.BreakdownRow{Key: key, Total: decimal.Zero},
				customers: make(map[int64]struct{}),
			}
			groups[key] = g
		}
		g.row.Total = g.row.Total.Add(p.Amount)
		g.row.PaymentCount++
		g.customers[p.CustomerID] = struct{}{}
	}

	rows := make([]model.BreakdownRow, 0, len(groups))
	for _, g := range groups {
		g.row.CustomerCount = int64(len(g.customers))
		rows = append(rows, g.row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// LatestCollections maps each customer to its most recent completed collection date.
func LatestCollections(payments []*model.Payment) map[int64]time.Time {
	out := make(map[int64]time.Time)
	for _, p := range payments {
		if !p.Completed() {
			continue
		}
		if last, ok := out[p.CustomerID]; !ok || p.CollectionDate.After(last) {
			out[p.CustomerID] = p.CollectionDate
		}
	}
	return out
}
