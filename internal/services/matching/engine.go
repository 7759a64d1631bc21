package matching

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"property-management-backend/internal/ledger"
	"property-management-backend/internal/models"
)

// Status classifies one reconciliation row. There is no error status:
// every input produces a classified row.
type Status string

const (
	StatusOK                   Status = "OK"
	StatusAmountMismatch       Status = "AMOUNT_MISMATCH"
	StatusDuplicateDBReference Status = "DUPLICATE_DB_REFERENCE"
	StatusMultiProperty        Status = "MULTI_PROPERTY_REFERENCE"
	StatusMissingInDB          Status = "MISSING_IN_DB"
	StatusMissingInCSV         Status = "MISSING_IN_CSV"
)

// Sentinel group labels for rows that cannot be attributed to a single
// property.
const (
	GroupUnmatched     = "Unmatched"
	GroupCrossProperty = "Cross-Property Issue"
)

// AmountTolerance is the absolute difference below which a stored
// amount and a ledger net are considered to agree.
var AmountTolerance = decimal.NewFromFloat(0.01)

// Predicate decides whether a stored reference is matched by a ledger
// reference. Containment is the default: platform exports often strip
// or add prefixes around the locally stored reference.
type Predicate func(storedRef, ledgerRef string) bool

func MatchExact(storedRef, ledgerRef string) bool {
	return storedRef == ledgerRef
}

func MatchPrefix(storedRef, ledgerRef string) bool {
	return strings.HasPrefix(storedRef, ledgerRef)
}

func MatchContains(storedRef, ledgerRef string) bool {
	return strings.Contains(storedRef, ledgerRef)
}

// Row is one line of the reconciliation output. Ledger is nil for
// MISSING_IN_CSV rows; Bookings is empty for MISSING_IN_DB rows.
type Row struct {
	PropertyLabel string           `json:"property"`
	Reference     string           `json:"reference"`
	GuestName     string           `json:"guest_name,omitempty"`
	Ledger        *ledger.Row      `json:"ledger,omitempty"`
	Bookings      []models.Booking `json:"bookings,omitempty"`
	Status        Status           `json:"status"`
	CSVNet        decimal.Decimal  `json:"csv_net"`
	DBTotal       decimal.Decimal  `json:"db_total"`
}

// PropertyGroup aggregates rows for one property label. SafeTotal is
// the only figure presentable as reconciled revenue.
type PropertyGroup struct {
	Label     string          `json:"label"`
	Rows      []Row           `json:"rows"`
	CSVTotal  decimal.Decimal `json:"csv_total"`
	DBTotal   decimal.Decimal `json:"db_total"`
	SafeTotal decimal.Decimal `json:"safe_total"`
}

type Result struct {
	Rows   []Row           `json:"rows"`
	Groups []PropertyGroup `json:"groups"`
}

// Reconcile joins ledger rows against stored bookings and classifies
// every pairing. It is pure: the same inputs always yield the same
// output, and no booking or ledger row is silently dropped. Every
// ledger row yields exactly one Row, and every booking left untouched
// yields one MISSING_IN_CSV Row.
func Reconcile(bookings []models.Booking, rows []ledger.Row, pred Predicate) *Result {
	if pred == nil {
		pred = MatchContains
	}

	touched := make([]bool, len(bookings))
	result := &Result{}

	for i := range rows {
		lr := rows[i]

		var matched []models.Booking
		for j := range bookings {
			if pred(bookings[j].Reference, lr.Reference) {
				matched = append(matched, bookings[j])
				touched[j] = true
			}
		}

		row := Row{
			Reference: lr.Reference,
			GuestName: lr.GuestName,
			Ledger:    &lr,
			Bookings:  matched,
			CSVNet:    lr.Net,
			DBTotal:   storedTotal(matched),
		}
		row.Status = classify(lr, matched)
		row.PropertyLabel = groupLabel(row.Status, matched)

		result.Rows = append(result.Rows, row)
	}

	for j := range bookings {
		if touched[j] {
			continue
		}
		b := bookings[j]
		result.Rows = append(result.Rows, Row{
			PropertyLabel: b.PropertyLabel(),
			Reference:     b.Reference,
			GuestName:     b.GuestName,
			Bookings:      []models.Booking{b},
			Status:        StatusMissingInCSV,
			CSVNet:        decimal.Zero,
			DBTotal:       decimal.NewFromFloat(b.PaidAmount()),
		})
	}

	result.Groups = groupByProperty(result.Rows)
	return result
}

// classify applies the precedence order: missing, cross-property,
// duplicate, amount mismatch, OK. Cross-property wins over everything
// with a match because it signals a data-integrity problem rather than
// a timing mismatch.
func classify(lr ledger.Row, matched []models.Booking) Status {
	if len(matched) == 0 {
		return StatusMissingInDB
	}
	if distinctProperties(matched) > 1 {
		return StatusMultiProperty
	}
	if len(matched) > 1 {
		return StatusDuplicateDBReference
	}
	stored := decimal.NewFromFloat(matched[0].PaidAmount())
	if stored.Sub(lr.Net).Abs().GreaterThan(AmountTolerance) {
		return StatusAmountMismatch
	}
	return StatusOK
}

func distinctProperties(bookings []models.Booking) int {
	seen := make(map[string]struct{}, len(bookings))
	for i := range bookings {
		seen[bookings[i].PropertyID.String()] = struct{}{}
	}
	return len(seen)
}

func storedTotal(bookings []models.Booking) decimal.Decimal {
	total := decimal.Zero
	for i := range bookings {
		total = total.Add(decimal.NewFromFloat(bookings[i].PaidAmount()))
	}
	return total
}

func groupLabel(status Status, matched []models.Booking) string {
	switch status {
	case StatusMissingInDB:
		return GroupUnmatched
	case StatusMultiProperty:
		return GroupCrossProperty
	default:
		return matched[0].PropertyLabel()
	}
}

// groupByProperty folds rows into per-property groups. Properties sort
// alphabetically; the two sentinel groups always come last.
func groupByProperty(rows []Row) []PropertyGroup {
	byLabel := make(map[string]*PropertyGroup)
	for _, row := range rows {
		g, ok := byLabel[row.PropertyLabel]
		if !ok {
			g = &PropertyGroup{
				Label:     row.PropertyLabel,
				CSVTotal:  decimal.Zero,
				DBTotal:   decimal.Zero,
				SafeTotal: decimal.Zero,
			}
			byLabel[row.PropertyLabel] = g
		}
		g.Rows = append(g.Rows, row)
		g.CSVTotal = g.CSVTotal.Add(row.CSVNet)
		g.DBTotal = g.DBTotal.Add(row.DBTotal)
		if row.Status == StatusOK {
			g.SafeTotal = g.SafeTotal.Add(row.CSVNet)
		}
	}

	groups := make([]PropertyGroup, 0, len(byLabel))
	for _, g := range byLabel {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		si, sj := sentinelRank(groups[i].Label), sentinelRank(groups[j].Label)
		if si != sj {
			return si < sj
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

func sentinelRank(label string) int {
	switch label {
	case GroupUnmatched:
		return 1
	case GroupCrossProperty:
		return 2
	default:
		return 0
	}
}
