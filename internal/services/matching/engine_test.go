package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-management-backend/internal/ledger"
	"property-management-backend/internal/models"
)

var (
	beachHouseID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	hillVillaID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func booking(property uuid.UUID, propertyName, ref string, amount float64, expected *float64) models.Booking {
	return models.Booking{
		ID:              uuid.New(),
		GuestName:       "Guest",
		Reference:       ref,
		PropertyID:      property,
		Platform:        models.PlatformBookingCom,
		Amount:          amount,
		ExpectedPayment: expected,
		Status:          models.StatusCheckedOut,
		Property:        &models.Property{ID: property, Name: propertyName},
	}
}

func ledgerRow(ref string, net float64) ledger.Row {
	return ledger.Row{Reference: ref, Net: decimal.NewFromFloat(net)}
}

func expectedPayment(v float64) *float64 { return &v }

func groupByLabel(t *testing.T, res *Result, label string) PropertyGroup {
	t.Helper()
	for _, g := range res.Groups {
		if g.Label == label {
			return g
		}
	}
	t.Fatalf("no group with label %q", label)
	return PropertyGroup{}
}

func TestReconcileContainmentMatchIsOK(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001-A", 170.00, expectedPayment(150.00)),
	}
	rows := []ledger.Row{ledgerRow("1001", 150.00)}

	res := Reconcile(bookings, rows, nil)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, StatusOK, res.Rows[0].Status)
	assert.Equal(t, "Beach House", res.Rows[0].PropertyLabel)

	g := groupByLabel(t, res, "Beach House")
	assert.True(t, g.SafeTotal.Equal(decimal.NewFromFloat(150.00)), "safeTotal = %s", g.SafeTotal)
}

func TestReconcileAmountMismatch(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001-A", 170.00, expectedPayment(150.00)),
	}
	rows := []ledger.Row{ledgerRow("1001", 140.00)}

	res := Reconcile(bookings, rows, nil)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, StatusAmountMismatch, res.Rows[0].Status)

	g := groupByLabel(t, res, "Beach House")
	assert.True(t, g.SafeTotal.IsZero(), "mismatch must be excluded from safeTotal")
	assert.True(t, g.CSVTotal.Equal(decimal.NewFromFloat(140.00)))
	assert.True(t, g.DBTotal.Equal(decimal.NewFromFloat(150.00)))
}

func TestReconcileToleranceBoundary(t *testing.T) {
	cases := []struct {
		name   string
		net    float64
		status Status
	}{
		{"exact", 150.00, StatusOK},
		{"within tolerance", 150.01, StatusOK},
		{"within tolerance below", 149.99, StatusOK},
		{"just outside", 150.02, StatusAmountMismatch},
		{"outside below", 149.98, StatusAmountMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bookings := []models.Booking{
				booking(beachHouseID, "Beach House", "REF-9", 150.00, nil),
			}
			res := Reconcile(bookings, []ledger.Row{ledgerRow("REF-9", tc.net)}, nil)
			require.Len(t, res.Rows, 1)
			assert.Equal(t, tc.status, res.Rows[0].Status)
		})
	}
}

func TestReconcileComparesExpectedPaymentWhenPresent(t *testing.T) {
	// Collected amount differs, expected payout agrees: OK.
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "AGD-77", 200.00, expectedPayment(185.50)),
	}
	res := Reconcile(bookings, []ledger.Row{ledgerRow("AGD-77", 185.50)}, nil)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, StatusOK, res.Rows[0].Status)
}

func TestReconcileMultiPropertyWinsEvenWhenAmountsAgree(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001-A", 150.00, nil),
		booking(hillVillaID, "Hill Villa", "XX-1001-B", 150.00, nil),
	}
	rows := []ledger.Row{ledgerRow("1001", 150.00)}

	res := Reconcile(bookings, rows, nil)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, StatusMultiProperty, res.Rows[0].Status)
	assert.Equal(t, GroupCrossProperty, res.Rows[0].PropertyLabel)

	// Excluded from every property's safe total.
	g := groupByLabel(t, res, GroupCrossProperty)
	assert.True(t, g.SafeTotal.IsZero())
	// Sentinel group sorts last.
	assert.Equal(t, GroupCrossProperty, res.Groups[len(res.Groups)-1].Label)
}

func TestReconcileDuplicateWithinOneProperty(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001-A", 150.00, nil),
		booking(beachHouseID, "Beach House", "BDC-1001-B", 150.00, nil),
	}
	rows := []ledger.Row{ledgerRow("1001", 150.00)}

	res := Reconcile(bookings, rows, nil)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, StatusDuplicateDBReference, res.Rows[0].Status)
	assert.Equal(t, "Beach House", res.Rows[0].PropertyLabel)
	assert.True(t, res.Rows[0].DBTotal.Equal(decimal.NewFromFloat(300.00)))
}

func TestReconcileMissingInDB(t *testing.T) {
	res := Reconcile(nil, []ledger.Row{ledgerRow("NOPE-1", 99.00)}, nil)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, StatusMissingInDB, res.Rows[0].Status)
	assert.Equal(t, GroupUnmatched, res.Rows[0].PropertyLabel)

	g := groupByLabel(t, res, GroupUnmatched)
	assert.True(t, g.CSVTotal.Equal(decimal.NewFromFloat(99.00)))
	assert.True(t, g.DBTotal.IsZero())
}

func TestReconcileMissingInCSV(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-2002", 120.00, nil),
	}

	res := Reconcile(bookings, nil, nil)

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, StatusMissingInCSV, row.Status)
	assert.Equal(t, "BDC-2002", row.Reference)
	assert.Nil(t, row.Ledger)

	g := groupByLabel(t, res, "Beach House")
	assert.True(t, g.DBTotal.Equal(decimal.NewFromFloat(120.00)))
	assert.True(t, g.CSVTotal.IsZero())
	assert.True(t, g.SafeTotal.IsZero())
}

func TestReconcileRowCountInvariant(t *testing.T) {
	// 3 ledger rows, 4 stored bookings, 2 of which match.
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001", 150.00, nil),
		booking(beachHouseID, "Beach House", "BDC-1002", 90.00, nil),
		booking(hillVillaID, "Hill Villa", "AGD-3001", 210.00, nil),
		booking(hillVillaID, "Hill Villa", "AGD-3002", 75.00, nil),
	}
	rows := []ledger.Row{
		ledgerRow("1001", 150.00),
		ledgerRow("1002", 95.00),
		ledgerRow("G-404", 10.00),
	}

	res := Reconcile(bookings, rows, nil)

	// |output| = |ledger rows| + |unmatched stored records| = 3 + 2.
	assert.Len(t, res.Rows, 5)

	statuses := map[Status]int{}
	for _, r := range res.Rows {
		statuses[r.Status]++
	}
	assert.Equal(t, 1, statuses[StatusOK])
	assert.Equal(t, 1, statuses[StatusAmountMismatch])
	assert.Equal(t, 1, statuses[StatusMissingInDB])
	assert.Equal(t, 2, statuses[StatusMissingInCSV])
}

func TestReconcileSafeTotalSumsOnlyOKRows(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1", 100.00, nil),
		booking(beachHouseID, "Beach House", "BDC-2", 50.00, nil),
		booking(beachHouseID, "Beach House", "BDC-3", 75.00, nil),
	}
	rows := []ledger.Row{
		ledgerRow("BDC-1", 100.00), // OK
		ledgerRow("BDC-2", 45.00),  // mismatch
		ledgerRow("BDC-3", 75.00),  // OK
	}

	res := Reconcile(bookings, rows, nil)
	g := groupByLabel(t, res, "Beach House")
	assert.True(t, g.SafeTotal.Equal(decimal.NewFromFloat(175.00)), "safeTotal = %s", g.SafeTotal)
}

func TestReconcileIsIdempotent(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001", 150.00, nil),
		booking(hillVillaID, "Hill Villa", "AGD-3001", 210.00, nil),
	}
	rows := []ledger.Row{
		ledgerRow("1001", 150.00),
		ledgerRow("9999", 70.00),
	}

	first := Reconcile(bookings, rows, nil)
	second := Reconcile(bookings, rows, nil)

	assert.Equal(t, first, second)
}

func TestReconcilePredicates(t *testing.T) {
	bookings := []models.Booking{
		booking(beachHouseID, "Beach House", "BDC-1001-A", 150.00, nil),
	}
	rows := []ledger.Row{ledgerRow("1001", 150.00)}

	contains := Reconcile(bookings, rows, MatchContains)
	assert.Equal(t, StatusOK, contains.Rows[0].Status)

	exact := Reconcile(bookings, rows, MatchExact)
	assert.Equal(t, StatusMissingInDB, exact.Rows[0].Status)

	prefix := Reconcile(bookings, rows, MatchPrefix)
	assert.Equal(t, StatusMissingInDB, prefix.Rows[0].Status)

	prefixHit := Reconcile(bookings, []ledger.Row{ledgerRow("BDC-1001", 150.00)}, MatchPrefix)
	assert.Equal(t, StatusOK, prefixHit.Rows[0].Status)
}

func TestReconcileGroupOrdering(t *testing.T) {
	bookings := []models.Booking{
		booking(hillVillaID, "Hill Villa", "AGD-1", 10.00, nil),
		booking(beachHouseID, "Beach House", "BDC-1", 20.00, nil),
		booking(beachHouseID, "Beach House", "SHARED-5", 30.00, nil),
		booking(hillVillaID, "Hill Villa", "SHARED-5X", 30.00, nil),
	}
	rows := []ledger.Row{
		ledgerRow("AGD-1", 10.00),
		ledgerRow("BDC-1", 20.00),
		ledgerRow("SHARED-5", 30.00), // cross-property
		ledgerRow("GHOST-1", 5.00),   // unmatched
	}

	res := Reconcile(bookings, rows, nil)

	labels := make([]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"Beach House", "Hill Villa", GroupUnmatched, GroupCrossProperty}, labels)
}
