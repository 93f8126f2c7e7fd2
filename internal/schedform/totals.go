package schedform

import (
	"math"
	"strconv"
	"strings"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

// amountOrZero is the lenient display parse: anything that fails to parse
// reads as zero so the live totals never raise. Negative values pass
// through; the validator flags them, but the running totals keep tracking
// what the user typed. Kept separate from validAmount on purpose.
func amountOrZero(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// CalculateScheduleC recomputes the Schedule C summary from the current
// state. Pure and cheap; call it on every render rather than caching.
func CalculateScheduleC(st *State) domain.ScheduleCTotals {
	grossIncome := amountOrZero(st.Get("grossReceipts")) -
		amountOrZero(st.Get("returnsAllowances")) +
		amountOrZero(st.Get("otherIncome"))

	var expenses float64
	for _, f := range ScheduleCExpenses {
		expenses += amountOrZero(st.Get(f.Name))
	}
	for i := 1; i <= OtherExpenseSlots; i++ {
		expenses += amountOrZero(st.Get(OtherExpenseAmount(i)))
	}

	return domain.ScheduleCTotals{
		GrossIncome:   grossIncome,
		TotalExpenses: expenses,
		NetProfit:     grossIncome - expenses,
	}
}

// CalculateScheduleE recomputes the per-property and overall Schedule E
// summary. Rental/personal day counts are numeric inputs but never totaled.
func CalculateScheduleE(st *State) domain.ScheduleETotals {
	var t domain.ScheduleETotals
	for n := 1; n <= PropertyCount; n++ {
		income := amountOrZero(st.Get(PropertyField(n, "RentalIncome"))) +
			amountOrZero(st.Get(PropertyField(n, "Royalties"))) +
			amountOrZero(st.Get(PropertyField(n, "OtherIncome")))

		var expenses float64
		for _, e := range ScheduleEExpenseSuffixes {
			expenses += amountOrZero(st.Get(PropertyField(n, e.Suffix)))
		}

		t.Properties[n-1] = domain.PropertyTotals{Income: income, Expenses: expenses}
		t.TotalIncome += income
		t.TotalExpenses += expenses
	}
	t.NetIncome = t.TotalIncome - t.TotalExpenses
	return t
}
