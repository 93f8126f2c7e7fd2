// Package pdf draws a human-readable draft summary of the current form:
// identity block, income/expense table, and derived totals. It is a local
// stand-in for when the external generation service or its official form
// template is unavailable; the real filled form always comes from the
// service.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/taxdesk/schedule-generator/internal/domain"
	"github.com/taxdesk/schedule-generator/internal/schedform"
)

// WriteSummary renders the draft summary for the given form state to w.
func WriteSummary(st *schedform.State, w io.Writer) error {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(18, 18, 18)
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()

	sw := &summary{doc: doc}
	switch st.Schema().Schedule {
	case domain.ScheduleC:
		sw.scheduleC(st)
	case domain.ScheduleE:
		sw.scheduleE(st)
	}

	return doc.Output(w)
}

// summary carries the document plus the zebra-stripe row counter.
type summary struct {
	doc   *fpdf.Fpdf
	zebra int
}

func (s *summary) scheduleC(st *schedform.State) {
	s.headerBar("SCHEDULE C  PROFIT OR LOSS FROM BUSINESS - DRAFT SUMMARY")

	s.sectionHeader("PROPRIETOR")
	s.kv("Name", st.Get("name"))
	s.kv("SSN", st.Get("ssn"))
	s.closeSection()

	s.sectionHeader("BUSINESS")
	s.kv("Principal activity", st.Get("principalBusinessActivity"))
	s.kv("Business code", st.Get("businessCode"))
	if st.Get("businessName") != "" {
		s.kv("Business name", st.Get("businessName"))
	}
	if addr := addressLine(st.Get("businessAddress"), st.Get("city"), st.Get("state"), st.Get("zipCode")); addr != "" {
		s.kv("Address", addr)
	}
	s.kv("Accounting method", st.Get("accountingMethod"))
	s.closeSection()

	totals := schedform.CalculateScheduleC(st)

	s.tableHeader("Income / Expense", "Amount")
	s.amountRow("Gross receipts or sales", st.Get("grossReceipts"))
	s.amountRow("Returns and allowances", st.Get("returnsAllowances"))
	s.amountRow("Other income", st.Get("otherIncome"))
	s.totalRow("Gross income", totals.GrossIncome)

	for _, f := range schedform.ScheduleCExpenses {
		if st.Get(f.Name) != "" {
			s.amountRow(f.Label, st.Get(f.Name))
		}
	}
	for i := 1; i <= schedform.OtherExpenseSlots; i++ {
		desc := st.Get(schedform.OtherExpenseDesc(i))
		amt := st.Get(schedform.OtherExpenseAmount(i))
		if desc == "" && amt == "" {
			continue
		}
		if desc == "" {
			desc = fmt.Sprintf("Other expense %d", i)
		}
		s.amountRow(desc, amt)
	}
	s.totalRow("Total expenses", totals.TotalExpenses)
	s.totalRow("Net profit (loss)", totals.NetProfit)

	s.footer("Schedule C draft")
}

func (s *summary) scheduleE(st *schedform.State) {
	s.headerBar("SCHEDULE E  SUPPLEMENTAL INCOME AND LOSS - DRAFT SUMMARY")

	s.sectionHeader("TAXPAYER")
	s.kv("Name", st.Get("name"))
	s.kv("SSN", st.Get("ssn"))
	s.closeSection()

	totals := schedform.CalculateScheduleE(st)

	for n := 1; n <= schedform.PropertyCount; n++ {
		if emptyProperty(st, n) {
			continue
		}
		s.sectionHeader(fmt.Sprintf("PROPERTY %d", n))
		if t := st.Get(schedform.PropertyField(n, "Type")); t != "" {
			s.kv("Type", t)
		}
		if addr := addressLine(
			st.Get(schedform.PropertyField(n, "Address")),
			st.Get(schedform.PropertyField(n, "City")),
			st.Get(schedform.PropertyField(n, "State")),
			st.Get(schedform.PropertyField(n, "ZipCode")),
		); addr != "" {
			s.kv("Address", addr)
		}
		s.closeSection()

		s.tableHeader("Income / Expense", "Amount")
		s.amountRow("Rents received", st.Get(schedform.PropertyField(n, "RentalIncome")))
		s.amountRow("Royalties received", st.Get(schedform.PropertyField(n, "Royalties")))
		s.amountRow("Other income", st.Get(schedform.PropertyField(n, "OtherIncome")))
		for _, e := range schedform.ScheduleEExpenseSuffixes {
			if v := st.Get(schedform.PropertyField(n, e.Suffix)); v != "" {
				s.amountRow(e.Label, v)
			}
		}
		pt := totals.Properties[n-1]
		s.totalRow("Property income", pt.Income)
		s.totalRow("Property expenses", pt.Expenses)
	}

	s.tableHeader("Overall", "Amount")
	s.totalRow("Total income", totals.TotalIncome)
	s.totalRow("Total expenses", totals.TotalExpenses)
	s.totalRow("Net income (loss)", totals.NetIncome)

	s.footer("Schedule E draft")
}

func emptyProperty(st *schedform.State, n int) bool {
	return st.Get(schedform.PropertyField(n, "Type")) == "" &&
		st.Get(schedform.PropertyField(n, "Address")) == "" &&
		st.Get(schedform.PropertyField(n, "RentalIncome")) == ""
}

// ── drawing helpers ──────────────────────────────────────────────────────────

func (s *summary) contentWidth() float64 {
	pageW, _ := s.doc.GetPageSize()
	marginL, _, marginR, _ := s.doc.GetMargins()
	return pageW - marginL - marginR
}

func (s *summary) headerBar(title string) {
	w := s.contentWidth()
	marginL, marginT, _, _ := s.doc.GetMargins()
	s.doc.SetFillColor(30, 30, 30)
	s.doc.Rect(marginL, marginT, w, 10, "F")
	s.doc.SetTextColor(255, 255, 255)
	s.doc.SetFont("Helvetica", "B", 11)
	s.doc.SetXY(marginL+2, marginT+1.5)
	s.doc.CellFormat(w-4, 7, title, "", 1, "L", false, 0, "")
	s.doc.SetTextColor(0, 0, 0)
	s.doc.SetY(marginT + 13)
}

func (s *summary) sectionHeader(title string) {
	s.doc.SetFillColor(240, 240, 240)
	s.doc.SetFont("Helvetica", "B", 8)
	s.doc.CellFormat(s.contentWidth(), 5.5, title, "LRT", 1, "L", true, 0, "")
}

func (s *summary) kv(label, value string) {
	w := s.contentWidth()
	s.doc.SetFont("Helvetica", "", 9)
	s.doc.CellFormat(w*0.3, 5.5, label+":", "L", 0, "L", false, 0, "")
	s.doc.CellFormat(w*0.7, 5.5, value, "R", 1, "L", false, 0, "")
}

func (s *summary) closeSection() {
	s.doc.CellFormat(s.contentWidth(), 0, "", "LB", 1, "L", false, 0, "")
	s.doc.Ln(3)
}

func (s *summary) tableHeader(left, right string) {
	w := s.contentWidth()
	s.doc.SetFillColor(30, 30, 30)
	s.doc.SetTextColor(255, 255, 255)
	s.doc.SetFont("Helvetica", "B", 8.5)
	s.doc.CellFormat(w*0.65, 7, left, "1", 0, "L", true, 0, "")
	s.doc.CellFormat(w*0.35, 7, right, "1", 1, "C", true, 0, "")
	s.doc.SetTextColor(0, 0, 0)
	s.zebra = 0
}

func (s *summary) amountRow(label, raw string) {
	w := s.contentWidth()
	if s.zebra%2 == 0 {
		s.doc.SetFillColor(250, 250, 250)
	} else {
		s.doc.SetFillColor(255, 255, 255)
	}
	s.zebra++
	s.doc.SetFont("Helvetica", "", 8.5)
	s.doc.CellFormat(w*0.65, 6.5, label, "1", 0, "L", true, 0, "")
	s.doc.CellFormat(w*0.35, 6.5, displayAmount(raw), "1", 1, "R", true, 0, "")
}

func (s *summary) totalRow(label string, v float64) {
	w := s.contentWidth()
	s.doc.SetFillColor(220, 240, 220)
	s.doc.SetFont("Helvetica", "B", 8.5)
	s.doc.CellFormat(w*0.65, 6.5, label, "1", 0, "L", true, 0, "")
	s.doc.CellFormat(w*0.35, 6.5, fmt.Sprintf("$%.2f", v), "1", 1, "R", true, 0, "")
}

func (s *summary) footer(tag string) {
	_, pageH := s.doc.GetPageSize()
	marginL, _, _, marginB := s.doc.GetMargins()
	w := s.contentWidth()
	s.doc.SetXY(marginL, pageH-marginB-6)
	s.doc.SetFont("Helvetica", "I", 7.5)
	s.doc.SetTextColor(130, 130, 130)
	s.doc.CellFormat(w/2, 5, "Draft summary - not for filing", "", 0, "L", false, 0, "")
	s.doc.CellFormat(w/2, 5, tag, "", 0, "R", false, 0, "")
	s.doc.SetTextColor(0, 0, 0)
}

// displayAmount shows the raw user text as money when it parses, or the raw
// text itself when it doesn't; the summary mirrors the live screen, not
// the validator.
func displayAmount(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "$0.00"
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return fmt.Sprintf("$%.2f", f)
}

// addressLine joins address parts into "street, city, ST zip", skipping
// empty pieces.
func addressLine(street, city, state, zip string) string {
	var parts []string
	if street != "" {
		parts = append(parts, street)
	}
	if city != "" {
		parts = append(parts, city)
	}
	tail := strings.TrimSpace(state + " " + zip)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}
