// Package schedform implements the form engine behind the Schedule C and
// Schedule E screens: static field schemas, the mutable per-screen form
// state, validation, and derived totals. Field names match the generation
// service's JSON contract exactly and must not be renamed.
package schedform

import (
	"fmt"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

type Kind int

const (
	Text   Kind = iota
	Amount      // decimal numeral kept as raw text; parsed on demand
	Flag        // boolean
	Choice      // one of Field.Choices
	Date        // ISO date string or empty
)

type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Default  string // Flag fields store "true"/"false"
	Choices  []string
}

// Schema is the fixed, order-stable field set of one schedule type.
// No fields are added or removed at runtime.
type Schema struct {
	Schedule domain.ScheduleType
	Fields   []Field
	index    map[string]int
}

// ForSchedule returns the schema for a schedule type.
func ForSchedule(t domain.ScheduleType) *Schema {
	switch t {
	case domain.ScheduleC:
		return scheduleC
	case domain.ScheduleE:
		return scheduleE
	default:
		panic(fmt.Sprintf("schedform: unknown schedule type %q", t))
	}
}

// Lookup returns the field definition for name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// mustLookup panics on unknown names; those are programmer bugs, not user
// input errors.
func (s *Schema) mustLookup(name string) Field {
	f, ok := s.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("schedform: field %q not in %s schema", name, s.Schedule))
	}
	return f
}

func newSchema(t domain.ScheduleType, fields []Field) *Schema {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := idx[f.Name]; dup {
			panic(fmt.Sprintf("schedform: duplicate field %q in %s schema", f.Name, t))
		}
		idx[f.Name] = i
	}
	return &Schema{Schedule: t, Fields: fields, index: idx}
}

func text(name, label string) Field     { return Field{Name: name, Label: label, Kind: Text} }
func amount(name, label string) Field   { return Field{Name: name, Label: label, Kind: Amount} }
func date(name, label string) Field     { return Field{Name: name, Label: label, Kind: Date} }
func flag(name, label string, def bool) Field {
	d := "false"
	if def {
		d = "true"
	}
	return Field{Name: name, Label: label, Kind: Flag, Default: d}
}
func choice(name, label, def string, choices ...string) Field {
	return Field{Name: name, Label: label, Kind: Choice, Default: def, Choices: choices}
}
func required(f Field) Field {
	f.Required = true
	return f
}

// ScheduleCExpenses lists the 23 named Part II expense fields in form order.
// Shared by the totals calculator and the summary report.
var ScheduleCExpenses = []Field{
	amount("advertising", "Advertising"),
	amount("carTruckExpenses", "Car and truck expenses"),
	amount("commissionsAndFees", "Commissions and fees"),
	amount("contractLabor", "Contract labor"),
	amount("depletion", "Depletion"),
	amount("depreciation", "Depreciation"),
	amount("employeeBenefitPrograms", "Employee benefit programs"),
	amount("insurance", "Insurance (other than health)"),
	amount("interestMortgage", "Interest (mortgage)"),
	amount("interestOther", "Interest (other)"),
	amount("legalProfessionalServices", "Legal and professional services"),
	amount("officeExpense", "Office expense"),
	amount("pensionProfitSharing", "Pension and profit-sharing plans"),
	amount("rentLeaseVehicles", "Rent or lease (vehicles)"),
	amount("rentLeaseMachinery", "Rent or lease (machinery and equipment)"),
	amount("rentLeaseOther", "Rent or lease (other)"),
	amount("repairsMaintenance", "Repairs and maintenance"),
	amount("supplies", "Supplies"),
	amount("taxesLicenses", "Taxes and licenses"),
	amount("travel", "Travel"),
	amount("deductibleMeals", "Deductible meals"),
	amount("utilities", "Utilities"),
	amount("wages", "Wages"),
}

// OtherExpenseSlots is the fixed number of free-form expense pairs on
// Schedule C.
const OtherExpenseSlots = 10

// OtherExpenseDesc and OtherExpenseAmount build the field names for the
// i-th (1-based) free-form expense pair.
func OtherExpenseDesc(i int) string   { return fmt.Sprintf("otherExpense%dDesc", i) }
func OtherExpenseAmount(i int) string { return fmt.Sprintf("otherExpense%dAmount", i) }

var scheduleC = newSchema(domain.ScheduleC, scheduleCFields())

func scheduleCFields() []Field {
	fields := []Field{
		// Personal information
		required(text("name", "Name")),
		required(text("ssn", "SSN")),

		// Business information
		required(text("principalBusinessActivity", "Principal business activity")),
		required(text("businessCode", "Business code")),
		text("businessName", "Business name"),
		text("businessAddress", "Business address"),
		text("city", "City"),
		text("state", "State"),
		text("zipCode", "ZIP code"),
		choice("accountingMethod", "Accounting method", "cash", "cash", "accrual", "other"),
		flag("materialParticipation", "Material participation", true),
		flag("startedBusiness", "Started or acquired this business", false),
		date("businessStartDate", "Business start date"),
		text("additionalBusinessInfo", "Additional business info"),

		// Part I income
		required(amount("grossReceipts", "Gross receipts")),
		amount("returnsAllowances", "Returns and allowances"),
		amount("otherIncome", "Other income"),
	}

	fields = append(fields, ScheduleCExpenses...)

	// Part IV vehicle information, relevant only when vehicleUsed is set.
	fields = append(fields,
		flag("vehicleUsed", "Vehicle used for business", false),
		text("vehicleMakeModel", "Vehicle make and model"),
		text("vehicleYear", "Vehicle year"),
		amount("totalMiles", "Total miles"),
		amount("businessMiles", "Business miles"),
		amount("commutingMiles", "Commuting miles"),
		amount("otherPersonalMiles", "Other personal miles"),
		text("availableForPersonalUse", "Available for personal use"),
		text("evidenceToSupportDeduction", "Evidence to support deduction"),
		text("evidenceWritten", "Evidence written"),
	)

	// Part V other expenses, ten description/amount pairs.
	for i := 1; i <= OtherExpenseSlots; i++ {
		fields = append(fields,
			text(OtherExpenseDesc(i), fmt.Sprintf("Description %d", i)),
			amount(OtherExpenseAmount(i), fmt.Sprintf("Amount %d", i)),
		)
	}
	return fields
}

// PropertyCount is the fixed number of property blocks on Schedule E.
const PropertyCount = 3

// ScheduleEExpenseSuffixes lists the per-property expense field suffixes in
// form order; the full field name is "property<N><Suffix>".
var ScheduleEExpenseSuffixes = []struct {
	Suffix string
	Label  string
}{
	{"Advertising", "Advertising"},
	{"AutoTravel", "Auto and travel"},
	{"Cleaning", "Cleaning and maintenance"},
	{"Commissions", "Commissions"},
	{"Insurance", "Insurance"},
	{"Legal", "Legal and other professional fees"},
	{"Management", "Management fees"},
	{"MortgageInterest", "Mortgage interest"},
	{"OtherInterest", "Other interest"},
	{"Repairs", "Repairs"},
	{"Supplies", "Supplies"},
	{"Taxes", "Taxes"},
	{"Utilities", "Utilities"},
	{"Depreciation", "Depreciation"},
}

// PropertyField builds the field name for the n-th (1-based) property block.
func PropertyField(n int, suffix string) string {
	return fmt.Sprintf("property%d%s", n, suffix)
}

var scheduleE = newSchema(domain.ScheduleE, scheduleEFields())

func scheduleEFields() []Field {
	fields := []Field{
		required(text("name", "Name")),
		required(text("ssn", "SSN")),
	}
	for n := 1; n <= PropertyCount; n++ {
		p := func(suffix string) string { return PropertyField(n, suffix) }
		fields = append(fields,
			choice(p("Type"), fmt.Sprintf("Property %d type", n), "",
				"residential", "commercial", "vacation", "other"),
			text(p("Address"), fmt.Sprintf("Property %d address", n)),
			text(p("City"), fmt.Sprintf("Property %d city", n)),
			text(p("State"), fmt.Sprintf("Property %d state", n)),
			text(p("ZipCode"), fmt.Sprintf("Property %d ZIP code", n)),
			amount(p("RentalDays"), "Fair rental days"),
			amount(p("PersonalDays"), "Personal use days"),
			amount(p("RentalIncome"), "Rents received"),
			amount(p("Royalties"), "Royalties received"),
			amount(p("OtherIncome"), "Other income"),
		)
		for _, e := range ScheduleEExpenseSuffixes {
			fields = append(fields, amount(p(e.Suffix), e.Label))
		}
	}
	return fields
}
