package schedform

import (
	"math"
	"strconv"
	"strings"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

// Validation messages. These are shown inline next to fields and are also
// part of the submit contract, so their wording is fixed.
const (
	msgBadAmount   = "Please enter a valid amount"
	msgSSNDigits   = "SSN must be 9 digits"
	msgNeedOneProp = "At least one property is required"
	msgBadChoice   = "Please select a valid option"
)

// Validate runs the full rule set over the state and returns the error map.
// Pure: the state is not mutated; callers decide what to do with the result.
// An empty map is the precondition for submission.
func Validate(st *State) map[string]string {
	errs := make(map[string]string)

	for _, f := range st.schema.Fields {
		v := st.values[f.Name]
		if f.Required && strings.TrimSpace(v) == "" {
			errs[f.Name] = f.Label + " is required"
			continue
		}
		if f.Kind == Amount && v != "" && !validAmount(v) {
			errs[f.Name] = msgBadAmount
		}
		// The select UI constrains choices, but a direct POST can carry
		// anything; empty means unset and is handled by the required rule.
		if f.Kind == Choice && v != "" && !validChoice(f, v) {
			errs[f.Name] = msgBadChoice
		}
	}

	if st.schema.Schedule == domain.ScheduleE {
		validateScheduleE(st, errs)
	}
	return errs
}

func validateScheduleE(st *State, errs map[string]string) {
	// A present-but-malformed SSN gets the digit-count message; the
	// required rule already covers the empty case.
	if ssn := st.values["ssn"]; strings.TrimSpace(ssn) != "" {
		if len(digitsOf(ssn)) != 9 {
			errs["ssn"] = msgSSNDigits
		}
	}

	// At least one property block must carry data: a type, an address, or
	// rental income on any of the three.
	for n := 1; n <= PropertyCount; n++ {
		if st.values[PropertyField(n, "Type")] != "" ||
			st.values[PropertyField(n, "Address")] != "" ||
			st.values[PropertyField(n, "RentalIncome")] != "" {
			return
		}
	}
	errs[PropertyField(1, "Type")] = msgNeedOneProp
}

// validAmount is the strict gate: the raw string must parse as a
// non-negative number. Whitespace-only input counts as unset. This is
// deliberately a separate pass from the lenient totals parse in totals.go;
// totals are live best-effort display, validation is authoritative.
func validAmount(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return false
	}
	return f >= 0
}

func validChoice(f Field, v string) bool {
	for _, c := range f.Choices {
		if v == c {
			return true
		}
	}
	return false
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
