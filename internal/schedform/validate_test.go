package schedform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

// validScheduleC fills the minimum that passes validation.
func validScheduleC() *State {
	st := NewState(ForSchedule(domain.ScheduleC))
	st.Set("name", "Jane Q")
	st.Set("ssn", "123456789")
	st.Set("principalBusinessActivity", "Consulting")
	st.Set("businessCode", "541990")
	st.Set("grossReceipts", "1000")
	return st
}

func validScheduleE() *State {
	st := NewState(ForSchedule(domain.ScheduleE))
	st.Set("name", "Jane Q")
	st.Set("ssn", "123456789")
	st.Set(PropertyField(1, "Type"), "residential")
	return st
}

func TestValidateScheduleCRequiredMessages(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	want := map[string]string{
		"name":                      "Name is required",
		"ssn":                       "SSN is required",
		"principalBusinessActivity": "Principal business activity is required",
		"businessCode":              "Business code is required",
		"grossReceipts":             "Gross receipts is required",
	}
	if diff := cmp.Diff(want, Validate(st)); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateScheduleCPasses(t *testing.T) {
	if errs := Validate(validScheduleC()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateWhitespaceRequiredField(t *testing.T) {
	st := validScheduleC()
	st.Set("name", "   ")
	errs := Validate(st)
	if got := errs["name"]; got != "Name is required" {
		t.Errorf("name error = %q", got)
	}
}

func TestValidateAmounts(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"   ", false},
		{"0", false},
		{"1234.56", false},
		{"  250 ", false},
		{"1e3", false},
		{"-50", true},
		{"abc", true},
		{"12.34.56", true},
		{"NaN", true},
	}
	for _, tc := range tests {
		st := validScheduleC()
		st.Set("advertising", tc.value)
		errs := Validate(st)
		got, present := errs["advertising"]
		if present != tc.wantErr {
			t.Errorf("advertising=%q: error present = %v, want %v", tc.value, present, tc.wantErr)
			continue
		}
		if present && got != "Please enter a valid amount" {
			t.Errorf("advertising=%q: message = %q", tc.value, got)
		}
	}
}

func TestValidateRequiredBeatsAmountCheck(t *testing.T) {
	// An empty required amount reports the required message, not the
	// numeric one.
	st := validScheduleC()
	st.Set("grossReceipts", "")
	errs := Validate(st)
	if got := errs["grossReceipts"]; got != "Gross receipts is required" {
		t.Errorf("grossReceipts error = %q", got)
	}
}

func TestValidateScheduleESSNDigits(t *testing.T) {
	st := validScheduleE()
	st.Set("ssn", "12345678") // formatter keeps 8 digits
	errs := Validate(st)
	if got := errs["ssn"]; got != "SSN must be 9 digits" {
		t.Errorf("ssn error = %q", got)
	}

	// Empty SSN reports the required message instead.
	st = validScheduleE()
	st.Set("ssn", "")
	errs = Validate(st)
	if got := errs["ssn"]; got != "SSN is required" {
		t.Errorf("empty ssn error = %q", got)
	}
}

func TestValidateScheduleENeedsOneProperty(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleE))
	st.Set("name", "Jane Q")
	st.Set("ssn", "123456789")
	errs := Validate(st)
	if got := errs[PropertyField(1, "Type")]; got != "At least one property is required" {
		t.Errorf("property error = %q", got)
	}

	// Any of type, address, or rental income on any block satisfies the rule.
	for _, suffix := range []string{"Type", "Address", "RentalIncome"} {
		for n := 1; n <= PropertyCount; n++ {
			st := NewState(ForSchedule(domain.ScheduleE))
			st.Set("name", "Jane Q")
			st.Set("ssn", "123456789")
			value := "x"
			if suffix == "Type" {
				value = "residential"
			} else if suffix == "RentalIncome" {
				value = "100"
			}
			st.Set(PropertyField(n, suffix), value)
			if errs := Validate(st); errs[PropertyField(1, "Type")] != "" {
				t.Errorf("property%d%s set: still flagged: %v", n, suffix, errs)
			}
		}
	}
}

func TestValidateChoiceMembership(t *testing.T) {
	st := validScheduleC()
	st.Set("accountingMethod", "bogus")
	errs := Validate(st)
	if got := errs["accountingMethod"]; got != "Please select a valid option" {
		t.Errorf("accountingMethod error = %q", got)
	}

	for _, v := range []string{"cash", "accrual", "other"} {
		st := validScheduleC()
		st.Set("accountingMethod", v)
		if errs := Validate(st); errs["accountingMethod"] != "" {
			t.Errorf("accountingMethod=%q flagged: %v", v, errs)
		}
	}

	// An empty, non-required choice stays valid: it means unset.
	st = validScheduleE()
	st.Set(PropertyField(2, "Type"), "")
	if errs := Validate(st); errs[PropertyField(2, "Type")] != "" {
		t.Errorf("empty property type flagged: %v", errs)
	}
	st.Set(PropertyField(2, "Type"), "castle")
	if got := Validate(st)[PropertyField(2, "Type")]; got != "Please select a valid option" {
		t.Errorf("property type error = %q", got)
	}
}

func TestValidateDoesNotMutateState(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	Validate(st)
	if st.HasErrors() {
		t.Error("Validate wrote into the state")
	}
}

func TestValidateScheduleENegativeExpense(t *testing.T) {
	st := validScheduleE()
	st.Set(PropertyField(2, "Repairs"), "-10")
	errs := Validate(st)
	if got := errs[PropertyField(2, "Repairs")]; got != "Please enter a valid amount" {
		t.Errorf("repairs error = %q", got)
	}
}
