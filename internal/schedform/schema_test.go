package schedform

import (
	"testing"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

func TestScheduleCSchemaShape(t *testing.T) {
	s := ForSchedule(domain.ScheduleC)
	if got, want := len(s.Fields), 70; got != want {
		t.Fatalf("field count = %d, want %d", got, want)
	}

	wantRequired := []string{"name", "ssn", "principalBusinessActivity", "businessCode", "grossReceipts"}
	var gotRequired []string
	for _, f := range s.Fields {
		if f.Required {
			gotRequired = append(gotRequired, f.Name)
		}
	}
	if len(gotRequired) != len(wantRequired) {
		t.Fatalf("required fields = %v, want %v", gotRequired, wantRequired)
	}
	for i := range wantRequired {
		if gotRequired[i] != wantRequired[i] {
			t.Errorf("required[%d] = %q, want %q", i, gotRequired[i], wantRequired[i])
		}
	}

	am, ok := s.Lookup("accountingMethod")
	if !ok || am.Kind != Choice || am.Default != "cash" {
		t.Errorf("accountingMethod = %+v, want Choice defaulting to cash", am)
	}
	mp, ok := s.Lookup("materialParticipation")
	if !ok || mp.Kind != Flag || mp.Default != "true" {
		t.Errorf("materialParticipation = %+v, want Flag defaulting to true", mp)
	}
	for i := 1; i <= OtherExpenseSlots; i++ {
		if _, ok := s.Lookup(OtherExpenseAmount(i)); !ok {
			t.Errorf("missing other expense slot %d", i)
		}
	}
}

func TestScheduleESchemaShape(t *testing.T) {
	s := ForSchedule(domain.ScheduleE)
	if got, want := len(s.Fields), 74; got != want {
		t.Fatalf("field count = %d, want %d", got, want)
	}
	for n := 1; n <= PropertyCount; n++ {
		if _, ok := s.Lookup(PropertyField(n, "Type")); !ok {
			t.Errorf("property %d missing Type", n)
		}
		for _, e := range ScheduleEExpenseSuffixes {
			if _, ok := s.Lookup(PropertyField(n, e.Suffix)); !ok {
				t.Errorf("property %d missing expense %s", n, e.Suffix)
			}
		}
	}
	// Only the taxpayer identity is required; property presence is a
	// cross-field rule handled by Validate.
	for _, f := range s.Fields {
		switch f.Name {
		case "name", "ssn":
			if !f.Required {
				t.Errorf("%s should be required", f.Name)
			}
		default:
			if f.Required {
				t.Errorf("%s should not be required", f.Name)
			}
		}
	}
}

func TestLookupUnknownField(t *testing.T) {
	if _, ok := ForSchedule(domain.ScheduleC).Lookup("nope"); ok {
		t.Fatal("Lookup of unknown field reported ok")
	}
}
