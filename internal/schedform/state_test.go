package schedform

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

func TestFormatSSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "123-4"},
		{"12345", "123-45"},
		{"123456", "123-45-6"},
		{"123456789", "123-45-6789"},
		{"1234567890", "123-45-6789"}, // excess digits dropped
		{"123-45-6789", "123-45-6789"},
		{"12a-3b4c56", "123-456"},
		{" 987 65 4321 ", "987-65-4321"},
	}
	for _, tc := range tests {
		if got := FormatSSN(tc.in); got != tc.want {
			t.Errorf("FormatSSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
		// Formatting is idempotent.
		if got := FormatSSN(tc.want); got != tc.want {
			t.Errorf("FormatSSN(%q) = %q, not idempotent", tc.want, got)
		}
	}
}

func TestNewStateAppliesDefaults(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	if got := st.Get("accountingMethod"); got != "cash" {
		t.Errorf("accountingMethod default = %q, want cash", got)
	}
	if !st.GetFlag("materialParticipation") {
		t.Error("materialParticipation should default to true")
	}
	if st.GetFlag("vehicleUsed") {
		t.Error("vehicleUsed should default to false")
	}
	if got := st.Get("grossReceipts"); got != "" {
		t.Errorf("grossReceipts default = %q, want empty", got)
	}
}

func TestSetFormatsSSNField(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	st.Set("ssn", "123456789")
	if got := st.Get("ssn"); got != "123-45-6789" {
		t.Errorf("ssn = %q, want 123-45-6789", got)
	}
	// Other text fields pass through untouched.
	st.Set("name", "  Jane Q  ")
	if got := st.Get("name"); got != "  Jane Q  " {
		t.Errorf("name = %q, want raw value", got)
	}
}

func TestSetClearsOnlyThatFieldsError(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	st.SetErrors(map[string]string{
		"name": "Name is required",
		"ssn":  "SSN is required",
	})
	st.Set("name", "Jane")
	if got := st.Err("name"); got != "" {
		t.Errorf("name error = %q, want cleared", got)
	}
	if got := st.Err("ssn"); got != "SSN is required" {
		t.Errorf("ssn error = %q, want untouched", got)
	}
	if !st.HasErrors() {
		t.Error("ssn error should still be present")
	}
}

func TestPayloadOrderAndFlags(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	st.Set("name", "Jane Q")
	st.Set("grossReceipts", "1000")
	st.SetFlag("vehicleUsed", true)

	payload, err := st.Payload()
	if err != nil {
		t.Fatal(err)
	}
	s := string(payload)

	// Keys appear in schema order and flags serialize as bare booleans.
	if !strings.HasPrefix(s, `{"name":"Jane Q","ssn":""`) {
		t.Errorf("payload does not start in schema order: %s", s[:60])
	}
	if !strings.Contains(s, `"vehicleUsed":true`) {
		t.Error("vehicleUsed should serialize as a boolean")
	}
	if !strings.Contains(s, `"materialParticipation":true`) {
		t.Error("materialParticipation default should serialize as true")
	}
	if !strings.Contains(s, `"startedBusiness":false`) {
		t.Error("startedBusiness should serialize as false")
	}
	if strings.Index(s, `"name"`) > strings.Index(s, `"grossReceipts"`) {
		t.Error("name should precede grossReceipts")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleE))
	st.Set("name", "Jane Q")
	st.Set("ssn", "123456789")
	st.Set(PropertyField(1, "Type"), "residential")
	st.Set(PropertyField(1, "RentalIncome"), "2000")

	payload, err := st.Payload()
	if err != nil {
		t.Fatal(err)
	}

	restored := NewState(ForSchedule(domain.ScheduleE))
	if err := restored.LoadPayload(payload); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"name", "ssn", PropertyField(1, "Type"), PropertyField(1, "RentalIncome")} {
		if diff := cmp.Diff(st.Get(name), restored.Get(name)); diff != "" {
			t.Errorf("field %s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadPayloadIgnoresUnknownKeys(t *testing.T) {
	st := NewState(ForSchedule(domain.ScheduleC))
	if err := st.LoadPayload([]byte(`{"name":"Jane","bogus":"x"}`)); err != nil {
		t.Fatal(err)
	}
	if got := st.Get("name"); got != "Jane" {
		t.Errorf("name = %q, want Jane", got)
	}
}
