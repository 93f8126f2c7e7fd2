package sqlite

import (
	"context"
	"testing"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestDraftLifecycle(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	d := &domain.Draft{
		Schedule: domain.ScheduleC,
		Title:    "Consulting 2025",
		Payload:  []byte(`{"name":"Jane Q"}`),
	}
	if err := repo.SaveDraft(ctx, d); err != nil {
		t.Fatal(err)
	}
	if d.ID == 0 {
		t.Fatal("insert did not assign an id")
	}

	got, err := repo.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != d.Title || string(got.Payload) != string(d.Payload) {
		t.Errorf("got %+v", got)
	}
	if got.Schedule != domain.ScheduleC {
		t.Errorf("schedule = %v", got.Schedule)
	}

	// Saving with a non-zero ID overwrites in place.
	d.Title = "Consulting 2025 v2"
	d.Payload = []byte(`{"name":"Jane Q","grossReceipts":"1000"}`)
	if err := repo.SaveDraft(ctx, d); err != nil {
		t.Fatal(err)
	}
	got, err = repo.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Consulting 2025 v2" {
		t.Errorf("title after update = %q", got.Title)
	}

	if err := repo.DeleteDraft(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetDraft(ctx, d.ID); err == nil {
		t.Error("want error for deleted draft")
	}
}

func TestListDraftsFiltersBySchedule(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	c := &domain.Draft{Schedule: domain.ScheduleC, Title: "c draft", Payload: []byte(`{}`)}
	e := &domain.Draft{Schedule: domain.ScheduleE, Title: "e draft", Payload: []byte(`{}`)}
	if err := repo.SaveDraft(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveDraft(ctx, e); err != nil {
		t.Fatal(err)
	}

	list, err := repo.ListDrafts(ctx, domain.ScheduleC)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Title != "c draft" {
		t.Errorf("list = %+v", list)
	}
	// List rows never carry payloads.
	if list[0].Payload != nil {
		t.Errorf("payload leaked into listing: %q", list[0].Payload)
	}
}
