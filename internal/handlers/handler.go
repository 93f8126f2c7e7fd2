package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/taxdesk/schedule-generator/internal/adapters/pdf"
	"github.com/taxdesk/schedule-generator/internal/domain"
	"github.com/taxdesk/schedule-generator/internal/pipeline"
	"github.com/taxdesk/schedule-generator/internal/ports"
	"github.com/taxdesk/schedule-generator/internal/schedform"
	"github.com/taxdesk/schedule-generator/internal/templates"
)

// probeTimeout bounds the connectivity check done on page load and on the
// Test Connection button so a dead service doesn't hang the render.
const probeTimeout = 3 * time.Second

type Handler struct {
	svc  ports.GenerateService
	repo ports.DraftRepository
	log  *slog.Logger

	mu      sync.Mutex
	screens map[domain.ScheduleType]*screen
}

// screen is one live form: its state plus the pipeline driving submissions.
// It doubles as the pipeline's FileSaver, capturing the PDF so the generate
// handler can stream it back as an attachment.
//
// mu serializes all access to the screen: the form state is a plain map and
// overlapping htmx change-posts would otherwise write it concurrently. Each
// handler holds the lock for its full duration, including submission.
type screen struct {
	mu    sync.Mutex
	state *schedform.State
	pipe  *pipeline.Pipeline

	filename string
	pdfData  []byte
}

func (s *screen) Save(filename string, data []byte) error {
	s.filename = filename
	s.pdfData = data
	return nil
}

func (s *screen) takeDownload() (string, []byte) {
	name, data := s.filename, s.pdfData
	s.filename, s.pdfData = "", nil
	return name, data
}

func New(svc ports.GenerateService, repo ports.DraftRepository, log *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		repo:    repo,
		log:     log,
		screens: make(map[domain.ScheduleType]*screen),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /{schedule}", h.formPage)
	mux.HandleFunc("POST /{schedule}/field", h.updateField)
	mux.HandleFunc("GET /{schedule}/status", h.probeStatus)
	mux.HandleFunc("POST /{schedule}/generate", h.generate)
	mux.HandleFunc("POST /{schedule}/dismiss", h.dismiss)
	mux.HandleFunc("GET /{schedule}/summary.pdf", h.summaryPDF)
	mux.HandleFunc("POST /{schedule}/drafts", h.saveDraft)
	mux.HandleFunc("DELETE /drafts/{id}", h.deleteDraft)
	return mux
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.Index())
}

// formPage starts a fresh form session for the schedule. Navigating here
// always resets state; loading a draft replays its payload into the new
// session. The connectivity probe runs before the first paint.
func (h *Handler) formPage(w http.ResponseWriter, r *http.Request) {
	schedule, ok := scheduleFrom(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// keep=1 re-renders the live session (post-redirect-get after a draft
	// save); plain navigation always starts fresh.
	var sc *screen
	if r.URL.Query().Get("keep") != "" {
		h.mu.Lock()
		sc = h.screens[schedule]
		h.mu.Unlock()
	}
	if sc == nil {
		sc = h.resetScreen(schedule)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if idStr := r.URL.Query().Get("draft"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid draft id", 400)
			return
		}
		d, err := h.repo.GetDraft(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if err := sc.state.LoadPayload(d.Payload); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()
	sc.pipe.Probe(ctx)

	render(w, r, templates.FormPage(h.buildView(r.Context(), schedule, sc)))
}

// updateField applies a single edited field and re-renders the totals
// fragment. htmx posts the input under its own name plus a "field" value
// naming it; an absent checkbox value means unchecked.
func (h *Handler) updateField(w http.ResponseWriter, r *http.Request) {
	schedule, sc, ok := h.liveScreen(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	name := r.FormValue("field")
	f, known := sc.state.Schema().Lookup(name)
	if !known {
		http.Error(w, "unknown field", 400)
		return
	}
	if f.Kind == schedform.Flag {
		sc.state.SetFlag(name, r.FormValue(name) != "")
	} else {
		sc.state.Set(name, r.FormValue(name))
	}
	render(w, r, templates.Totals(h.buildView(r.Context(), schedule, sc)))
}

func (h *Handler) probeStatus(w http.ResponseWriter, r *http.Request) {
	schedule, sc, ok := h.liveScreen(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()
	sc.pipe.Probe(ctx)
	render(w, r, templates.Status(h.buildView(r.Context(), schedule, sc)))
}

// generate runs the full submission pipeline. Success streams the PDF back
// as an attachment; validation and pipeline failures re-render the page
// with the errors or the failure banner in place.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	schedule, sc, ok := h.liveScreen(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	h.applyForm(sc.state, r)

	err := sc.pipe.Submit(r.Context(), sc.state)
	switch {
	case err == nil:
		filename, data := sc.takeDownload()
		h.log.Info("pdf generated", "schedule", schedule, "filename", filename, "bytes", len(data))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Write(data)
	case errors.Is(err, pipeline.ErrBusy):
		http.Redirect(w, r, "/"+string(schedule)+"?keep=1", http.StatusSeeOther)
	default:
		kind, _ := sc.pipe.Failure()
		h.log.Warn("generation failed", "schedule", schedule, "kind", kind, "err", err)
		render(w, r, templates.FormPage(h.buildView(r.Context(), schedule, sc)))
	}
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	schedule, sc, ok := h.liveScreen(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.pipe.Dismiss()
	render(w, r, templates.FormPage(h.buildView(r.Context(), schedule, sc)))
}

// summaryPDF renders the locally drawn draft summary, no service involved.
func (h *Handler) summaryPDF(w http.ResponseWriter, r *http.Request) {
	_, sc, ok := h.liveScreen(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="draft_summary.pdf"`)
	if err := pdf.WriteSummary(sc.state, w); err != nil {
		h.log.Error("summary pdf failed", "err", err)
	}
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	schedule, sc, ok := h.liveScreen(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	payload, err := sc.state.Payload()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = "Untitled draft"
	}
	d := &domain.Draft{Schedule: schedule, Title: title, Payload: payload}
	if err := h.repo.SaveDraft(r.Context(), d); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	http.Redirect(w, r, "/"+string(schedule)+"?keep=1", http.StatusSeeOther)
}

func (h *Handler) deleteDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := h.repo.DeleteDraft(r.Context(), id); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	schedule, ok := domain.ParseScheduleType(r.URL.Query().Get("schedule"))
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.mu.Lock()
	sc := h.screens[schedule]
	h.mu.Unlock()
	if sc == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	render(w, r, templates.DraftList(h.buildView(r.Context(), schedule, sc)))
}

// ── screen bookkeeping ───────────────────────────────────────────────────────

func (h *Handler) resetScreen(schedule domain.ScheduleType) *screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	sc := &screen{state: schedform.NewState(schedform.ForSchedule(schedule))}
	sc.pipe = pipeline.New(h.svc, sc)
	h.screens[schedule] = sc
	return sc
}

// liveScreen resolves the request's schedule to its active screen. Fragment
// endpoints hit before a form page has been opened get a 404.
func (h *Handler) liveScreen(r *http.Request) (domain.ScheduleType, *screen, bool) {
	schedule, ok := scheduleFrom(r)
	if !ok {
		return "", nil, false
	}
	h.mu.Lock()
	sc := h.screens[schedule]
	h.mu.Unlock()
	if sc == nil {
		return "", nil, false
	}
	return schedule, sc, true
}

// applyForm copies a full form post into the state, schema fields only.
// Checkboxes are set from presence since browsers omit unchecked ones.
func (h *Handler) applyForm(st *schedform.State, r *http.Request) {
	for _, f := range st.Schema().Fields {
		if f.Kind == schedform.Flag {
			st.SetFlag(f.Name, r.FormValue(f.Name) != "")
			continue
		}
		if _, present := r.Form[f.Name]; present {
			st.Set(f.Name, r.FormValue(f.Name))
		}
	}
}

func (h *Handler) buildView(ctx context.Context, schedule domain.ScheduleType, sc *screen) templates.FormView {
	v := templates.FormView{
		Schedule: schedule,
		Fields:   templates.BuildFields(sc.state),
		Status:   sc.pipe.Status(),
		Phase:    sc.pipe.Phase(),
	}
	v.FailKind, v.Diagnostic = sc.pipe.Failure()
	if info, ok := sc.pipe.ServerInfo(); ok {
		v.Info = &info
	}
	switch schedule {
	case domain.ScheduleC:
		v.Title = "Schedule C"
		t := schedform.CalculateScheduleC(sc.state)
		v.TotalsC = &t
	case domain.ScheduleE:
		v.Title = "Schedule E"
		t := schedform.CalculateScheduleE(sc.state)
		v.TotalsE = &t
	}
	drafts, err := h.repo.ListDrafts(ctx, schedule)
	if err != nil {
		h.log.Warn("listing drafts failed", "err", err)
	}
	v.Drafts = drafts
	return v
}

func scheduleFrom(r *http.Request) (domain.ScheduleType, bool) {
	return domain.ParseScheduleType(r.PathValue("schedule"))
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}
