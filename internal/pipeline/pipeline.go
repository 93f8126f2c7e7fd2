// Package pipeline orchestrates one submission attempt:
// validate -> probe -> serialize -> send -> receive PDF -> hand off to the
// file saver. It is a small explicit state machine; disallowed transitions
// are errors rather than silent no-ops.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/taxdesk/schedule-generator/internal/adapters/genservice"
	"github.com/taxdesk/schedule-generator/internal/domain"
	"github.com/taxdesk/schedule-generator/internal/ports"
	"github.com/taxdesk/schedule-generator/internal/schedform"
)

type Phase int

const (
	Idle Phase = iota
	Validating
	Probing
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Probing:
		return "probing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// FailureKind classifies a Failed outcome for display.
type FailureKind int

const (
	FailNone         FailureKind = iota
	FailConnectivity             // probe-time: service unreachable, nothing was sent
	FailServer                   // non-2xx response with server detail text
	FailContent                  // 2xx but wrong content type or empty body
	FailTransport                // network failure during the generate call
	FailSave                     // PDF received but the save collaborator failed
)

func (k FailureKind) String() string {
	switch k {
	case FailNone:
		return "none"
	case FailConnectivity:
		return "connectivity"
	case FailServer:
		return "server"
	case FailContent:
		return "content"
	case FailTransport:
		return "transport"
	case FailSave:
		return "save"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// ErrValidation is returned when the form fails validation; the error map
// has been written back to the state and no network call was made.
var ErrValidation = errors.New("form validation failed")

// ErrBusy is returned when Submit is called while an attempt is in flight.
var ErrBusy = errors.New("submission already in progress")

const defaultSuccessWindow = 5 * time.Second

// Pipeline drives submissions for one form screen. It owns that screen's
// ConnectionStatus and last-probed server info.
type Pipeline struct {
	svc   ports.GenerateService
	saver ports.FileSaver

	mu            sync.Mutex
	phase         Phase
	failKind      FailureKind
	diagnostic    string
	status        domain.ConnectionStatus
	info          domain.ServerInfo
	haveInfo      bool
	successWindow time.Duration
	resetTimer    *time.Timer
}

type Option func(*Pipeline)

// WithSuccessWindow overrides how long Succeeded is displayed before the
// pipeline returns to Idle. Tests shorten it.
func WithSuccessWindow(d time.Duration) Option {
	return func(p *Pipeline) { p.successWindow = d }
}

func New(svc ports.GenerateService, saver ports.FileSaver, opts ...Option) *Pipeline {
	p := &Pipeline{
		svc:           svc,
		saver:         saver,
		phase:         Idle,
		status:        domain.StatusChecking,
		successWindow: defaultSuccessWindow,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Failure returns the classification and diagnostic of the last Failed
// outcome, or FailNone.
func (p *Pipeline) Failure() (FailureKind, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failKind, p.diagnostic
}

func (p *Pipeline) Status() domain.ConnectionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// ServerInfo returns the capability flags from the most recent successful
// probe, and whether any probe has succeeded yet.
func (p *Pipeline) ServerInfo() (domain.ServerInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info, p.haveInfo
}

// Probe checks service reachability and updates ConnectionStatus. Called
// once on screen entry, on demand from the status badge, and internally
// before every submission. Safe to call repeatedly.
func (p *Pipeline) Probe(ctx context.Context) domain.ConnectionStatus {
	info, err := p.svc.Health(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status = domain.StatusDisconnected
		return p.status
	}
	p.status = domain.StatusConnected
	p.info = info
	p.haveInfo = true
	return p.status
}

// Dismiss acknowledges a Failed outcome and returns the pipeline to Idle.
// A no-op in any other phase.
func (p *Pipeline) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == Failed {
		p.phase = Idle
		p.failKind = FailNone
		p.diagnostic = ""
	}
}

// Submit runs one full attempt against the given form state.
//
// Contract, in order:
//  1. Validation errors write the error map into the state and return
//     ErrValidation with zero network calls.
//  2. The connectivity probe must succeed before anything is sent; an
//     unreachable service fails with a start-the-service diagnostic.
//  3. One generate call, not retried, not cancellable once sent.
//  4. The PDF goes to the file saver under the schedule's derived filename.
//
// Succeeded displays for the success window, then the pipeline returns to
// Idle on its own. Failed stays until Dismiss.
func (p *Pipeline) Submit(ctx context.Context, st *schedform.State) error {
	if err := p.begin(); err != nil {
		return err
	}

	errs := schedform.Validate(st)
	if len(errs) > 0 {
		st.SetErrors(errs)
		p.toIdle()
		return ErrValidation
	}
	st.SetErrors(nil)

	p.transition(Validating, Probing)
	if p.Probe(ctx) != domain.StatusConnected {
		p.fail(FailConnectivity, fmt.Sprintf(
			"Cannot connect to the generation service at %s. Start the service and try again.",
			p.originHint()))
		return fmt.Errorf("probe: service unreachable")
	}

	p.transition(Probing, Submitting)
	payload, err := st.Payload()
	if err != nil {
		p.fail(FailContent, "Could not serialize the form: "+err.Error())
		return err
	}

	schedule := st.Schema().Schedule
	pdf, err := p.svc.Generate(ctx, schedule, payload)
	if err != nil {
		p.failFromGenerate(err)
		return err
	}

	var businessName string
	if schedule == domain.ScheduleC {
		businessName = st.Get("businessName")
	}
	filename := Filename(schedule, businessName)
	if err := p.saver.Save(filename, pdf); err != nil {
		p.fail(FailSave, "Could not save the generated PDF: "+err.Error())
		return err
	}

	p.succeed()
	return nil
}

// Filename derives the download name: Schedule C uses the sanitized business
// name (whitespace runs become dashes, lowercased, "report" when empty);
// Schedule E always uses the fixed report name.
func Filename(schedule domain.ScheduleType, businessName string) string {
	if schedule == domain.ScheduleE {
		return "schedule_e_report.pdf"
	}
	name := strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(businessName), "-"))
	if name == "" {
		name = "report"
	}
	return "schedule-c-" + name + ".pdf"
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ── transitions ──────────────────────────────────────────────────────────────

// begin moves Idle -> Validating; any other starting phase means an attempt
// is in flight or awaiting acknowledgement.
func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != Idle {
		return fmt.Errorf("%w: phase %s", ErrBusy, p.phase)
	}
	p.phase = Validating
	return nil
}

// transition asserts the expected prior phase. A mismatch is a programmer
// bug in the pipeline itself.
func (p *Pipeline) transition(from, to Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != from {
		panic(fmt.Sprintf("pipeline: transition %s -> %s but phase is %s", from, to, p.phase))
	}
	p.phase = to
}

func (p *Pipeline) toIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = Idle
}

func (p *Pipeline) fail(kind FailureKind, diagnostic string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = Failed
	p.failKind = kind
	p.diagnostic = diagnostic
}

func (p *Pipeline) failFromGenerate(err error) {
	var se *genservice.ServerError
	var ce *genservice.ContentError
	var te *genservice.TransportError
	switch {
	case errors.As(err, &se):
		p.fail(FailServer, "Failed to generate PDF. "+se.Error())
	case errors.As(err, &ce):
		p.fail(FailContent, "Failed to generate PDF. "+ce.Error())
	case errors.As(err, &te):
		p.fail(FailTransport, "Failed to generate PDF. Cannot connect to the generation service.")
	default:
		p.fail(FailTransport, "Failed to generate PDF. "+err.Error())
	}
}

func (p *Pipeline) succeed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = Succeeded
	p.failKind = FailNone
	p.diagnostic = ""
	if p.resetTimer != nil {
		p.resetTimer.Stop()
	}
	p.resetTimer = time.AfterFunc(p.successWindow, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.phase == Succeeded {
			p.phase = Idle
		}
	})
}

func (p *Pipeline) originHint() string {
	if c, ok := p.svc.(*genservice.Client); ok {
		return c.Origin()
	}
	return "its configured origin"
}
