// Package workflow drives the sell flow: photograph an item, review the
// drafted listing, pick marketplaces, submit. One machine per session.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"swiftsell/internal/gen"
	"swiftsell/internal/listing"
	"swiftsell/internal/logging"
	"swiftsell/internal/marketplace"
)

// State is the machine's current stage.
type State string

const (
	StateIdle     State = "idle"
	StateReview   State = "review"
	StateListing  State = "listing"
	StateComplete State = "complete"
)

var (
	ErrInProgress    = errors.New("an analysis is already in progress")
	ErrWrongState    = errors.New("operation not valid in current state")
	ErrNoPlatforms   = errors.New("no platforms selected")
	ErrListingFailed = errors.New("failed to create listings")
)

// Submitter publishes an approved listing to one marketplace.
type Submitter interface {
	Submit(ctx context.Context, item listing.ItemData, platform marketplace.ID) error
}

// simulatedSubmitter stands in for real marketplace APIs: it waits the
// configured delay and reports success.
type simulatedSubmitter struct {
	delay time.Duration
}

func (s simulatedSubmitter) Submit(ctx context.Context, item listing.ItemData, platform marketplace.ID) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewSimulatedSubmitter returns the default submitter with the given delay.
func NewSimulatedSubmitter(delay time.Duration) Submitter {
	return simulatedSubmitter{delay: delay}
}

// Snapshot is a read-only copy of the machine's transient state.
type Snapshot struct {
	State     State
	Loading   bool
	Item      listing.ItemData
	Sources   []listing.Source
	Listed    []marketplace.ID
	LastError string
}

// Machine owns the sell-flow state. Methods are safe for concurrent use,
// but the flow assumes one logical writer; a second Analyze while one is
// running is rejected rather than raced.
type Machine struct {
	gen       gen.Client
	submitter Submitter

	mu      sync.Mutex
	state   State
	loading bool
	token   string
	item    listing.ItemData
	sources []listing.Source
	listed  []marketplace.ID
	lastErr string
}

// NewMachine creates an idle machine.
func NewMachine(g gen.Client, s Submitter) *Machine {
	return &Machine{
		gen:       g,
		submitter: s,
		state:     StateIdle,
		token:     uuid.NewString(),
	}
}

// Analyze sends the captured images for drafting and, on success, moves to
// review with the drafted listing. Valid only from idle; Reset first to start
// over. A failure returns to idle with the error recorded. If Reset is called
// while the request is in flight the response is discarded.
func (m *Machine) Analyze(ctx context.Context, images []gen.Image) error {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return ErrInProgress
	}
	if m.state != StateIdle {
		m.mu.Unlock()
		return fmt.Errorf("%w: analyze requires idle, machine is %s", ErrWrongState, m.state)
	}
	m.loading = true
	m.lastErr = ""
	token := uuid.NewString()
	m.token = token
	m.mu.Unlock()

	logging.Workflow("analyze started with %d image(s)", len(images))
	result, err := gen.AnalyzeImages(ctx, m.gen, images)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != token {
		// Reset (or a newer request) superseded this one.
		logging.WorkflowDebug("discarding stale analysis response")
		return nil
	}
	m.loading = false
	if err != nil {
		m.state = StateIdle
		m.lastErr = err.Error()
		logging.WorkflowError("analysis failed: %v", err)
		return err
	}
	m.state = StateReview
	m.item = result.Item
	m.sources = result.Sources
	logging.Workflow("analysis complete: %q at %.2f", result.Item.Title, result.Item.Price)
	return nil
}

// Approve accepts the user-edited listing and moves to platform selection.
// The edited item replaces the draft verbatim.
func (m *Machine) Approve(edited listing.ItemData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReview {
		return fmt.Errorf("%w: approve requires review, machine is %s", ErrWrongState, m.state)
	}
	m.item = edited
	m.state = StateListing
	return nil
}

// List submits the approved item to each selected platform and moves to
// complete. The selection must be non-empty.
func (m *Machine) List(ctx context.Context, platforms []marketplace.ID) error {
	m.mu.Lock()
	if m.state != StateListing {
		m.mu.Unlock()
		return fmt.Errorf("%w: list requires platform selection, machine is %s", ErrWrongState, m.state)
	}
	if len(platforms) == 0 {
		m.mu.Unlock()
		return ErrNoPlatforms
	}
	item := m.item
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()

	for _, p := range platforms {
		if err := m.submitter.Submit(ctx, item, p); err != nil {
			m.mu.Lock()
			m.loading = false
			m.lastErr = ErrListingFailed.Error()
			m.mu.Unlock()
			logging.WorkflowError("submit to %s failed: %v", p, err)
			return fmt.Errorf("%w: %v", ErrListingFailed, err)
		}
		logging.Workflow("listed %q on %s", item.Title, p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	m.state = StateComplete
	m.listed = append([]marketplace.ID(nil), platforms...)
	return nil
}

// Reset returns to idle from any state and clears all transient state. The
// request token is rotated so any in-flight analysis lands on the floor.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateIdle
	m.loading = false
	m.token = uuid.NewString()
	m.item = listing.ItemData{}
	m.sources = nil
	m.listed = nil
	m.lastErr = ""
}

// Snapshot returns a copy of the current state for display.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:     m.state,
		Loading:   m.loading,
		Item:      m.item,
		Sources:   append([]listing.Source(nil), m.sources...),
		Listed:    append([]marketplace.ID(nil), m.listed...),
		LastError: m.lastErr,
	}
}
