// Package analysis drives AI plan generation for a project bundle.
// The Orchestrator owns a small state machine: it is Idle until a run
// is submitted, Analyzing while the gateway call is in flight, and
// ends in Completed or Error. Submitting while a run is in flight
// supersedes it; cancelling returns to Idle with no partial state.
package analysis

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/gateway"
	"github.com/felixgeelhaar/planweave/internal/interpret"
	"github.com/felixgeelhaar/planweave/internal/log"
	"github.com/felixgeelhaar/planweave/internal/persona"
	"github.com/felixgeelhaar/planweave/internal/project"
)

// Phase names the orchestrator's lifecycle states
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnalyzing Phase = "analyzing"
	PhaseCompleted Phase = "completed"
	PhaseError     Phase = "error"
)

// State is a point-in-time view of the orchestrator
type State struct {
	Phase    Phase
	Progress float64
	Message  string
}

// Observer receives state changes. Called outside the orchestrator's
// lock; implementations may call back into the orchestrator.
type Observer func(State)

// Orchestrator runs analyses against a gateway and applies results to
// the bundle. All methods are safe for concurrent use.
type Orchestrator struct {
	gateway  gateway.Gateway
	personas *persona.Catalog
	assets   AssetSource
	logger   *log.Logger

	mu       sync.Mutex
	state    State
	run      int
	cancel   context.CancelFunc
	observer Observer
	done     chan struct{}
}

// New creates an orchestrator in the Idle state
func New(gw gateway.Gateway, personas *persona.Catalog, assets AssetSource, logger *log.Logger) *Orchestrator {
	if personas == nil {
		personas = persona.NewCatalog()
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Orchestrator{
		gateway:  gw,
		personas: personas,
		assets:   assets,
		logger:   logger,
		state:    State{Phase: PhaseIdle},
	}
}

// SetObserver installs a state-change callback
func (o *Orchestrator) SetObserver(observer Observer) {
	o.mu.Lock()
	o.observer = observer
	o.mu.Unlock()
}

// State returns the current state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit starts an analysis run for the bundle. A run already in
// flight is superseded: its result is discarded when it finishes.
// Returns an error immediately if the bundle has nothing to analyze;
// all later outcomes are reported through the state machine.
func (o *Orchestrator) Submit(ctx context.Context, bundle *project.Bundle) error {
	if !bundle.HasAnalyzableContent() {
		return errors.NewNoInputsError()
	}

	prompt, err := buildPrompt(bundle, o.assets)
	if err != nil {
		return err
	}
	p := o.personas.Resolve(bundle.Metadata().Persona)

	runCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	if o.cancel != nil {
		// Supersede the in-flight run. Its goroutine will observe the
		// stale run id and discard its outcome.
		o.cancel()
	}
	o.run++
	run := o.run
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	notify := o.setStateLocked(State{Phase: PhaseAnalyzing, Message: "Analyzing project..."})
	o.mu.Unlock()
	notify()

	req := &gateway.Request{
		Prompt:       prompt,
		SystemPrompt: p.SystemPrompt,
		Temperature:  p.Temperature,
		Metadata:     map[string]string{"project": bundle.Metadata().Name, "persona": p.Label},
		OnProgress: func(fraction float64) {
			o.reportProgress(run, fraction)
		},
	}

	go func() {
		defer close(done)
		o.execute(runCtx, run, bundle, req)
	}()
	return nil
}

// Cancel stops the in-flight run, if any, and returns to Idle
// immediately. The run id is retired so anything the cancelled run
// still delivers — progress, a result from a gateway that ignores its
// context — is discarded, even if the gateway only cancels
// cooperatively.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.cancel == nil {
		o.mu.Unlock()
		return
	}
	o.cancel()
	o.cancel = nil
	o.run++
	notify := o.setStateLocked(State{Phase: PhaseIdle})
	o.mu.Unlock()
	notify()
}

// DismissError acknowledges a failed run and returns to Idle
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	var notify func()
	if o.state.Phase == PhaseError {
		notify = o.setStateLocked(State{Phase: PhaseIdle})
	}
	o.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Wait blocks until the current run finishes. Used by tests and by
// the CLI, which runs one analysis to completion.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (o *Orchestrator) execute(ctx context.Context, run int, bundle *project.Bundle, req *gateway.Request) {
	text, err := o.gateway.Submit(ctx, req)
	if err != nil {
		o.finishWithError(run, err)
		return
	}

	o.mu.Lock()
	if run != o.run {
		o.mu.Unlock()
		return
	}
	// Version number is assigned from the ledger at append time; the
	// one passed to the interpreter only labels the result.
	result, err := interpret.Parse(text, bundle.Ledger().LatestVersionNumber()+1)
	if err != nil {
		o.mu.Unlock()
		o.finishWithError(run, err)
		return
	}
	snapshot := bundle.SetAnalysisResult(result)
	o.releaseRunLocked()
	notify := o.setStateLocked(State{Phase: PhaseCompleted, Progress: 1, Message: "Analysis complete"})
	o.mu.Unlock()
	notify()

	o.logger.Info("analysis completed",
		"project", bundle.Metadata().Name,
		"version", snapshot.VersionNumber,
		"clarity_score", snapshot.ClarityScore,
		"uncertainty_flags", len(snapshot.UncertaintyFlags),
	)
}

func (o *Orchestrator) finishWithError(run int, err error) {
	o.mu.Lock()
	if run != o.run {
		o.mu.Unlock()
		return
	}
	o.releaseRunLocked()

	var notify func()
	if gateway.IsCancelled(err) {
		// Cancellation is a user action, not a failure. No partial
		// state survives: the bundle was never touched.
		notify = o.setStateLocked(State{Phase: PhaseIdle})
	} else {
		notify = o.setStateLocked(State{Phase: PhaseError, Message: err.Error()})
	}
	o.mu.Unlock()
	notify()

	if !gateway.IsCancelled(err) {
		o.logger.WithError(err).Error("analysis failed")
	}
}

func (o *Orchestrator) reportProgress(run int, fraction float64) {
	o.mu.Lock()
	if run != o.run || o.state.Phase != PhaseAnalyzing || fraction < o.state.Progress {
		o.mu.Unlock()
		return
	}
	notify := o.setStateLocked(State{Phase: PhaseAnalyzing, Progress: fraction, Message: o.state.Message})
	o.mu.Unlock()
	notify()
}

// releaseRunLocked cancels the finished run's context so it does not
// outlive the run. Caller must hold o.mu.
func (o *Orchestrator) releaseRunLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// setStateLocked records the new state and returns the observer
// notification to invoke once the lock is released. Caller must hold
// o.mu.
func (o *Orchestrator) setStateLocked(state State) func() {
	o.state = state
	observer := o.observer
	if observer == nil {
		return func() {}
	}
	return func() { observer(state) }
}
