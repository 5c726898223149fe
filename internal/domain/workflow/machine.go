package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
)

// RunState is a stage of the pipeline state machine.
type RunState string

const (
	// StatePending is the initial state before terraform init.
	StatePending RunState = "pending"
	// StateInitialized means terraform init succeeded.
	StateInitialized RunState = "initialized"
	// StateFormatted means the formatting pass completed (clean or healed).
	StateFormatted RunState = "formatted"
	// StateValidated means terraform validate succeeded.
	StateValidated RunState = "validated"
	// StatePlanned means the plan step produced a classified result.
	StatePlanned RunState = "planned"
	// StateApplied means the apply decision was made (applied or skipped).
	StateApplied RunState = "applied"
	// StateReported is the terminal success-path state.
	StateReported RunState = "reported"
	// StateAborted is the terminal failure state, reachable from any stage
	// before the apply decision.
	StateAborted RunState = "aborted"
)

// Events for the run state machine.
const (
	EventInitialized = "INITIALIZED"
	EventFormatted   = "FORMATTED"
	EventValidated   = "VALIDATED"
	EventPlanned     = "PLANNED"
	EventApplied     = "APPLIED"
	EventReported    = "REPORTED"
	EventAbort       = "ABORT"
)

// runContext is the statekit context type; the machine itself carries no
// mutable data, it only polices step ordering.
type runContext struct {
	RunID string
}

// runMachine wraps the statekit interpreter for one run. It is the single
// authority on legal step ordering: the engine advances it after each step
// and a refused transition surfaces as a precondition defect that fails
// the run.
type runMachine struct {
	interp *statekit.Interpreter[runContext]
}

func newRunMachine(runID string) (*runMachine, error) {
	machine, err := statekit.NewMachine[runContext]("cloudops-run").
		WithInitial(statekit.StateID(StatePending)).
		WithContext(runContext{RunID: runID}).
		State(statekit.StateID(StatePending)).
		On(EventInitialized).Target(statekit.StateID(StateInitialized)).
		On(EventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateInitialized)).
		On(EventFormatted).Target(statekit.StateID(StateFormatted)).
		On(EventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateFormatted)).
		On(EventValidated).Target(statekit.StateID(StateValidated)).
		On(EventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateValidated)).
		On(EventPlanned).Target(statekit.StateID(StatePlanned)).
		On(EventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StatePlanned)).
		On(EventApplied).Target(statekit.StateID(StateApplied)).
		On(EventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateApplied)).
		On(EventReported).Target(statekit.StateID(StateReported)).
		On(EventAbort).Target(statekit.StateID(StateAborted)).Done().
		State(statekit.StateID(StateReported)).Done().
		State(statekit.StateID(StateAborted)).Done().
		Build()
	if err != nil {
		return nil, err
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &runMachine{interp: interp}, nil
}

// advance sends the event and fails when the machine refuses it: a step
// completing out of the legal order is a defect, never silently ignored.
func (m *runMachine) advance(event string) error {
	before := m.interp.State().Value
	m.interp.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.interp.State().Value == before {
		return config.NewUserError(config.ErrCodePrecondition, "workflow step out of order").
			WithContext(fmt.Sprintf("%s from %s", event, before))
	}
	return nil
}

// abort moves the machine to the terminal failure state. Refusal is not
// checked here: abort runs while a step error is already unwinding and
// must never mask it.
func (m *runMachine) abort() {
	m.interp.Send(statekit.Event{Type: statekit.EventType(EventAbort)})
}

func (m *runMachine) state() RunState {
	return RunState(m.interp.State().Value)
}

func (m *runMachine) stop() {
	m.interp.Stop()
}
