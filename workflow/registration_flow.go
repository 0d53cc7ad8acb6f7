// Package workflow implements the participant-facing registration flow as
// an explicit state machine: registration, then an optional payment step,
// then a terminal confirmation. All durable state lives in the backing
// store; the flow only holds the form data collected so far.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/sportsfilio/tournament-hub/auth"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/services"
)

// Step names the registration flow's states.
type Step string

const (
	StepRegistration Step = "registration"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

var (
	// ErrSubmitInFlight rejects a second submit while one from the same
	// step is still outstanding. This is the flow's only backpressure.
	ErrSubmitInFlight = errors.New("a submit is already in progress")
	// ErrWrongStep rejects an action not allowed in the current step.
	ErrWrongStep = errors.New("action not allowed in the current step")
)

// Registrar persists a registration. Satisfied by
// services.RegistrationService.
type Registrar interface {
	Register(ctx context.Context, tournamentID string, principal auth.Principal, input services.RegistrationInput, proof *services.PaymentProof) (*models.Participant, error)
}

// RegistrationFlow drives one participant's registration for one
// tournament. Safe for use from concurrent UI event handlers; at most one
// participant row is written per flow run.
type RegistrationFlow struct {
	session    *auth.Context
	registrar  Registrar
	tournament models.Tournament

	mu          sync.Mutex
	step        Step
	info        services.RegistrationInput
	participant *models.Participant
	inFlight    bool
	// gen distinguishes the current run from an abandoned one: Done()
	// bumps it, so responses from in-flight requests of a dismissed
	// dialog are ignored rather than advancing a reset flow.
	gen int
}

func NewRegistrationFlow(session *auth.Context, registrar Registrar, tournament models.Tournament) *RegistrationFlow {
	return &RegistrationFlow{
		session:    session,
		registrar:  registrar,
		tournament: tournament,
		step:       StepRegistration,
	}
}

// Step returns the flow's current state.
func (f *RegistrationFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Info returns the registration data collected so far.
func (f *RegistrationFlow) Info() services.RegistrationInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

// Participant returns the persisted registration once the flow reaches
// confirmation.
func (f *RegistrationFlow) Participant() *models.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.participant
}

// SubmitRegistration handles the first step. Validation happens before any
// network call. Free tournaments persist immediately and jump to
// confirmation; paid ones advance to the payment step without persisting.
// On failure the flow stays in the registration step for a manual retry.
func (f *RegistrationFlow) SubmitRegistration(ctx context.Context, input services.RegistrationInput) error {
	f.mu.Lock()
	if f.step != StepRegistration {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if err := services.ValidateRegistrationInput(input); err != nil {
		f.mu.Unlock()
		return err
	}
	f.info = input

	if f.tournament.RequiresPayment() {
		f.step = StepPayment
		f.mu.Unlock()
		return nil
	}

	principal, ok := f.session.CurrentPrincipal()
	if !ok {
		f.mu.Unlock()
		return services.ErrAuthenticationRequired
	}
	f.inFlight = true
	gen := f.gen
	f.mu.Unlock()

	participant, err := f.registrar.Register(ctx, f.tournament.ID, principal, input, nil)
	return f.finishSubmit(gen, participant, err)
}

// SubmitPayment handles the payment step for paid tournaments. The proof
// is validated client-side (non-empty transaction id, screenshot present
// and within the size ceiling) before the upload begins.
func (f *RegistrationFlow) SubmitPayment(ctx context.Context, transactionID string, screenshot *services.FileUpload) error {
	f.mu.Lock()
	if f.step != StepPayment {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	proof := &services.PaymentProof{TransactionID: transactionID, Screenshot: screenshot}
	if err := services.ValidateProof(proof); err != nil {
		f.mu.Unlock()
		return err
	}
	principal, ok := f.session.CurrentPrincipal()
	if !ok {
		f.mu.Unlock()
		return services.ErrAuthenticationRequired
	}
	info := f.info
	f.inFlight = true
	gen := f.gen
	f.mu.Unlock()

	participant, err := f.registrar.Register(ctx, f.tournament.ID, principal, info, proof)
	return f.finishSubmit(gen, participant, err)
}

func (f *RegistrationFlow) finishSubmit(gen int, participant *models.Participant, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		// The flow was reset while the request was in flight; the result
		// is ignored.
		return nil
	}
	f.inFlight = false
	if err != nil {
		return err
	}
	f.participant = participant
	f.step = StepConfirmation
	return nil
}

// Back returns from the payment step to the registration step without
// discarding previously entered registration data.
func (f *RegistrationFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPayment {
		return ErrWrongStep
	}
	if f.inFlight {
		return ErrSubmitInFlight
	}
	f.step = StepRegistration
	return nil
}

// Done resets all flow-local state without further backend calls. A result
// from a request still in flight is discarded.
func (f *RegistrationFlow) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepRegistration
	f.info = services.RegistrationInput{}
	f.participant = nil
	f.inFlight = false
	f.gen++
}
