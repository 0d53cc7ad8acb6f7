package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sportsfilio/tournament-hub/auth"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/services"
)

type registerCall struct {
	TournamentID string
	Principal    auth.Principal
	Input        services.RegistrationInput
	Proof        *services.PaymentProof
}

type fakeRegistrar struct {
	mu    sync.Mutex
	calls []registerCall
	err   error
	// block, when set, holds Register until released; started is signaled
	// once per call. Used to test the in-flight guard and the stale-result
	// discard.
	block   chan struct{}
	started chan struct{}
}

func (r *fakeRegistrar) Register(ctx context.Context, tournamentID string, principal auth.Principal, input services.RegistrationInput, proof *services.PaymentProof) (*models.Participant, error) {
	r.mu.Lock()
	r.calls = append(r.calls, registerCall{tournamentID, principal, input, proof})
	block := r.block
	started := r.started
	err := r.err
	r.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &models.Participant{
		TournamentID:  tournamentID,
		ProfileID:     principal.ProfileID,
		PaymentStatus: models.PaymentPending,
	}, nil
}

func (r *fakeRegistrar) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func freeTournament() models.Tournament {
	return models.Tournament{ID: "t1", Title: "City Open", EntryFee: "free", OrganizerID: "org-1"}
}

func paidTournament() models.Tournament {
	t := freeTournament()
	t.EntryFee = "500"
	return t
}

func signedInSession() *auth.Context {
	return auth.NewStaticContext(auth.Principal{ProfileID: "p1", Email: "asha@example.com"})
}

func validInfo() services.RegistrationInput {
	return services.RegistrationInput{Name: "Asha Rao", Phone: "+91 98765 43210"}
}

func validScreenshot() *services.FileUpload {
	return &services.FileUpload{Content: strings.NewReader("png"), Size: 64, ContentType: "image/png"}
}

func TestFreeFlowGoesStraightToConfirmation(t *testing.T) {
	registrar := &fakeRegistrar{}
	flow := NewRegistrationFlow(signedInSession(), registrar, freeTournament())

	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("SubmitRegistration: %v", err)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("step = %q, want confirmation", flow.Step())
	}
	if flow.Participant() == nil {
		t.Error("participant missing after confirmation")
	}
	if registrar.callCount() != 1 {
		t.Errorf("registrar calls = %d, want 1", registrar.callCount())
	}
	if registrar.calls[0].Proof != nil {
		t.Error("free flow must not send payment proof")
	}
}

func TestPaidFlowDefersPersistUntilPayment(t *testing.T) {
	registrar := &fakeRegistrar{}
	flow := NewRegistrationFlow(signedInSession(), registrar, paidTournament())

	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("SubmitRegistration: %v", err)
	}
	if flow.Step() != StepPayment {
		t.Fatalf("step = %q, want payment", flow.Step())
	}
	if registrar.callCount() != 0 {
		t.Fatalf("registrar calls = %d, want 0 before payment", registrar.callCount())
	}

	if err := flow.SubmitPayment(context.Background(), "TXN-1", validScreenshot()); err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("step = %q, want confirmation", flow.Step())
	}
	if registrar.callCount() != 1 {
		t.Fatalf("registrar calls = %d, want 1", registrar.callCount())
	}

	call := registrar.calls[0]
	if call.Input.Name != "Asha Rao" {
		t.Errorf("payment submit lost registration info: %+v", call.Input)
	}
	if call.Proof == nil || call.Proof.TransactionID != "TXN-1" {
		t.Errorf("payment proof = %+v", call.Proof)
	}
}

func TestSubmitRegistrationValidatesBeforeNetwork(t *testing.T) {
	registrar := &fakeRegistrar{}
	flow := NewRegistrationFlow(signedInSession(), registrar, freeTournament())

	err := flow.SubmitRegistration(context.Background(), services.RegistrationInput{Phone: "123"})
	if !errors.Is(err, services.ErrRegistrationNameRequired) {
		t.Fatalf("error = %v, want %v", err, services.ErrRegistrationNameRequired)
	}
	if registrar.callCount() != 0 {
		t.Error("invalid input must not reach the registrar")
	}
	if flow.Step() != StepRegistration {
		t.Errorf("step = %q, want registration", flow.Step())
	}
}

func TestSubmitPaymentValidatesBeforeUpload(t *testing.T) {
	registrar := &fakeRegistrar{}
	flow := NewRegistrationFlow(signedInSession(), registrar, paidTournament())
	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("SubmitRegistration: %v", err)
	}

	tests := []struct {
		name          string
		transactionID string
		screenshot    *services.FileUpload
		want          error
	}{
		{"missing transaction id", "", validScreenshot(), services.ErrTransactionIDRequired},
		{"missing screenshot", "TXN-1", nil, services.ErrScreenshotRequired},
		{
			"oversized screenshot",
			"TXN-1",
			&services.FileUpload{Size: services.MaxScreenshotSize + 1, ContentType: "image/png"},
			services.ErrScreenshotTooLarge,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := flow.SubmitPayment(context.Background(), tc.transactionID, tc.screenshot); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
	if registrar.callCount() != 0 {
		t.Error("invalid proof must not reach the registrar")
	}
	if flow.Step() != StepPayment {
		t.Errorf("step = %q, want payment (retryable)", flow.Step())
	}
}

func TestSubmitFailureKeepsStepForRetry(t *testing.T) {
	registrar := &fakeRegistrar{err: services.ErrTournamentFull}
	flow := NewRegistrationFlow(signedInSession(), registrar, freeTournament())

	if err := flow.SubmitRegistration(context.Background(), validInfo()); !errors.Is(err, services.ErrTournamentFull) {
		t.Fatalf("error = %v, want %v", err, services.ErrTournamentFull)
	}
	if flow.Step() != StepRegistration {
		t.Errorf("step = %q, want registration", flow.Step())
	}

	registrar.err = nil
	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("step after retry = %q, want confirmation", flow.Step())
	}
}

func TestSubmitRequiresSignedInSession(t *testing.T) {
	flow := NewRegistrationFlow(auth.NewContext(), &fakeRegistrar{}, freeTournament())

	err := flow.SubmitRegistration(context.Background(), validInfo())
	if !errors.Is(err, services.ErrAuthenticationRequired) {
		t.Fatalf("error = %v, want %v", err, services.ErrAuthenticationRequired)
	}
}

func TestWrongStepActions(t *testing.T) {
	flow := NewRegistrationFlow(signedInSession(), &fakeRegistrar{}, freeTournament())

	if err := flow.SubmitPayment(context.Background(), "TXN-1", validScreenshot()); !errors.Is(err, ErrWrongStep) {
		t.Errorf("SubmitPayment in registration step = %v, want %v", err, ErrWrongStep)
	}
	if err := flow.Back(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Back in registration step = %v, want %v", err, ErrWrongStep)
	}
}

func TestBackKeepsRegistrationData(t *testing.T) {
	flow := NewRegistrationFlow(signedInSession(), &fakeRegistrar{}, paidTournament())
	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("SubmitRegistration: %v", err)
	}

	if err := flow.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if flow.Step() != StepRegistration {
		t.Errorf("step = %q, want registration", flow.Step())
	}
	if flow.Info().Name != "Asha Rao" {
		t.Errorf("info after Back = %+v, want retained", flow.Info())
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	registrar := &fakeRegistrar{block: make(chan struct{}), started: make(chan struct{}, 1)}
	flow := NewRegistrationFlow(signedInSession(), registrar, freeTournament())

	done := make(chan error, 1)
	go func() { done <- flow.SubmitRegistration(context.Background(), validInfo()) }()
	<-registrar.started

	if err := flow.SubmitRegistration(context.Background(), validInfo()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("second submit = %v, want %v", err, ErrSubmitInFlight)
	}

	close(registrar.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("step = %q, want confirmation", flow.Step())
	}
}

func TestDoneDiscardsInFlightResult(t *testing.T) {
	registrar := &fakeRegistrar{block: make(chan struct{}), started: make(chan struct{}, 1)}
	flow := NewRegistrationFlow(signedInSession(), registrar, freeTournament())

	done := make(chan error, 1)
	go func() { done <- flow.SubmitRegistration(context.Background(), validInfo()) }()
	<-registrar.started

	flow.Done()
	close(registrar.block)
	if err := <-done; err != nil {
		t.Fatalf("dismissed submit must not error: %v", err)
	}

	if flow.Step() != StepRegistration {
		t.Errorf("step after Done = %q, want registration", flow.Step())
	}
	if flow.Participant() != nil {
		t.Error("stale result must not populate a reset flow")
	}
	if flow.Info() != (services.RegistrationInput{}) {
		t.Errorf("info after Done = %+v, want zero", flow.Info())
	}
}

func TestDoneResetsForNewRun(t *testing.T) {
	registrar := &fakeRegistrar{}
	flow := NewRegistrationFlow(signedInSession(), registrar, freeTournament())

	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("SubmitRegistration: %v", err)
	}
	flow.Done()

	if err := flow.SubmitRegistration(context.Background(), validInfo()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if flow.Step() != StepConfirmation {
		t.Errorf("step = %q, want confirmation", flow.Step())
	}
	if registrar.callCount() != 2 {
		t.Errorf("registrar calls = %d, want 2", registrar.callCount())
	}
}
