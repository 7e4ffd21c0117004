// Package otp drives the phone sign-in challenge cycle: normalize the number,
// send a code (subject to the resend cooldown), confirm the code, yield an
// identity.
package otp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
	"github.com/tanvirrrhasan/TanvirEmart/internal/phone"
	"github.com/tanvirrrhasan/TanvirEmart/internal/throttle"
)

// Cooldown is the minimum wait between code sends to the same number.
const Cooldown = 60 * time.Second

type State int

const (
	StateIdle State = iota
	StateCodeSent
	StateVerified
)

var (
	// ErrInvalidCode leaves the flow in CodeSent; the shopper may retry.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrNoChallenge means Verify was called before a code was sent.
	ErrNoChallenge = errors.New("no verification in progress")
)

// CooldownError reports how long until the next send is allowed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %ds before requesting another code", int(e.Remaining.Seconds()))
}

// Challenge is a dispatched code awaiting confirmation.
type Challenge interface {
	Confirm(ctx context.Context, code string) (*auth.Identity, error)
}

// Challenger dispatches codes through the auth service. One Challenger is
// bound per flow and reused across attempts; the anti-abuse widget behind it
// must not be recreated per send.
type Challenger interface {
	SendCode(ctx context.Context, e164 string) (Challenge, error)
}

// Flow is the Idle → CodeSent → Verified state machine. Not safe for
// concurrent use by multiple goroutines driving the same sign-in; it guards
// its own state for the subscriber/render path reading State().
type Flow struct {
	challenger Challenger
	limiter    *throttle.Limiter

	mu        sync.Mutex
	state     State
	pending   string
	challenge Challenge
}

func NewFlow(challenger Challenger) *Flow {
	return &Flow{
		challenger: challenger,
		limiter:    throttle.NewLimiter(Cooldown),
	}
}

// NewFlowWithClock is for tests driving the cooldown clock.
func NewFlowWithClock(challenger Challenger, now func() time.Time) *Flow {
	return &Flow{
		challenger: challenger,
		limiter:    throttle.NewLimiterWithClock(Cooldown, now),
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// PendingNumber is the canonical number a code was sent to, empty in Idle.
func (f *Flow) PendingNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// SendCode normalizes the number and dispatches a challenge. A send within
// the cooldown window of the previous one is rejected with the remaining
// wait; a failed normalization keeps the flow in Idle.
func (f *Flow) SendCode(ctx context.Context, rawNumber string) error {
	canonical, err := phone.Normalize(rawNumber)
	if err != nil {
		return err
	}

	ok, wait := f.limiter.Allow(canonical)
	if !ok {
		return &CooldownError{Remaining: wait}
	}

	challenge, err := f.challenger.SendCode(ctx, canonical)
	if err != nil {
		// the send never went out, don't burn the cooldown slot
		f.limiter.Reset(canonical)
		return fmt.Errorf("send verification code: %w", err)
	}

	f.mu.Lock()
	f.state = StateCodeSent
	f.pending = canonical
	f.challenge = challenge
	f.mu.Unlock()
	return nil
}

// Verify submits the code. A wrong code surfaces ErrInvalidCode and stays in
// CodeSent; a correct one transitions to Verified and yields the identity.
func (f *Flow) Verify(ctx context.Context, code string) (*auth.Identity, error) {
	f.mu.Lock()
	challenge := f.challenge
	pending := f.pending
	f.mu.Unlock()

	if challenge == nil {
		return nil, ErrNoChallenge
	}

	identity, err := challenge.Confirm(ctx, code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	identity.Phone = pending
	identity.Method = auth.MethodPhone

	f.mu.Lock()
	f.state = StateVerified
	f.challenge = nil
	f.mu.Unlock()
	return identity, nil
}

// Cancel drops the pending challenge and returns to Idle. The cooldown keeps
// running; cancel is not a way around it.
func (f *Flow) Cancel() {
	f.mu.Lock()
	f.state = StateIdle
	f.pending = ""
	f.challenge = nil
	f.mu.Unlock()
}
