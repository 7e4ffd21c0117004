package otp

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
)

// SMSSender delivers the code to the shopper's phone.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

// LogSender prints codes to the log instead of sending them. Development
// only.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, message string) error {
	log.Printf("sms to %s: %s", to, message)
	return nil
}

// HTTPSender posts {to, message} to an SMS gateway webhook.
type HTTPSender struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSender) Send(ctx context.Context, to, message string) error {
	payload, err := json.Marshal(map[string]string{"to": to, "message": message})
	if err != nil {
		return fmt.Errorf("encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %s", resp.Status)
	}
	return nil
}

// KVChallenger stores one outstanding code per number in the shared kv store,
// so a resend replaces the previous code.
type KVChallenger struct {
	slots  kv.Store
	sender SMSSender
}

func NewKVChallenger(slots kv.Store, sender SMSSender) *KVChallenger {
	return &KVChallenger{slots: slots, sender: sender}
}

func codeKey(e164 string) string {
	return fmt.Sprintf("otp:%s", e164)
}

func (c *KVChallenger) SendCode(ctx context.Context, e164 string) (Challenge, error) {
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	if err := c.slots.Set(ctx, codeKey(e164), []byte(code)); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}
	if err := c.sender.Send(ctx, e164, fmt.Sprintf("Your TanvirEmart verification code is %s", code)); err != nil {
		return nil, err
	}
	return &kvChallenge{slots: c.slots, e164: e164}, nil
}

type kvChallenge struct {
	slots kv.Store
	e164  string
}

// Confirm checks the submitted code against the stored one. The code is
// consumed only on success, a typo does not force a resend.
func (ch *kvChallenge) Confirm(ctx context.Context, code string) (*auth.Identity, error) {
	stored, err := ch.slots.Get(ctx, codeKey(ch.e164))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, errors.New("code expired")
	}
	if err != nil {
		return nil, fmt.Errorf("load code: %w", err)
	}

	if subtle.ConstantTimeCompare(stored, []byte(code)) != 1 {
		return nil, errors.New("code mismatch")
	}

	if _, err := ch.slots.Take(ctx, codeKey(ch.e164)); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("consume code: %w", err)
	}

	return &auth.Identity{
		UID:    "ph_" + strings.TrimPrefix(ch.e164, "+"),
		Phone:  ch.e164,
		Method: auth.MethodPhone,
	}, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
