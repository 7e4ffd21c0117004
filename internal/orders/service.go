// Package orders owns the submission pipeline: persist the order, then run
// the non-fatal follow-ups (profile sync, cart reconciliation, navigation
// cleanup). Only the order write can fail a submission.
package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

// SubmissionError means the order itself was not persisted. Everything after
// the order write degrades silently instead.
type SubmissionError struct {
	cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.cause)
}

func (e *SubmissionError) Unwrap() error { return e.cause }

// CartCleaner removes purchased lines from a shopper's cart.
type CartCleaner interface {
	Reconcile(ctx context.Context, purchased []domain.VariantKey) error
}

// NavClearer drops staged checkout context after a completed submission.
type NavClearer interface {
	ClearCheckout(ctx context.Context, sessionID string) error
}

// Result is what the confirmation screen needs.
type Result struct {
	OrderID     string `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

type Service struct {
	orders   Repository
	profiles ProfileRepository
	nav      NavClearer
	breaker  *gobreaker.CircuitBreaker[struct{}]
}

func NewService(orders Repository, profiles ProfileRepository, nav NavClearer) *Service {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "profile-sync",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Service{orders: orders, profiles: profiles, nav: nav, breaker: breaker}
}

// Submit persists the order and runs the follow-ups. The order insert is the
// only fatal step; a profile sync, cart reconcile, or context clear failure
// is logged and the submission still succeeds. Wallet payments reaching this
// point are already validated, Submit does not re-check the form.
func (s *Service) Submit(ctx context.Context, sessionID string, order *domain.Order, cart CartCleaner) (*Result, error) {
	id, err := s.orders.Insert(ctx, order)
	if err != nil {
		return nil, &SubmissionError{cause: err}
	}

	s.syncProfile(ctx, order)

	if cart != nil {
		purchased := make([]domain.VariantKey, 0, len(order.Items))
		for _, li := range order.Items {
			purchased = append(purchased, li.Key())
		}
		if err := cart.Reconcile(ctx, purchased); err != nil {
			log.Printf("failed to reconcile cart after order %s: %v", order.OrderNumber, err)
		}
	}

	if err := s.nav.ClearCheckout(ctx, sessionID); err != nil {
		log.Printf("failed to clear checkout context for session %s: %v", sessionID, err)
	}

	return &Result{OrderID: id, OrderNumber: order.OrderNumber}, nil
}

// syncProfile runs the profile cache update behind a breaker so a struggling
// profiles collection cannot slow down order submissions.
func (s *Service) syncProfile(ctx context.Context, order *domain.Order) {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.profiles.RecordOrder(ctx, order.UserID, &order.CheckoutDraft)
	})
	if err != nil {
		log.Printf("failed to sync profile for user %s: %v", order.UserID, err)
	}
}

// History returns the user's orders, newest first, optionally narrowed to a
// single status.
func (s *Service) History(ctx context.Context, userID string, status domain.OrderStatus) ([]domain.Order, error) {
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	if status == "" {
		return list, nil
	}

	filtered := make([]domain.Order, 0, len(list))
	for _, order := range list {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}
