package main

import (
	"context"

	"loggov/internal/governance/sink"
)

// OrderService logs under the Orders topic.
type OrderService struct {
	log *sink.Logger
}

// GovernanceTopic binds OrderService to the Orders profile.
func (*OrderService) GovernanceTopic() string { return "Orders" }

func NewOrderService(g *sink.Governed) *OrderService {
	s := &OrderService{}
	s.log = g.For(s)
	return s
}

// ProcessValid logs exactly the fields the Orders profile requires.
func (s *OrderService) ProcessValid(ctx context.Context) {
	s.log.Info(ctx, "Valid order: {userId} {email}", "abc123", "user@example.com")
}

// ProcessMissingField omits userId.
func (s *OrderService) ProcessMissingField(ctx context.Context) {
	s.log.Info(ctx, "Missing userId, only email: {email}", "user@example.com")
}

// ProcessForbidden logs a password.
func (s *OrderService) ProcessForbidden(ctx context.Context) {
	s.log.Info(ctx, "Leaking password: {userId} {email} {password}", "abc123", "user@example.com", "supersecret")
}

// PaymentService logs under the Payments topic.
type PaymentService struct {
	log *sink.Logger
}

// GovernanceTopic binds PaymentService to the Payments profile.
func (*PaymentService) GovernanceTopic() string { return "Payments" }

func NewPaymentService(g *sink.Governed) *PaymentService {
	s := &PaymentService{}
	s.log = g.For(s)
	return s
}

// MakePayment logs exactly the fields the Payments profile requires.
func (s *PaymentService) MakePayment(ctx context.Context) {
	s.log.Info(ctx, "Payment: {accountNumber} {amount}", "9876543210", 150.75)
}
