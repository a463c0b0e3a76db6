package services

import (
	"context"
	"errors"
	"testing"
)

func TestNewsletterLifecycle(t *testing.T) {
	repo := newFakeNewsletterRepo()
	svc := NewNewsletterService(repo)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, SubscribeInput{Email: "  Fan@Example.com ", Name: ptr("Fan")})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.Email != "fan@example.com" || !sub.IsActive {
		t.Fatalf("subscription = %+v", sub)
	}

	if _, err := svc.Subscribe(ctx, SubscribeInput{Email: "fan@example.com"}); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("duplicate Subscribe = %v, want ErrAlreadySubscribed", err)
	}

	if err := svc.Unsubscribe(ctx, "FAN@example.com"); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := svc.Unsubscribe(ctx, "fan@example.com"); !errors.Is(err, ErrAlreadyUnsubscribed) {
		t.Fatalf("second Unsubscribe = %v, want ErrAlreadyUnsubscribed", err)
	}

	again, err := svc.Subscribe(ctx, SubscribeInput{Email: "fan@example.com", Name: ptr("Returning Fan")})
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if !again.IsActive || again.UnsubscribedAt != nil || again.ID != sub.ID {
		t.Errorf("reactivated subscription = %+v", again)
	}
	if again.Name == nil || *again.Name != "Returning Fan" {
		t.Errorf("name not updated: %v", again.Name)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.Active != 1 {
		t.Errorf("stats = %+v, want one active", stats)
	}
}

func TestNewsletterUnsubscribeUnknown(t *testing.T) {
	svc := NewNewsletterService(newFakeNewsletterRepo())
	if err := svc.Unsubscribe(context.Background(), "nobody@example.com"); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("err = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestNewsletterInvalidEmail(t *testing.T) {
	svc := NewNewsletterService(newFakeNewsletterRepo())
	_, err := svc.Subscribe(context.Background(), SubscribeInput{Email: "not-an-email"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestNewsletterSubscribersReport(t *testing.T) {
	repo := newFakeNewsletterRepo()
	svc := NewNewsletterService(repo)
	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.Subscribe(ctx, SubscribeInput{Email: email}); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Unsubscribe(ctx, "b@example.com"); err != nil {
		t.Fatal(err)
	}

	active := true
	report, err := svc.Subscribers(ctx, &active)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Data) != 1 || report.Data[0].Email != "a@example.com" {
		t.Errorf("data = %+v", report.Data)
	}
	if report.Stats.Total != 2 || report.Stats.Inactive != 1 {
		t.Errorf("stats = %+v", report.Stats)
	}
}
