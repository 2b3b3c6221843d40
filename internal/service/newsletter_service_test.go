package service

import (
	"errors"
	"testing"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

func setupNewsletterService(t *testing.T) *NewsletterService {
	t.Helper()
	svc := NewNewsletterService(repository.NewNewsletterRepository(openServiceTestDB(t)))
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestNewsletterCampaignLifecycle(t *testing.T) {
	svc := setupNewsletterService(t)

	campaign, err := svc.CreateCampaign(CampaignInput{Subject: " Spring drop "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if campaign.Status != constants.CampaignStatusDraft || campaign.Subject != "Spring drop" {
		t.Fatalf("unexpected campaign: %+v", campaign)
	}

	if _, err := svc.UpdateCampaign(campaign.ID, CampaignInput{Subject: "Spring drop", Status: "scheduled"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("scheduled without time should fail, got %v", err)
	}
	at := time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)
	if _, err := svc.UpdateCampaign(campaign.ID, CampaignInput{Subject: "Spring drop", Status: "scheduled", ScheduledAt: &at}); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	sent, err := svc.UpdateCampaign(campaign.ID, CampaignInput{Subject: "Spring drop", Status: "sent", ScheduledAt: &at})
	if err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	if sent.SentAt == nil {
		t.Fatalf("sent_at should be stamped")
	}
	if _, err := svc.UpdateCampaign(campaign.ID, CampaignInput{Subject: "Edited"}); !errors.Is(err, ErrCampaignSent) {
		t.Fatalf("expected ErrCampaignSent, got %v", err)
	}

	list, total, err := svc.ListCampaigns(repository.CampaignListFilter{Status: "SENT"})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("unexpected list: %d %d err=%v", len(list), total, err)
	}

	if err := svc.DeleteCampaign(campaign.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetCampaign(campaign.ID); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
	if _, err := svc.CreateCampaign(CampaignInput{Subject: "x", Status: "queued"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status should fail, got %v", err)
	}
}

func TestNewsletterSubscribers(t *testing.T) {
	svc := setupNewsletterService(t)

	sub, err := svc.AddSubscriber(SubscriberInput{Email: " Lily@Example.com ", FirstName: "Lily"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if sub.Email != "lily@example.com" || !sub.IsActive {
		t.Fatalf("unexpected subscriber: %+v", sub)
	}
	if _, err := svc.AddSubscriber(SubscriberInput{Email: "lily@example.com"}); !errors.Is(err, ErrSubscriberExists) {
		t.Fatalf("expected ErrSubscriberExists, got %v", err)
	}
	for _, bad := range []string{"", "not-an-email", "Lily <lily@example.com>"} {
		if _, err := svc.AddSubscriber(SubscriberInput{Email: bad}); !errors.Is(err, ErrValidation) {
			t.Fatalf("email %q should be rejected, got %v", bad, err)
		}
	}

	off, err := svc.DeactivateSubscriber(sub.ID)
	if err != nil || off.IsActive {
		t.Fatalf("deactivate failed: %+v err=%v", off, err)
	}
	active, total, err := svc.ListSubscribers(repository.SubscriberListFilter{OnlyActive: true})
	if err != nil || total != 0 || len(active) != 0 {
		t.Fatalf("expected no active subscribers, got %d err=%v", total, err)
	}

	again, err := svc.AddSubscriber(SubscriberInput{Email: "lily@example.com"})
	if err != nil {
		t.Fatalf("resubscribe failed: %v", err)
	}
	if again.ID != sub.ID || !again.IsActive || again.FirstName != "Lily" {
		t.Fatalf("resubscribe should reactivate the same row: %+v", again)
	}

	if _, err := svc.DeactivateSubscriber(999); !errors.Is(err, ErrSubscriberNotFound) {
		t.Fatalf("expected ErrSubscriberNotFound, got %v", err)
	}
}
