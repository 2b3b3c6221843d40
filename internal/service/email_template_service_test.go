package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

func setupEmailTemplateService(t *testing.T) *EmailTemplateService {
	t.Helper()
	return NewEmailTemplateService(repository.NewEmailTemplateRepository(openServiceTestDB(t)))
}

func TestEmailTemplateCreateExtractsVariables(t *testing.T) {
	svc := setupEmailTemplateService(t)

	template, err := svc.Create(EmailTemplateInput{
		TemplateName: "Order confirmation",
		TemplateType: "Order_Confirmation",
		Subject:      "Order {order_id} confirmed",
		HTMLContent:  "<p>Hi {customer_name}, thanks for order {order_id}.</p>",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if template.TemplateType != constants.EmailTypeOrderConfirmation || !template.IsActive {
		t.Fatalf("unexpected template: %+v", template)
	}
	if want := []string{"order_id", "customer_name"}; !reflect.DeepEqual([]string(template.Variables), want) {
		t.Fatalf("unexpected variables: %v", template.Variables)
	}

	cases := []EmailTemplateInput{
		{TemplateType: "welcome", Subject: "s", TextContent: "t"},
		{TemplateName: "n", TemplateType: "sms", Subject: "s", TextContent: "t"},
		{TemplateName: "n", TemplateType: "welcome", TextContent: "t"},
		{TemplateName: "n", TemplateType: "welcome", Subject: "s"},
	}
	for i, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestEmailTemplatePreview(t *testing.T) {
	svc := setupEmailTemplateService(t)
	template, err := svc.Create(EmailTemplateInput{
		TemplateName: "Welcome",
		TemplateType: "welcome",
		Subject:      "Welcome, {first_name}!",
		TextContent:  "Use code {coupon} at {shop_url}.",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	preview, err := svc.Preview(template.ID, map[string]string{"first_name": "Lily", "coupon": "HOP10"})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if preview.Subject != "Welcome, Lily!" || preview.TextContent != "Use code HOP10 at {shop_url}." {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	if !reflect.DeepEqual(preview.Missing, []string{"shop_url"}) {
		t.Fatalf("unexpected missing list: %v", preview.Missing)
	}

	if _, err := svc.Preview(999, nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestEmailTemplateAssignmentBlocksDelete(t *testing.T) {
	svc := setupEmailTemplateService(t)
	first, _ := svc.Create(EmailTemplateInput{TemplateName: "A", TemplateType: "custom", Subject: "A", TextContent: "a"})
	second, _ := svc.Create(EmailTemplateInput{TemplateName: "B", TemplateType: "custom", Subject: "B", TextContent: "b"})

	if _, err := svc.Assign("welcome", first.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.Assign("welcome", second.ID); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	assignments, err := svc.ListAssignments()
	if err != nil || len(assignments) != 1 || assignments[0].TemplateID != second.ID {
		t.Fatalf("assignment should be replaced: %+v err=%v", assignments, err)
	}

	if err := svc.Delete(second.ID); !errors.Is(err, ErrTemplateAssigned) {
		t.Fatalf("expected ErrTemplateAssigned, got %v", err)
	}
	if err := svc.Delete(first.ID); err != nil {
		t.Fatalf("delete unassigned failed: %v", err)
	}
	if _, err := svc.Assign("fax", second.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}

	inactive := false
	if _, err := svc.Update(second.ID, EmailTemplateInput{TemplateName: "B", TemplateType: "custom", Subject: "B", TextContent: "b", IsActive: &inactive}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := svc.Assign("custom", second.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("inactive template cannot be assigned, got %v", err)
	}
}
