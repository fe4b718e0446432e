package service

import (
	"context"
	"errors"
	"testing"

	"github.com/retailflow/plm-console/internal/core/domain"
)

func TestProductForm_StepValidation(t *testing.T) {
	form := NewProductForm(&stubProducts{}, NewInFlight())

	if form.Current().Draft.Category != domain.CategoryApparel {
		t.Fatal("expected Apparel as the default category")
	}

	_, err := form.Next()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 || ve.Fields[0].Field != "productId" || ve.Fields[1].Field != "name" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
	if form.Current().Step != StepInfo {
		t.Fatal("failed validation must not advance")
	}

	form.Update(domain.ProductDraft{ProductID: "SKU-1", Name: "Red Shoe", Category: "Hats"})
	if st, err := form.Next(); err != nil || st.Step != StepDetails {
		t.Fatalf("expected details step, got %+v %v", st, err)
	}

	_, err = form.Next()
	if !errors.As(err, &ve) || ve.Fields[0].Field != "category" {
		t.Fatalf("expected category error, got %v", err)
	}

	form.Update(domain.ProductDraft{ProductID: "SKU-1", Name: "Red Shoe", Category: domain.CategoryFootwear})
	st, err := form.Next()
	if err != nil || st.Step != StepReview || st.StepTitle != "Review" {
		t.Fatalf("expected review step, got %+v %v", st, err)
	}
	if st, _ := form.Next(); st.Step != StepReview {
		t.Fatal("next must stop at review")
	}
}

func TestProductForm_PrevStopsAtFirst(t *testing.T) {
	form := NewProductForm(&stubProducts{}, NewInFlight())
	if st := form.Prev(); st.Step != StepInfo {
		t.Fatalf("expected step 0, got %d", st.Step)
	}
}

func TestProductForm_Submit(t *testing.T) {
	var sent domain.ProductDraft
	products := &stubProducts{create: func(_ context.Context, _ *domain.Session, d domain.ProductDraft) (*domain.Product, error) {
		sent = d
		return &domain.Product{ID: 10, ProductID: d.ProductID, Name: d.Name, Status: domain.StatusDesign}, nil
	}}
	form := NewProductForm(products, NewInFlight())

	if _, err := form.Submit(context.Background(), adminSession()); err == nil {
		t.Fatal("submit before review must fail")
	}

	form.Update(domain.ProductDraft{ProductID: "SKU-1", Name: "Red Shoe", Category: domain.CategoryApparel, Season: "Fall/Winter 2025"})
	form.Next()
	form.Next()

	created, err := form.Submit(context.Background(), adminSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 10 || sent.Season != "Fall/Winter 2025" {
		t.Fatalf("unexpected result: %+v, sent %+v", created, sent)
	}
	if st := form.Current(); st.Step != StepInfo || st.Draft.ProductID != "" {
		t.Fatalf("form must reset after submit, got %+v", st)
	}
}

func TestProductForm_SubmitFailureKeepsDraft(t *testing.T) {
	products := &stubProducts{create: func(context.Context, *domain.Session, domain.ProductDraft) (*domain.Product, error) {
		return nil, &domain.RequestError{StatusCode: 400, Message: "SKU already exists"}
	}}
	form := NewProductForm(products, NewInFlight())
	form.Update(domain.ProductDraft{ProductID: "SKU-1", Name: "Red Shoe", Category: domain.CategoryApparel})
	form.Next()
	form.Next()

	if _, err := form.Submit(context.Background(), adminSession()); err == nil {
		t.Fatal("expected error")
	}
	if st := form.Current(); st.Step != StepReview || st.Draft.ProductID != "SKU-1" {
		t.Fatalf("draft lost after failed submit: %+v", st)
	}
}

func TestProductForm_SubmitInFlight(t *testing.T) {
	guard := NewInFlight()
	form := NewProductForm(&stubProducts{}, guard)
	form.Update(domain.ProductDraft{ProductID: "SKU-1", Name: "Red Shoe", Category: domain.CategoryApparel})
	form.Next()
	form.Next()

	err := guard.Do(ActionCreateProduct, func() error {
		_, err := form.Submit(context.Background(), adminSession())
		return err
	})
	if !errors.Is(err, domain.ErrActionInFlight) {
		t.Fatalf("expected ErrActionInFlight, got %v", err)
	}
}
