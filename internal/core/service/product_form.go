package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
)

// FormStep is a page of the create-product form.
type FormStep int

const (
	StepInfo FormStep = iota
	StepDetails
	StepReview
)

var stepTitles = [...]string{"Product Info", "Details & Image", "Review"}

func (s FormStep) Title() string {
	if s < StepInfo || s > StepReview {
		return ""
	}
	return stepTitles[s]
}

// stepFields are the draft fields checked before leaving each step.
var stepFields = map[FormStep][]string{
	StepInfo:    {"ProductID", "Name"},
	StepDetails: {"Category"},
}

// FormState is a snapshot of the form.
type FormState struct {
	Step      FormStep            `json:"step"`
	StepTitle string              `json:"stepTitle"`
	Draft     domain.ProductDraft `json:"draft"`
}

// ProductForm walks a draft through the create steps and submits it.
type ProductForm struct {
	products ports.ProductService
	guard    *InFlight
	validate *validator.Validate

	mu    sync.Mutex
	step  FormStep
	draft domain.ProductDraft
}

func NewProductForm(products ports.ProductService, guard *InFlight) *ProductForm {
	return &ProductForm{
		products: products,
		guard:    guard,
		validate: NewValidate(),
		draft:    domain.NewProductDraft(),
	}
}

func (f *ProductForm) Current() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

// Update replaces the draft without moving between steps.
func (f *ProductForm) Update(draft domain.ProductDraft) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = draft
	return f.stateLocked()
}

// Next validates the fields of the current step and moves forward.
func (f *ProductForm) Next() (FormState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step == StepReview {
		return f.stateLocked(), nil
	}
	if fields := stepFields[f.step]; len(fields) > 0 {
		if err := f.validate.StructPartial(f.draft, fields...); err != nil {
			return f.stateLocked(), AsValidationError(err)
		}
	}
	f.step++
	return f.stateLocked(), nil
}

// Prev moves back one step; it stops at the first.
func (f *ProductForm) Prev() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepInfo {
		f.step--
	}
	return f.stateLocked()
}

func (f *ProductForm) Reset() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	return f.stateLocked()
}

// Submit creates the product from the review step. Overlapping submits fail
// with domain.ErrActionInFlight. The form is reset only on success.
func (f *ProductForm) Submit(ctx context.Context, sess *domain.Session) (*domain.Product, error) {
	f.mu.Lock()
	step, draft := f.step, f.draft
	f.mu.Unlock()

	if step != StepReview {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "step", Message: "review the product before submitting"},
		}}
	}
	if err := f.validate.Struct(draft); err != nil {
		return nil, AsValidationError(err)
	}

	var created *domain.Product
	err := f.guard.Do(ActionCreateProduct, func() error {
		var err error
		created, err = f.products.Create(ctx, sess, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.resetLocked()
	f.mu.Unlock()
	return created, nil
}

func (f *ProductForm) resetLocked() {
	f.step = StepInfo
	f.draft = domain.NewProductDraft()
}

func (f *ProductForm) stateLocked() FormState {
	return FormState{Step: f.step, StepTitle: f.step.Title(), Draft: f.draft}
}
