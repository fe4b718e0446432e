package service

import (
	"testing"

	"github.com/retailflow/plm-console/internal/core/domain"
)

func TestFilterProducts(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Red Shoe"},
		{ID: 2, Name: "Blue Hat", Description: "red trim"},
		{ID: 3, Name: "Green Scarf"},
	}

	cases := []struct {
		term string
		want []int64
	}{
		{"red", []int64{1, 2}},
		{"RED", []int64{1, 2}},
		{"hat", []int64{2}},
		{"", []int64{1, 2, 3}},
		{"purple", []int64{}},
	}

	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			got := FilterProducts(products, tc.term)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %+v", tc.want, got)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFilterProducts_DoesNotMutateInput(t *testing.T) {
	products := []domain.Product{{ID: 1, Name: "Red Shoe"}, {ID: 2, Name: "Blue Hat"}}

	all := FilterProducts(products, "")
	all[0].Name = "changed"
	if products[0].Name != "Red Shoe" {
		t.Fatal("filter returned a view sharing the input")
	}
	if len(FilterProducts(products, "blue")) != 1 || len(products) != 2 {
		t.Fatal("input length changed")
	}
}
