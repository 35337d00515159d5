package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

func TestNormalizeQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "negative int", in: -5, want: 0},
		{name: "non-numeric string", in: "abc", want: 0},
		{name: "nil", in: nil, want: 0},
		{name: "fractional floors", in: 3.9, want: 3},
		{name: "zero", in: 0, want: 0},
		{name: "positive int", in: 12, want: 12},
		{name: "numeric string", in: "7", want: 7},
		{name: "fractional string floors", in: "2.8", want: 2},
		{name: "negative string", in: "-3", want: 0},
		{name: "padded string", in: "  4 ", want: 4},
		{name: "negative float", in: -0.1, want: 0},
		{name: "int64", in: int64(9), want: 9},
		{name: "bool is not a quantity", in: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.NormalizeQuantity(tt.in))
		})
	}
}

func TestRevisionRequest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("missing listing id", func(t *testing.T) {
		t.Parallel()
		req := domain.RevisionRequest{Quantity: 1}
		require.ErrorIs(t, req.Validate(), domain.ErrMissingListingID)
	})

	t.Run("whitespace listing id", func(t *testing.T) {
		t.Parallel()
		req := domain.RevisionRequest{ParentListingID: "   "}
		require.ErrorIs(t, req.Validate(), domain.ErrMissingListingID)
	})

	t.Run("negative quantity clamped", func(t *testing.T) {
		t.Parallel()
		req := domain.RevisionRequest{ParentListingID: "110012345", Quantity: -3}
		require.NoError(t, req.Validate())
		assert.Equal(t, 0, req.Quantity)
	})
}

func TestRevisionRequest_HasVariation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		vName string
		vVal  string
		want  bool
	}{
		{name: "both set", vName: "Color", vVal: "Red", want: true},
		{name: "name only", vName: "Color", vVal: "", want: false},
		{name: "value only", vName: "", vVal: "Red", want: false},
		{name: "whitespace value", vName: "Color", vVal: "  ", want: false},
		{name: "neither", vName: "", vVal: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := domain.RevisionRequest{
				ParentListingID: "110012345",
				VariationName:   tt.vName,
				VariationValue:  tt.vVal,
			}
			assert.Equal(t, tt.want, req.HasVariation())
		})
	}
}

func TestSyncMapping_Request(t *testing.T) {
	t.Parallel()

	m := domain.SyncMapping{
		SourceSKU:      "AMZ-123",
		ListingID:      "110012345",
		OfferID:        "offer-9",
		VariationName:  "Size",
		VariationValue: "L",
		SyncPrice:      true,
	}

	req := m.Request(domain.ProductRecord{SKU: "AMZ-123", Price: 19.99, Quantity: 4})

	require.NotNil(t, req.Price)
	assert.InDelta(t, 19.99, *req.Price, 0.0001)
	assert.Equal(t, 4, req.Quantity)
	assert.Equal(t, "110012345", req.ParentListingID)
	assert.Equal(t, "offer-9", req.OfferID)
	assert.True(t, req.HasVariation())

	m.SyncPrice = false
	req = m.Request(domain.ProductRecord{Quantity: -2})
	assert.Nil(t, req.Price)
	assert.Equal(t, 0, req.Quantity)
}

func TestSyncMapping_Validate(t *testing.T) {
	t.Parallel()

	m := domain.SyncMapping{}
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source_sku is required")
	assert.Contains(t, err.Error(), "listing_id is required")

	m = domain.SyncMapping{SourceSKU: "AMZ-1", ListingID: "110012345"}
	require.NoError(t, m.Validate())
}
