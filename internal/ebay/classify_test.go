package ebay_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradyserv/marketsync/internal/ebay"
)

func getItemBody(trackingMethod string, variationSKUs ...string) string {
	variations := ""
	for _, sku := range variationSKUs {
		variations += fmt.Sprintf("<Variation><SKU>%s</SKU></Variation>", sku)
	}
	if variations != "" {
		variations = "<Variations>" + variations + "</Variations>"
	}
	tracking := ""
	if trackingMethod != "" {
		tracking = "<InventoryTrackingMethod>" + trackingMethod + "</InventoryTrackingMethod>"
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<GetItemResponse xmlns="urn:ebay:apis:eBLBaseComponents">
  <Ack>Success</Ack>
  <Item>%s%s</Item>
</GetItemResponse>`, tracking, variations)
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		wantVariation  bool
		wantSKUTracked bool
	}{
		{
			name:           "plain item",
			body:           getItemBody("ItemID"),
			wantVariation:  false,
			wantSKUTracked: false,
		},
		{
			name:           "sku tracked",
			body:           getItemBody("SKU"),
			wantVariation:  false,
			wantSKUTracked: true,
		},
		{
			name:           "single variation is not a variation listing",
			body:           getItemBody("ItemID", "VAR-1"),
			wantVariation:  false,
			wantSKUTracked: false,
		},
		{
			name:           "two variations",
			body:           getItemBody("ItemID", "VAR-1", "VAR-2"),
			wantVariation:  true,
			wantSKUTracked: false,
		},
		{
			name:           "variation listing with sku tracking",
			body:           getItemBody("SKU", "VAR-1", "VAR-2", "VAR-3"),
			wantVariation:  true,
			wantSKUTracked: true,
		},
		{
			name:           "no tracking method element",
			body:           getItemBody(""),
			wantVariation:  false,
			wantSKUTracked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestTradingClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			classifier := ebay.NewClassifier(client)

			profile, err := classifier.Classify(context.Background(), "110012345")
			require.NoError(t, err)
			assert.Equal(t, tt.wantVariation, profile.IsVariation)
			assert.Equal(t, tt.wantSKUTracked, profile.IsSKUTracked)
		})
	}
}

func TestClassifier_Memoizes(t *testing.T) {
	t.Parallel()

	var reads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reads.Add(1)
		w.Write([]byte(getItemBody("SKU", "VAR-1", "VAR-2")))
	}))
	t.Cleanup(srv.Close)

	client := ebay.NewTradingClient(fastGovernor(), "tok", ebay.WithTradingURL(srv.URL))
	classifier := ebay.NewClassifier(client)

	for range 5 {
		profile, err := classifier.Classify(context.Background(), "110012345")
		require.NoError(t, err)
		assert.True(t, profile.IsVariation)
		assert.True(t, profile.IsSKUTracked)
	}

	// At most one remote read per listing id.
	assert.Equal(t, int64(1), reads.Load())
	assert.Equal(t, 1, classifier.CacheSize())
}

func TestClassifier_DistinctListings(t *testing.T) {
	t.Parallel()

	var reads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reads.Add(1)
		w.Write([]byte(getItemBody("ItemID")))
	}))
	t.Cleanup(srv.Close)

	client := ebay.NewTradingClient(fastGovernor(), "tok", ebay.WithTradingURL(srv.URL))
	classifier := ebay.NewClassifier(client)

	_, err := classifier.Classify(context.Background(), "110000001")
	require.NoError(t, err)
	_, err = classifier.Classify(context.Background(), "110000002")
	require.NoError(t, err)

	assert.Equal(t, int64(2), reads.Load())
	assert.Equal(t, 2, classifier.CacheSize())
}

func TestClassifier_FailureNotCached(t *testing.T) {
	t.Parallel()

	var reads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if reads.Add(1) == 1 {
			w.Write([]byte(`<GetItemResponse xmlns="urn:ebay:apis:eBLBaseComponents">
				<Ack>Failure</Ack>
				<Errors><ErrorCode>17</ErrorCode><ShortMessage>Item not found</ShortMessage></Errors>
			</GetItemResponse>`))
			return
		}
		w.Write([]byte(getItemBody("SKU")))
	}))
	t.Cleanup(srv.Close)

	client := ebay.NewTradingClient(fastGovernor(), "tok", ebay.WithTradingURL(srv.URL))
	classifier := ebay.NewClassifier(client)

	_, err := classifier.Classify(context.Background(), "110012345")
	require.Error(t, err)

	var classErr *ebay.ClassificationError
	require.ErrorAs(t, err, &classErr)
	assert.Equal(t, "110012345", classErr.ListingID)

	var remote *ebay.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "17", remote.Code)

	assert.Equal(t, 0, classifier.CacheSize())

	// A later read of the same listing goes back to the remote.
	profile, err := classifier.Classify(context.Background(), "110012345")
	require.NoError(t, err)
	assert.True(t, profile.IsSKUTracked)
	assert.Equal(t, int64(2), reads.Load())
}
