package ebay

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gradyserv/marketsync/internal/metrics"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// Planner decides how a revision request is applied to a listing and
// renders the wire payload for the chosen path. A variation path is
// taken only when the listing is classified as a variation listing AND
// the request carries a valid variation name/value pair; otherwise the
// simple-listing paths are used even if the listing happens to have
// variations.
type Planner struct {
	trading    *TradingClient
	classifier ListingClassifier
	offers     OfferClient
	log        *slog.Logger
}

// PlannerOption configures the Planner.
type PlannerOption func(*Planner)

// WithPlannerLogger sets a custom logger.
func WithPlannerLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) {
		p.log = l
	}
}

// NewPlanner creates a Planner with injected dependencies.
func NewPlanner(
	trading *TradingClient,
	classifier ListingClassifier,
	offers OfferClient,
	opts ...PlannerOption,
) *Planner {
	p := &Planner{
		trading:    trading,
		classifier: classifier,
		offers:     offers,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Revise applies one price/quantity update to the target listing and,
// when the request carries an offer id, propagates the quantity to the
// REST-side offer. It returns the strategy that was chosen so callers
// can record it even on failure.
func (p *Planner) Revise(
	ctx context.Context,
	req domain.RevisionRequest,
) (domain.RevisionStrategy, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	profile, err := p.classifier.Classify(ctx, req.ParentListingID)
	if err != nil {
		return "", err
	}

	strategy := selectStrategy(profile, req)

	p.log.Debug("revision planned",
		"listing_id", req.ParentListingID,
		"strategy", string(strategy),
		"quantity", req.Quantity,
	)

	if err := p.execute(ctx, strategy, profile, req); err != nil {
		metrics.RevisionsTotal.
			WithLabelValues(string(strategy), string(domain.RevisionFailed)).Inc()
		return strategy, err
	}

	if req.OfferID != "" {
		if err := p.offers.SetOfferQuantity(ctx, req.OfferID, req.Quantity); err != nil {
			metrics.OfferSyncFailuresTotal.Inc()
			metrics.RevisionsTotal.
				WithLabelValues(string(strategy), string(domain.RevisionOfferSyncFailed)).Inc()
			return strategy, &OfferSyncError{OfferID: req.OfferID, Err: err}
		}
	}

	metrics.RevisionsTotal.
		WithLabelValues(string(strategy), string(domain.RevisionSucceeded)).Inc()
	return strategy, nil
}

func selectStrategy(
	profile domain.ListingProfile,
	req domain.RevisionRequest,
) domain.RevisionStrategy {
	switch {
	case profile.IsVariation && req.HasVariation():
		return domain.StrategyVariation
	case req.Price != nil:
		return domain.StrategyPriceQuantity
	default:
		return domain.StrategyQuantityOnly
	}
}

func (p *Planner) execute(
	ctx context.Context,
	strategy domain.RevisionStrategy,
	profile domain.ListingProfile,
	req domain.RevisionRequest,
) error {
	switch strategy {
	case domain.StrategyVariation:
		return p.reviseVariation(ctx, req)
	case domain.StrategyPriceQuantity:
		if err := p.revisePrice(ctx, req); err != nil {
			return err
		}
		return p.reviseQuantity(ctx, profile, req)
	default:
		return p.reviseQuantity(ctx, profile, req)
	}
}

// reviseVariation issues a single ReviseFixedPriceItem call carrying the
// matched variation's SKU, optional price, and quantity.
func (p *Planner) reviseVariation(ctx context.Context, req domain.RevisionRequest) error {
	var b strings.Builder
	b.WriteString("<Item><ItemID>")
	b.WriteString(EscapeXML(req.ParentListingID))
	b.WriteString("</ItemID><Variation><SKU>")
	b.WriteString(EscapeXML(req.SourceSKU))
	b.WriteString("</SKU>")
	if req.Price != nil {
		b.WriteString("<StartPrice>")
		b.WriteString(formatPrice(*req.Price))
		b.WriteString("</StartPrice>")
	}
	b.WriteString("<Quantity>")
	b.WriteString(strconv.Itoa(req.Quantity))
	b.WriteString("</Quantity>")
	b.WriteString("<VariationSpecifics><NameValueList><Name>")
	b.WriteString(EscapeXML(req.VariationName))
	b.WriteString("</Name><Value>")
	b.WriteString(EscapeXML(req.VariationValue))
	b.WriteString("</Value></NameValueList></VariationSpecifics>")
	b.WriteString("</Variation></Item>")

	return p.call(ctx, "ReviseFixedPriceItem", b.String())
}

// revisePrice issues a price-only ReviseFixedPriceItem call.
func (p *Planner) revisePrice(ctx context.Context, req domain.RevisionRequest) error {
	inner := fmt.Sprintf(
		"<Item><ItemID>%s</ItemID><StartPrice>%s</StartPrice></Item>",
		EscapeXML(req.ParentListingID),
		formatPrice(*req.Price),
	)
	return p.call(ctx, "ReviseFixedPriceItem", inner)
}

// reviseQuantity issues a ReviseInventoryStatus call. The SKU element is
// included only when the cached profile says the listing's inventory is
// tracked by SKU.
func (p *Planner) reviseQuantity(
	ctx context.Context,
	profile domain.ListingProfile,
	req domain.RevisionRequest,
) error {
	var b strings.Builder
	b.WriteString("<InventoryStatus><ItemID>")
	b.WriteString(EscapeXML(req.ParentListingID))
	b.WriteString("</ItemID>")
	if profile.IsSKUTracked && req.SourceSKU != "" {
		b.WriteString("<SKU>")
		b.WriteString(EscapeXML(req.SourceSKU))
		b.WriteString("</SKU>")
	}
	b.WriteString("<Quantity>")
	b.WriteString(strconv.Itoa(req.Quantity))
	b.WriteString("</Quantity></InventoryStatus>")

	return p.call(ctx, "ReviseInventoryStatus", b.String())
}

func (p *Planner) call(ctx context.Context, callName, innerXML string) error {
	body, err := p.trading.Call(ctx, callName, innerXML)
	if err != nil {
		return err
	}
	return CheckAck(callName, body)
}

// formatPrice renders a price with exactly two decimal places.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
