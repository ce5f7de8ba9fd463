// Package configurator drives the linear product configuration flow:
// product type, size, material, provider, quantity, optional shipping quote,
// add to cart. One Controller exists per checkout session; there is no
// package-level state.
package configurator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fotomarket/printcore/internal/cart"
	"github.com/fotomarket/printcore/internal/catalog"
	"github.com/fotomarket/printcore/internal/pricing"
	"github.com/fotomarket/printcore/internal/shipping"
)

var (
	// ErrIncompleteSelection is returned when an operation needs fields the
	// user has not chosen yet.
	ErrIncompleteSelection = errors.New("configurator: selection incomplete")

	// ErrSuperseded is returned to a shipping-quote caller whose request was
	// overtaken by a newer one before its response arrived. The newer
	// request's result is the one applied.
	ErrSuperseded = errors.New("configurator: quote request superseded")

	// ErrUnknownShippingOption is returned when selecting a shipping option
	// code that is not part of the current quote.
	ErrUnknownShippingOption = errors.New("configurator: unknown shipping option")
)

// ChangeKind identifies which selection field a Change mutates.
type ChangeKind int

const (
	SetProductType ChangeKind = iota
	SetSize
	SetMaterial
	SetProvider
	SetQuantity
)

// Change is one explicit selection transition. Value carries the option id
// for everything except SetQuantity, which uses Quantity.
type Change struct {
	Kind     ChangeKind
	Value    string
	Quantity int
}

// Selection is the in-progress product configuration. It exists only while
// the user is configuring; FinalizeLineItem converts it into an immutable
// cart.LineItem.
type Selection struct {
	PhotoID       string
	PhotoURL      string
	PhotoTitle    string
	ProductTypeID string
	SizeID        string
	MaterialID    string
	ProviderID    string
	Quantity      int
}

// Controller owns one Selection and orchestrates pricing, shipping quotes,
// and the cart. Construct one per session and pass it to whatever renders it.
type Controller struct {
	catalog *catalog.Catalog
	engine  *pricing.Engine
	rates   *shipping.Client
	basket  *cart.Aggregator

	mu        sync.Mutex
	sel       Selection
	breakdown pricing.Breakdown
	priced    bool

	quoteGen       uint64
	quoteOptions   []shipping.Option
	chosenShipping *shipping.Option
}

// New returns a Controller for one photo being configured.
func New(c *catalog.Catalog, engine *pricing.Engine, rates *shipping.Client, basket *cart.Aggregator, photoID, photoURL, photoTitle string) *Controller {
	return &Controller{
		catalog: c,
		engine:  engine,
		rates:   rates,
		basket:  basket,
		sel: Selection{
			PhotoID:    photoID,
			PhotoURL:   photoURL,
			PhotoTitle: photoTitle,
			Quantity:   1,
		},
	}
}

// Apply validates and applies one selection change, then synchronously
// reprices. Options absent from the catalog are rejected as input errors, not
// silently defaulted. The returned breakdown is zero until the selection is
// complete enough to price (product type, size, and provider chosen).
func (c *Controller) Apply(change Change) (pricing.Breakdown, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch change.Kind {
	case SetProductType:
		if _, err := c.catalog.ProductType(change.Value); err != nil {
			return pricing.Breakdown{}, err
		}
		c.sel.ProductTypeID = change.Value
		// Size and material tables are scoped to the product type, and any
		// quote was for the old product. Reset dependent state.
		c.sel.SizeID = ""
		c.sel.MaterialID = ""
		c.resetQuoteLocked()
	case SetSize:
		if c.sel.ProductTypeID == "" {
			return pricing.Breakdown{}, fmt.Errorf("%w: choose a product type before a size", ErrIncompleteSelection)
		}
		if _, err := c.catalog.SizeMultiplier(c.sel.ProductTypeID, change.Value); err != nil {
			return pricing.Breakdown{}, err
		}
		c.sel.SizeID = change.Value
	case SetMaterial:
		if _, err := c.catalog.Material(change.Value); err != nil {
			return pricing.Breakdown{}, err
		}
		c.sel.MaterialID = change.Value
	case SetProvider:
		if _, err := c.catalog.Provider(change.Value); err != nil {
			return pricing.Breakdown{}, err
		}
		c.sel.ProviderID = change.Value
		c.resetQuoteLocked()
	case SetQuantity:
		if change.Quantity < pricing.MinQuantity || change.Quantity > pricing.MaxQuantity {
			return pricing.Breakdown{}, fmt.Errorf("%w: quantity %d outside [%d, %d]",
				pricing.ErrInvalidSelection, change.Quantity, pricing.MinQuantity, pricing.MaxQuantity)
		}
		c.sel.Quantity = change.Quantity
		c.resetQuoteLocked()
	default:
		return pricing.Breakdown{}, fmt.Errorf("unknown change kind %d", change.Kind)
	}

	return c.repriceLocked()
}

// repriceLocked recomputes the breakdown from the current selection. Partial
// selections are not an error; they just have nothing to price yet.
func (c *Controller) repriceLocked() (pricing.Breakdown, error) {
	if c.sel.ProductTypeID == "" || c.sel.SizeID == "" || c.sel.ProviderID == "" {
		c.breakdown = pricing.Breakdown{}
		c.priced = false
		return pricing.Breakdown{}, nil
	}

	b, err := c.engine.Price(c.sel.ProductTypeID, c.sel.SizeID, c.sel.MaterialID, c.sel.ProviderID, c.sel.Quantity)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	c.breakdown = b
	c.priced = true
	return b, nil
}

// Selection returns a copy of the in-progress selection.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// Breakdown returns the latest price breakdown and whether one is available.
func (c *Controller) Breakdown() (pricing.Breakdown, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.breakdown, c.priced
}

// RequestShippingQuote asks the rate service for options to the destination.
// It is safe to call again before a previous call returns: each call bumps a
// generation counter, and a response is applied only if its generation is
// still the latest. Overtaken callers get ErrSuperseded; the winning response
// records the option list and defaults the chosen option to the first one.
func (c *Controller) RequestShippingQuote(ctx context.Context, destinationPostal string) ([]shipping.Option, error) {
	c.mu.Lock()
	if c.sel.ProviderID == "" || c.sel.ProductTypeID == "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: provider and product type required for a shipping quote", ErrIncompleteSelection)
	}
	c.quoteGen++
	gen := c.quoteGen
	providerID := c.sel.ProviderID
	productTypeID := c.sel.ProductTypeID
	quantity := c.sel.Quantity
	c.mu.Unlock()

	options, err := c.rates.Quote(ctx, destinationPostal, providerID, productTypeID, quantity)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.quoteGen {
		return nil, ErrSuperseded
	}
	if err != nil {
		// Keep whatever quote was already applied; the failure is retryable.
		return nil, err
	}

	c.quoteOptions = options
	if len(options) > 0 {
		chosen := options[0]
		c.chosenShipping = &chosen
	} else {
		c.chosenShipping = nil
	}

	out := make([]shipping.Option, len(options))
	copy(out, options)
	return out, nil
}

// ShippingOptions returns the options from the latest applied quote.
func (c *Controller) ShippingOptions() []shipping.Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]shipping.Option, len(c.quoteOptions))
	copy(out, c.quoteOptions)
	return out
}

// SelectShippingOption picks one option from the latest quote by code.
func (c *Controller) SelectShippingOption(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, opt := range c.quoteOptions {
		if opt.Code == code {
			chosen := opt
			c.chosenShipping = &chosen
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownShippingOption, code)
}

// ChosenShipping returns the currently selected shipping option, if any.
func (c *Controller) ChosenShipping() (shipping.Option, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chosenShipping == nil {
		return shipping.Option{}, false
	}
	return *c.chosenShipping, true
}

// FinalizeLineItem snapshots the current selection into an immutable cart
// line item. Size, material, and provider must all be chosen.
func (c *Controller) FinalizeLineItem() (cart.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalizeLocked()
}

func (c *Controller) finalizeLocked() (cart.LineItem, error) {
	var missing []string
	if c.sel.ProductTypeID == "" {
		missing = append(missing, "product type")
	}
	if c.sel.SizeID == "" {
		missing = append(missing, "size")
	}
	if c.sel.MaterialID == "" {
		missing = append(missing, "material")
	}
	if c.sel.ProviderID == "" {
		missing = append(missing, "provider")
	}
	if len(missing) > 0 {
		return cart.LineItem{}, fmt.Errorf("%w: missing %v", ErrIncompleteSelection, missing)
	}

	b, err := c.engine.Price(c.sel.ProductTypeID, c.sel.SizeID, c.sel.MaterialID, c.sel.ProviderID, c.sel.Quantity)
	if err != nil {
		return cart.LineItem{}, err
	}

	item := cart.LineItem{
		ID:          uuid.NewString(),
		PhotoID:     c.sel.PhotoID,
		PhotoURL:    c.sel.PhotoURL,
		PhotoTitle:  c.sel.PhotoTitle,
		ProductType: c.sel.ProductTypeID,
		Size:        c.sel.SizeID,
		Material:    c.sel.MaterialID,
		Provider:    c.sel.ProviderID,
		Quantity:    c.sel.Quantity,
		UnitPrice:   b.UnitBase,
		TotalPrice:  b.FinalTotal,
		AddedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if c.chosenShipping != nil {
		item.ShippingMethod = c.chosenShipping.Code
		item.ShippingPrice = c.chosenShipping.Price
	}

	return item, nil
}

// AddToCart finalizes the current selection, hands the line item to the cart,
// and resets the configuration for the next product.
func (c *Controller) AddToCart(ctx context.Context) (cart.LineItem, error) {
	c.mu.Lock()
	item, err := c.finalizeLocked()
	if err != nil {
		c.mu.Unlock()
		return cart.LineItem{}, err
	}

	c.sel.ProductTypeID = ""
	c.sel.SizeID = ""
	c.sel.MaterialID = ""
	c.sel.ProviderID = ""
	c.sel.Quantity = 1
	c.breakdown = pricing.Breakdown{}
	c.priced = false
	c.resetQuoteLocked()
	c.mu.Unlock()

	if err := c.basket.Add(ctx, item); err != nil {
		return item, err
	}
	return item, nil
}

// resetQuoteLocked invalidates any applied quote and any in-flight request.
func (c *Controller) resetQuoteLocked() {
	c.quoteGen++
	c.quoteOptions = nil
	c.chosenShipping = nil
}
