package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup references an id the catalog does not contain.
var ErrNotFound = errors.New("catalog: not found")

// SizeOption is one printable size of a product type. The multiplier scales the
// product's base price; the same size label can carry different multipliers on
// different product types.
type SizeOption struct {
	ID         string
	Multiplier float64
}

// ProductType is an immutable catalog entry for one printable product.
type ProductType struct {
	ID          string
	Name        string
	BasePrice   float64
	Sizes       []SizeOption
	MaterialIDs []string
}

// MaterialOption is a finish applied per unit. Materials form a flat catalog
// shared across product types.
type MaterialOption struct {
	ID        string
	Name      string
	Surcharge float64
}

// Provider is a fulfillment partner. CommissionRate is the fraction of the
// subtotal the provider retains, always in [0, 1).
type Provider struct {
	ID             string
	Name           string
	CommissionRate float64
	ShippingTime   string
}

// Catalog is the read-only product configuration model. It is built once at
// startup and never mutated afterwards, so it is safe for concurrent reads.
type Catalog struct {
	types     map[string]ProductType
	materials map[string]MaterialOption
	providers []Provider
	byProv    map[string]Provider
}

// New builds a Catalog from in-memory definitions. Provider order is preserved
// for display. It fails if any provider carries a commission rate outside
// [0, 1) or any product type references a material missing from the catalog.
func New(types []ProductType, materials []MaterialOption, providers []Provider) (*Catalog, error) {
	c := &Catalog{
		types:     make(map[string]ProductType, len(types)),
		materials: make(map[string]MaterialOption, len(materials)),
		providers: make([]Provider, 0, len(providers)),
		byProv:    make(map[string]Provider, len(providers)),
	}

	for _, m := range materials {
		if m.Surcharge < 0 {
			return nil, fmt.Errorf("material %q: negative surcharge %v", m.ID, m.Surcharge)
		}
		c.materials[m.ID] = m
	}

	for _, pt := range types {
		if pt.BasePrice < 0 {
			return nil, fmt.Errorf("product type %q: negative base price %v", pt.ID, pt.BasePrice)
		}
		for _, s := range pt.Sizes {
			if s.Multiplier < 1.0 {
				return nil, fmt.Errorf("product type %q size %q: multiplier %v below 1.0", pt.ID, s.ID, s.Multiplier)
			}
		}
		for _, mid := range pt.MaterialIDs {
			if _, ok := c.materials[mid]; !ok {
				return nil, fmt.Errorf("product type %q references unknown material %q", pt.ID, mid)
			}
		}
		c.types[pt.ID] = pt
	}

	for _, p := range providers {
		if p.CommissionRate < 0 || p.CommissionRate >= 1 {
			return nil, fmt.Errorf("provider %q: commission rate %v outside [0, 1)", p.ID, p.CommissionRate)
		}
		c.providers = append(c.providers, p)
		c.byProv[p.ID] = p
	}

	return c, nil
}

// ProductType looks up one product type by id.
func (c *Catalog) ProductType(id string) (ProductType, error) {
	pt, ok := c.types[id]
	if !ok {
		return ProductType{}, fmt.Errorf("product type %q: %w", id, ErrNotFound)
	}
	return pt, nil
}

// SizeMultiplier resolves the multiplier for a size within one product type.
// The lookup is scoped: "G" on apparel and "G" on another product type are
// unrelated entries.
func (c *Catalog) SizeMultiplier(productTypeID, sizeID string) (float64, error) {
	pt, err := c.ProductType(productTypeID)
	if err != nil {
		return 0, err
	}
	for _, s := range pt.Sizes {
		if s.ID == sizeID {
			return s.Multiplier, nil
		}
	}
	return 0, fmt.Errorf("size %q for product type %q: %w", sizeID, productTypeID, ErrNotFound)
}

// MaterialSurcharge returns the per-unit surcharge for a material. Unknown
// materials resolve to 0 rather than an error, so optional or no-op finishes
// price as plain base cost.
func (c *Catalog) MaterialSurcharge(materialID string) float64 {
	return c.materials[materialID].Surcharge
}

// Material looks up one material by id.
func (c *Catalog) Material(id string) (MaterialOption, error) {
	m, ok := c.materials[id]
	if !ok {
		return MaterialOption{}, fmt.Errorf("material %q: %w", id, ErrNotFound)
	}
	return m, nil
}

// Providers returns the fulfillment providers in display order.
func (c *Catalog) Providers() []Provider {
	out := make([]Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

// Provider looks up one provider by id.
func (c *Catalog) Provider(id string) (Provider, error) {
	p, ok := c.byProv[id]
	if !ok {
		return Provider{}, fmt.Errorf("provider %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// WithProviders returns a copy of the catalog with the provider list replaced,
// leaving the receiver untouched. Used after a successful provider refresh
// from the backend.
func (c *Catalog) WithProviders(providers []Provider) (*Catalog, error) {
	next := &Catalog{
		types:     c.types,
		materials: c.materials,
		providers: make([]Provider, 0, len(providers)),
		byProv:    make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		if p.CommissionRate < 0 || p.CommissionRate >= 1 {
			return nil, fmt.Errorf("provider %q: commission rate %v outside [0, 1)", p.ID, p.CommissionRate)
		}
		next.providers = append(next.providers, p)
		next.byProv[p.ID] = p
	}
	return next, nil
}
