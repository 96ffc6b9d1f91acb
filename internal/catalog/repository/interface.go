// Package repository owns the product catalog data and its durable
// representation. Lookups are case-insensitive; writes are case-preserving.
package repository

// Variant is a priced option of a product, identified by a short code that is
// unique across the whole catalog.
type Variant struct {
	Code  string
	Price int
	Info  string
}

// Product is a sellable item with a description and one or more variants.
// Variant order is preserved for listing and for the "first code" order hint.
type Product struct {
	Name        string
	Description string
	Variants    []Variant
}

// clone returns a copy whose Variants slice does not share backing storage
// with the receiver.
func (p Product) clone() Product {
	out := p
	out.Variants = append([]Variant(nil), p.Variants...)
	return out
}

// FindVariant returns the variant with the given code (case-insensitive).
func (p Product) FindVariant(code string) (Variant, bool) {
	for _, v := range p.Variants {
		if equalFold(v.Code, code) {
			return v, true
		}
	}
	return Variant{}, false
}

// Repository is the catalog store contract. The storage technology behind it
// (flat file today) is swappable without touching command logic.
type Repository interface {
	// Products returns all products in insertion order.
	Products() []Product

	// FindProduct returns the product whose name matches case-insensitively.
	FindProduct(name string) (Product, bool)

	// FindVariant scans products in catalog order and returns the first
	// (product, variant) pair whose variant code matches case-insensitively.
	FindVariant(code string) (Product, Variant, bool)

	// UpsertProduct inserts the product or replaces the product with the same
	// name (case-insensitive). Variant codes claimed by other products are
	// rejected with a conflict error. Persists on success.
	UpsertProduct(product Product) error

	// DeleteProduct removes the product with the given name
	// (case-insensitive). Persists on success.
	DeleteProduct(name string) error

	// RenameVariant removes the old variant code from the named product and
	// inserts the new variant in its place. The new code must not collide
	// with any other variant in the catalog. Persists on success.
	RenameVariant(productName, oldCode string, updated Variant) error
}
