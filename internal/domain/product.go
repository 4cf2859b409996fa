package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type ProductType string

const (
	ProductTypeCubeCake ProductType = "CUBE_CAKE"
	ProductTypeTart     ProductType = "TART"
	ProductTypePudding  ProductType = "PUDDING"
)

var ProductTypes = []ProductType{ProductTypeCubeCake, ProductTypeTart, ProductTypePudding}

func ParseProductType(s string) (ProductType, error) {
	t := ProductType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown product type %q", ErrValidation, s)
	}
	return t, nil
}

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeCubeCake, ProductTypeTart, ProductTypePudding:
		return true
	}
	return false
}

// DisplayName is the label printed on receipts.
func (t ProductType) DisplayName() string {
	switch t {
	case ProductTypeCubeCake:
		return "Cube Cake"
	case ProductTypeTart:
		return "Tart"
	case ProductTypePudding:
		return "Pudding"
	}
	return string(t)
}

// ProductKey is the catalog identity of a product.
type ProductKey struct {
	Type    ProductType `json:"type"`
	Variant string      `json:"variant"`
}

type Product struct {
	ID      int64           `json:"id"`
	Type    ProductType     `json:"type"`
	Variant string          `json:"variant"`
	Price   decimal.Decimal `json:"price"`
}

func (p Product) Key() ProductKey {
	return ProductKey{Type: p.Type, Variant: p.Variant}
}

// Validate checks the fields a catalog entry must satisfy before it is stored.
func (p Product) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown product type %q", ErrValidation, p.Type)
	}
	if strings.TrimSpace(p.Variant) == "" {
		return fmt.Errorf("%w: variant is required", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

func (p Product) String() string {
	printer := message.NewPrinter(language.English)
	return printer.Sprintf("%s - %s (Rp %d)", p.Type.DisplayName(), p.Variant, p.Price.IntPart())
}
