package catalog

import (
	"encoding/json"
	"fmt"
)

// ProductFromAny decodes a JSON-shaped value (typically a map[string]any from
// a request parameter) into a Product.
func ProductFromAny(v any) (Product, error) {
	var p Product

	b, err := json.Marshal(v)
	if err != nil {
		return p, fmt.Errorf("product is not JSON-shaped: %w", err)
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("malformed product: %w", err)
	}
	if p.ID == "" && p.Name == "" {
		return p, fmt.Errorf("product has neither id nor name")
	}

	return p, nil
}

// ProductsFromAny decodes a JSON-shaped array value into products.
func ProductsFromAny(v any) ([]Product, error) {
	if products, ok := v.([]Product); ok {
		return products, nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("products must be an array, got %T", v)
	}

	products := make([]Product, 0, len(items))
	for i, item := range items {
		p, err := ProductFromAny(item)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		products = append(products, p)
	}

	return products, nil
}
