package catalog

import "github.com/noah-isme/backend-greenmart/internal/money"

// DefaultProducts returns the storefront's demo catalog.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:       "item1",
			Name:     "Wireless Headphones",
			Price:    money.MustParse("199.99"),
			ImageURL: "https://cdn.greenmart.dev/products/wireless-headphones.jpg",
			Variants: []string{"Black", "White"},
		},
		{
			ID:       "item2",
			Name:     "Organic Cotton T-Shirt",
			Price:    money.MustParse("29.99"),
			ImageURL: "https://cdn.greenmart.dev/products/organic-tshirt.jpg",
			Variants: []string{"Small, Green", "Medium, Green", "Large, Green"},
		},
		{
			ID:       "item3",
			Name:     "Eco-Friendly Water Bottle",
			Price:    money.MustParse("24.50"),
			ImageURL: "https://cdn.greenmart.dev/products/water-bottle.jpg",
		},
	}
}

// DefaultRecommended returns the storefront's cross-sell list.
func DefaultRecommended() []Product {
	return []Product{
		{
			ID:       "rec1",
			Name:     "Bamboo Toothbrush",
			Price:    money.MustParse("12.99"),
			ImageURL: "https://cdn.greenmart.dev/products/bamboo-toothbrush.jpg",
		},
		{
			ID:       "rec2",
			Name:     "Reusable Shopping Bag",
			Price:    money.MustParse("9.99"),
			ImageURL: "https://cdn.greenmart.dev/products/reusable-bag.jpg",
		},
		{
			ID:       "rec3",
			Name:     "Organic Lip Balm",
			Price:    money.MustParse("4.99"),
			ImageURL: "https://cdn.greenmart.dev/products/lip-balm.jpg",
		},
	}
}
