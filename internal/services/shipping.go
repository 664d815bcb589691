package services

// ShippingOption is one deliverable tier quoted for a destination.
type ShippingOption struct {
	Label string  `json:"descricao"`
	Price float64 `json:"valor"`
}

var (
	shippingSaoPaulo = []ShippingOption{
		{Label: "Econômico (15-20 dias)", Price: 15.00},
		{Label: "Normal (7-10 dias)", Price: 20.00},
		{Label: "Expresso (2-3 dias)", Price: 30.00},
	}
	shippingRio = []ShippingOption{
		{Label: "Econômico (15-20 dias)", Price: 20.00},
		{Label: "Normal (7-10 dias)", Price: 25.00},
		{Label: "Expresso (2-3 dias)", Price: 35.00},
	}
	shippingFallback = []ShippingOption{
		{Label: "Econômico (15-20 dias)", Price: 25.00},
		{Label: "Normal (7-10 dias)", Price: 35.00},
		{Label: "Expresso (2-3 dias)", Price: 45.00},
	}
)

// EstimateShipping quotes the three delivery tiers for a postal code. The
// tier set is picked by the two-digit CEP prefix: 01-09 for São Paulo,
// 20-29 for Rio de Janeiro, anything else (including malformed input) falls
// back to the nationwide table.
func EstimateShipping(postalCode string) []ShippingOption {
	options := tiersFor(postalCode)
	out := make([]ShippingOption, len(options))
	copy(out, options)
	return out
}

// DefaultShippingFee is the price of the cheapest tier for a postal code,
// used when the customer has not picked a tier yet.
func DefaultShippingFee(postalCode string) float64 {
	return tiersFor(postalCode)[0].Price
}

func tiersFor(postalCode string) []ShippingOption {
	digits := OnlyDigits(postalCode)
	if len(digits) < 2 {
		return shippingFallback
	}
	prefix := digits[:2]
	switch {
	case prefix >= "01" && prefix <= "09":
		return shippingSaoPaulo
	case prefix >= "20" && prefix <= "29":
		return shippingRio
	}
	return shippingFallback
}
