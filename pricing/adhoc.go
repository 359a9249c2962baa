package pricing

import "github.com/shopspring/decimal"

// AdHocRate is the discount offered on a custom bundle of services that no
// catalog combo covers.
var AdHocRate = decimal.RequireFromString("0.20")

// AdHocOffer is the discount the customer may accept for a custom bundle.
type AdHocOffer struct {
	ServiceIDs []string        `json:"serviceIds"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
}

// AdHocDiscount returns the offer for selection. It is only available for two
// or more services when no catalog combo applies.
func AdHocDiscount(selection Selection, catalog []Combo, prices PriceTable) (AdHocOffer, bool) {
	if len(selection) < 2 || Detect(selection, catalog) != nil {
		return AdHocOffer{}, false
	}
	ids := selection.IDs()
	subtotal := Sum(ids, prices)
	discount := subtotal.Mul(AdHocRate).Round(2)
	return AdHocOffer{
		ServiceIDs: ids,
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      subtotal.Sub(discount),
	}, true
}
