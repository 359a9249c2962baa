// Package pricing matches a customer's service selection against the combo
// catalog and computes what they pay.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Combo is a fixed bundle of services sold together for BundlePrice.
type Combo struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	ServiceIDs  []string        `json:"serviceIds"`
	BundlePrice decimal.Decimal `json:"bundlePrice"`
}

// PriceTable maps a service id to its unit price.
type PriceTable map[string]decimal.Decimal

// Selection is a set of service ids. Order is irrelevant.
type Selection map[string]struct{}

// NewSelection builds a Selection from ids, dropping duplicates and blanks.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolvedPricing is the outcome of applying the catalog to a selection.
type ResolvedPricing struct {
	AppliedCombo    *Combo          `json:"appliedCombo"`
	ExtraServiceIDs []string        `json:"extraServiceIds"`
	Total           decimal.Decimal `json:"total"`
}

// Resolve picks the combo that bundles the most selected services and prices
// the selection with it. Combos of equal size are tried in catalog order.
func Resolve(selection Selection, catalog []Combo, prices PriceTable) ResolvedPricing {
	combo := Detect(selection, catalog)
	if combo == nil {
		return ResolvedPricing{
			ExtraServiceIDs: []string{},
			Total:           Sum(selection.IDs(), prices),
		}
	}
	return PriceWithCombo(selection, *combo, prices)
}

// Detect returns the best matching combo for selection, or nil.
func Detect(selection Selection, catalog []Combo) *Combo {
	if len(selection) < 2 {
		return nil
	}
	candidates := make([]Combo, len(catalog))
	copy(candidates, catalog)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].ServiceIDs) > len(candidates[j].ServiceIDs)
	})
	for _, c := range candidates {
		if covers(selection, c) {
			found := c
			return &found
		}
	}
	return nil
}

// PriceWithCombo prices selection under combo regardless of whether combo is
// the best match. Services outside the combo are charged at unit price.
func PriceWithCombo(selection Selection, combo Combo, prices PriceTable) ResolvedPricing {
	inCombo := NewSelection(combo.ServiceIDs...)
	extras := []string{}
	for _, id := range selection.IDs() {
		if !inCombo.Has(id) {
			extras = append(extras, id)
		}
	}
	return ResolvedPricing{
		AppliedCombo:    &combo,
		ExtraServiceIDs: extras,
		Total:           combo.BundlePrice.Add(Sum(extras, prices)),
	}
}

// AcceptCombo returns selection with every service of combo added to it.
func AcceptCombo(selection Selection, combo Combo) Selection {
	merged := make(Selection, len(selection)+len(combo.ServiceIDs))
	for id := range selection {
		merged[id] = struct{}{}
	}
	for _, id := range combo.ServiceIDs {
		merged[id] = struct{}{}
	}
	return merged
}

// Sum adds the unit prices of ids. Unknown ids count as zero.
func Sum(ids []string, prices PriceTable) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		if p, ok := prices[id]; ok {
			total = total.Add(p)
		}
	}
	return total
}

// RegularPrice is what the combo's services cost when bought separately.
func RegularPrice(combo Combo, prices PriceTable) decimal.Decimal {
	return Sum(combo.ServiceIDs, prices)
}

// Savings is the regular price of the combo's services minus its bundle price.
func Savings(combo Combo, prices PriceTable) decimal.Decimal {
	return RegularPrice(combo, prices).Sub(combo.BundlePrice)
}

// DiscountPercent is Savings as a whole percentage of the regular price.
func DiscountPercent(combo Combo, prices PriceTable) int64 {
	regular := RegularPrice(combo, prices)
	if !regular.IsPositive() {
		return 0
	}
	return Savings(combo, prices).Div(regular).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func covers(selection Selection, combo Combo) bool {
	if len(combo.ServiceIDs) == 0 {
		return false
	}
	for _, id := range combo.ServiceIDs {
		if !selection.Has(id) {
			return false
		}
	}
	return true
}
