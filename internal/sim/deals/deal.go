package deals

import (
	"statecraft.ai/internal/sim/model"
)

type TradeItem struct {
	Kind       model.TradeItemType `json:"kind"`
	Dir        model.Direction     `json:"dir"`
	Amount     int                 `json:"amount"`
	Duration   int                 `json:"duration"`
	Resource   model.ResourceType  `json:"resource,omitempty"`
	City       model.CityID        `json:"city"`
	Point      model.Point         `json:"point"`
	ThirdParty model.PlayerID      `json:"third_party"`

	// FinalTurn is the turn of natural expiry; -1 means permanent or one-shot.
	FinalTurn   int  `json:"final_turn"`
	Expired     bool `json:"expired,omitempty"`
	FromRenewal bool `json:"from_renewal,omitempty"`
}

// IsDurational reports whether the item stays in effect over several turns.
func (it TradeItem) IsDurational() bool {
	switch it.Kind {
	case model.ItemGoldPerTurn, model.ItemResource, model.ItemOpenBorders, model.ItemDefensivePact,
		model.ItemResearchAgreement, model.ItemDeclarationOfFriendship:
		return it.Duration > 0
	}
	return false
}

func (it TradeItem) ActiveAt(turn int) bool {
	if it.Expired {
		return false
	}
	return it.FinalTurn < 0 || it.FinalTurn > turn
}

type Deal struct {
	ID    int            `json:"id"`
	From  model.PlayerID `json:"from"`
	To    model.PlayerID `json:"to"`
	Items []TradeItem    `json:"items"`

	Surrendering model.PlayerID        `json:"surrendering"`
	PeaceTreaty  model.PeaceTreatyType `json:"peace_treaty"`
	Cancelled    bool                  `json:"cancelled,omitempty"`
	Requesting   model.PlayerID        `json:"requesting"`
	StartTurn    int                   `json:"start_turn"`
	RenewsDealID int                   `json:"renews_deal_id,omitempty"`
}

func NewDeal(from, to model.PlayerID) *Deal {
	model.RequirePair("deals.NewDeal", from, to)
	return &Deal{
		From:         from,
		To:           to,
		Surrendering: model.NoPlayer,
		PeaceTreaty:  model.PeaceNone,
		Requesting:   model.NoPlayer,
		StartTurn:    -1,
	}
}

func (d *Deal) Involves(p model.PlayerID) bool { return d.From == p || d.To == p }

func (d *Deal) Between(a, b model.PlayerID) bool {
	return (d.From == a && d.To == b) || (d.From == b && d.To == a)
}

// Other returns the counterpart of p in the deal.
func (d *Deal) Other(p model.PlayerID) model.PlayerID {
	switch p {
	case d.From:
		return d.To
	case d.To:
		return d.From
	}
	model.Require(false, "deals.Other", "%s is not part of deal %d", p, d.ID)
	return model.NoPlayer
}

// DirFor is the item direction that makes giver the giving side.
func (d *Deal) DirFor(giver model.PlayerID) model.Direction {
	switch giver {
	case d.From:
		return model.Give
	case d.To:
		return model.Receive
	}
	model.Require(false, "deals.DirFor", "%s is not part of deal %d", giver, d.ID)
	return model.Give
}

func (d *Deal) Giver(it TradeItem) model.PlayerID {
	if it.Dir == model.Give {
		return d.From
	}
	return d.To
}

func (d *Deal) Receiver(it TradeItem) model.PlayerID {
	if it.Dir == model.Give {
		return d.To
	}
	return d.From
}

func (d *Deal) IsEmpty() bool { return len(d.Items) == 0 }

// IsWellFormed: an empty deal is only allowed as a bare peace treaty carrier.
func (d *Deal) IsWellFormed() bool {
	return len(d.Items) > 0 || d.PeaceTreaty != model.PeaceNone
}

func (d *Deal) IsPeaceTreaty() bool {
	return d.PeaceTreaty != model.PeaceNone || d.Has(model.ItemPeaceTreaty)
}

func (d *Deal) Has(kind model.TradeItemType) bool {
	for _, it := range d.Items {
		if it.Kind == kind {
			return true
		}
	}
	return false
}

// Find returns the index of the first item of kind given by giver.
func (d *Deal) Find(kind model.TradeItemType, giver model.PlayerID) int {
	dir := d.DirFor(giver)
	for i, it := range d.Items {
		if it.Kind == kind && it.Dir == dir {
			return i
		}
	}
	return -1
}

func (d *Deal) HasFrom(kind model.TradeItemType, giver model.PlayerID) bool {
	return d.Find(kind, giver) >= 0
}

// RemoveByType drops every item of kind; the order of the rest is preserved.
func (d *Deal) RemoveByType(kind model.TradeItemType) {
	out := d.Items[:0]
	for _, it := range d.Items {
		if it.Kind != kind {
			out = append(out, it)
		}
	}
	d.Items = out
}

// RemoveByTypeFrom drops every item of kind given by giver.
func (d *Deal) RemoveByTypeFrom(kind model.TradeItemType, giver model.PlayerID) {
	dir := d.DirFor(giver)
	out := d.Items[:0]
	for _, it := range d.Items {
		if it.Kind == kind && it.Dir == dir {
			continue
		}
		out = append(out, it)
	}
	d.Items = out
}

func (d *Deal) RemoveItem(i int) {
	model.Require(i >= 0 && i < len(d.Items), "deals.RemoveItem", "index %d out of range", i)
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
}

func (d *Deal) sumBy(kind model.TradeItemType, giver model.PlayerID, skip int) int {
	dir := d.DirFor(giver)
	n := 0
	for i, it := range d.Items {
		if i == skip || it.Kind != kind || it.Dir != dir {
			continue
		}
		n += it.Amount
	}
	return n
}

func (d *Deal) GoldTradedBy(giver model.PlayerID) int {
	return d.sumBy(model.ItemGold, giver, -1)
}

func (d *Deal) GPTTradedBy(giver model.PlayerID) int {
	return d.sumBy(model.ItemGoldPerTurn, giver, -1)
}

func (d *Deal) ResourceTradedBy(giver model.PlayerID, r model.ResourceType) int {
	dir := d.DirFor(giver)
	n := 0
	for _, it := range d.Items {
		if it.Kind == model.ItemResource && it.Dir == dir && it.Resource == r {
			n += it.Amount
		}
	}
	return n
}

func (d *Deal) CitiesTradedBy(giver model.PlayerID) []model.CityID {
	dir := d.DirFor(giver)
	var out []model.CityID
	for _, it := range d.Items {
		if it.Kind == model.ItemCity && it.Dir == dir {
			out = append(out, it.City)
		}
	}
	return out
}

// HasGold reports whether any lump gold or gold per turn changes hands.
func (d *Deal) HasGold() bool {
	return d.Has(model.ItemGold) || d.Has(model.ItemGoldPerTurn)
}

func (d *Deal) Clone() *Deal {
	out := *d
	out.Items = append([]TradeItem(nil), d.Items...)
	return &out
}
