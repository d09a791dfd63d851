package selection

import (
	"errors"
	"fmt"

	"venuebook/models"
)

var (
	ErrUnknownSlot = errors.New("no slot starts at that time")
	ErrNotLoaded   = errors.New("availability not loaded")
)

// Board is the selection context of one browser: which venue and date are
// open, the availability snapshot for them and the current selection.
type Board struct {
	VenueID      int64         `json:"venue_id"`
	Date         string        `json:"date"`
	Generation   uint64        `json:"generation"`
	Loaded       bool          `json:"loaded"`
	PricePerHour models.Amount `json:"price_per_hour"`
	Slots        []Slot        `json:"slots"`
	Selection    Selection     `json:"selection"`
}

// Ticket identifies the availability fetch a response belongs to.
type Ticket struct {
	VenueID    int64
	Date       string
	Generation uint64
}

// Reset opens venueID/date with no slots and an empty selection. Responses to
// fetches issued before the reset no longer match the returned ticket.
func (b *Board) Reset(venueID int64, date string) Ticket {
	b.Generation++
	b.VenueID = venueID
	b.Date = date
	b.Loaded = false
	b.PricePerHour = 0
	b.Slots = nil
	b.Selection = Empty()
	return b.ticket()
}

func (b *Board) ticket() Ticket {
	return Ticket{VenueID: b.VenueID, Date: b.Date, Generation: b.Generation}
}

// Current reports whether t still names the open venue and date.
func (b *Board) Current(t Ticket) bool {
	return b.ticket() == t
}

// Apply installs the snapshot fetched for t. A stale ticket leaves the board
// untouched and returns false.
func (b *Board) Apply(t Ticket, av models.Availability) (bool, error) {
	if !b.Current(t) {
		return false, nil
	}
	slots, err := SlotsFrom(av.Slots)
	if err != nil {
		return false, fmt.Errorf("availability for %s: %w", t.Date, err)
	}
	b.Slots = slots
	b.PricePerHour = av.PricePerHour
	b.Loaded = true
	b.Selection = Empty()
	return true, nil
}

// Fail records a failed fetch for t as an empty, loaded day.
func (b *Board) Fail(t Ticket) bool {
	if !b.Current(t) {
		return false
	}
	b.Slots = nil
	b.Loaded = true
	b.Selection = Empty()
	return true
}

// Click applies a click on the slot starting at startTime.
func (b *Board) Click(startTime string) (changed bool, err error) {
	if !b.Loaded {
		return false, ErrNotLoaded
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnknownSlot, err)
	}
	for _, s := range b.Slots {
		if s.Start != start {
			continue
		}
		next := HandleSlotClick(s, b.Selection, b.Slots)
		changed = next != b.Selection
		b.Selection = next
		return changed, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownSlot, start)
}

// Clear closes the board entirely, e.g. after a booking went through.
func (b *Board) Clear() {
	gen := b.Generation + 1
	*b = Board{Generation: gen, Selection: Empty()}
}

// SlotView is a slot as the browser renders it.
type SlotView struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	Selected    bool   `json:"selected"`
}

type View struct {
	VenueID      int64         `json:"venue_id,omitempty"`
	Date         string        `json:"date,omitempty"`
	Loaded       bool          `json:"loaded"`
	PricePerHour models.Amount `json:"price_per_hour"`
	Slots        []SlotView    `json:"slots"`
	Kind         Kind          `json:"kind"`
	Start        string        `json:"selected_start,omitempty"`
	End          string        `json:"selected_end,omitempty"`
	TotalPrice   models.Amount `json:"total_price"`
}

func (b *Board) View() View {
	v := View{
		VenueID:      b.VenueID,
		Date:         b.Date,
		Loaded:       b.Loaded,
		PricePerHour: b.PricePerHour,
		Slots:        make([]SlotView, 0, len(b.Slots)),
		Kind:         KindEmpty,
	}
	for _, s := range b.Slots {
		v.Slots = append(v.Slots, SlotView{
			StartTime:   s.Start.String(),
			EndTime:     s.End.String(),
			IsAvailable: s.Available,
			Selected:    IsSelected(s, b.Selection),
		})
	}
	if !b.Selection.IsEmpty() {
		v.Kind = b.Selection.Kind
		v.Start = b.Selection.Start.String()
		v.End = b.Selection.End.String()
		v.TotalPrice = TotalPrice(b.Selection, b.PricePerHour)
	}
	return v
}
