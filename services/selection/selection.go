package selection

import (
	"fmt"

	"venuebook/models"
)

// Slot is a parsed availability slot.
type Slot struct {
	Start     Clock `json:"start_time"`
	End       Clock `json:"end_time"`
	Available bool  `json:"is_available"`
}

// SlotsFrom parses the backend slot list, keeping its order.
func SlotsFrom(raw []models.Slot) ([]Slot, error) {
	out := make([]Slot, 0, len(raw))
	for i, s := range raw {
		start, err := ParseClock(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		end, err := ParseClock(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		if end <= start {
			return nil, fmt.Errorf("slot %d: end %s not after start %s", i, end, start)
		}
		out = append(out, Slot{Start: start, End: end, Available: s.IsAvailable})
	}
	return out, nil
}

// Kind tags the state of a Selection.
type Kind string

const (
	KindEmpty  Kind = "empty"
	// KindSingle is one picked slot that the next click may extend.
	KindSingle Kind = "single"
	// KindRange is a committed interval; the next click starts over.
	KindRange Kind = "range"
)

// Selection is the user's interval choice. The zero value is empty.
type Selection struct {
	Kind  Kind  `json:"kind"`
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

func Empty() Selection { return Selection{Kind: KindEmpty} }

func Single(s Slot) Selection {
	return Selection{Kind: KindSingle, Start: s.Start, End: s.End}
}

func Range(start, end Clock) Selection {
	return Selection{Kind: KindRange, Start: start, End: end}
}

// IsEmpty treats the zero value and KindEmpty alike.
func (s Selection) IsEmpty() bool {
	return s.Kind != KindSingle && s.Kind != KindRange
}

// Minutes is the length of the selected interval.
func (s Selection) Minutes() int {
	if s.IsEmpty() {
		return 0
	}
	return int(s.End - s.Start)
}

func (s Selection) String() string {
	if s.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%s %s–%s", s.Kind, s.Start, s.End)
}

// HandleSlotClick turns a click on clicked into the next selection.
//
// An unavailable slot never changes anything. From Empty or Range the click
// starts a new Single. From Single the click proposes an interval reaching
// the clicked slot; it is committed as a Range only if every slot fully inside
// it is available, otherwise the click starts a new Single.
func HandleSlotClick(clicked Slot, current Selection, all []Slot) Selection {
	if !clicked.Available {
		return current
	}
	if current.Kind != KindSingle {
		return Single(clicked)
	}

	newStart, newEnd := current.Start, clicked.End
	if clicked.Start < current.Start {
		newStart, newEnd = clicked.Start, current.End
	}
	if !rangeAvailable(newStart, newEnd, all) {
		return Single(clicked)
	}
	return Range(newStart, newEnd)
}

func rangeAvailable(start, end Clock, all []Slot) bool {
	for _, s := range all {
		if s.Start >= start && s.End <= end && !s.Available {
			return false
		}
	}
	return true
}

// IsSelected reports whether slot lies fully inside the selection.
func IsSelected(slot Slot, sel Selection) bool {
	if sel.IsEmpty() {
		return false
	}
	return slot.Start >= sel.Start && slot.End <= sel.End
}
