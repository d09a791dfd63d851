package selection

import "venuebook/models"

// TotalPrice charges pricePerHour prorated by the minute, rounding half up to
// the minor unit. Whole-hour selections cost exactly hours × pricePerHour.
func TotalPrice(sel Selection, pricePerHour models.Amount) models.Amount {
	minutes := int64(sel.Minutes())
	if minutes <= 0 || pricePerHour <= 0 {
		return 0
	}
	return models.Amount((int64(pricePerHour)*minutes + 30) / 60)
}
