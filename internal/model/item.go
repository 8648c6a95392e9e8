package model

// Item is the domain model for a shopping-list entry.
// ID and Title are set once at creation; only the two flags change afterwards.
type Item struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	IsPurchased  bool   `json:"isPurchased"`
	IsBookmarked bool   `json:"isBookmarked"`
}

// NewItem returns an item with default flags.
func NewItem(id, title string) Item {
	return Item{ID: id, Title: title}
}

// Stats counts purchased and still-to-buy items.
func Stats(items []Item) (purchased, pending int) {
	for _, it := range items {
		if it.IsPurchased {
			purchased++
		} else {
			pending++
		}
	}
	return
}

// Group splits items into bookmarked-and-pending, pending, and purchased,
// keeping insertion order inside each group.
func Group(items []Item) (bookmarked, pending, purchased []Item) {
	for _, it := range items {
		switch {
		case it.IsPurchased:
			purchased = append(purchased, it)
		case it.IsBookmarked:
			bookmarked = append(bookmarked, it)
		default:
			pending = append(pending, it)
		}
	}
	return
}
