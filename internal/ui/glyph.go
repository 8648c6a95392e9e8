package ui

import (
	"fmt"

	"github.com/idilsaglam/shoplist/internal/viewmodel"
)

// Glyph maps an icon name published by the view-models to a terminal glyph.
func Glyph(icon string) string {
	t := Current()
	switch icon {
	case viewmodel.IconChecked:
		return t.BoxChecked
	case viewmodel.IconUnchecked:
		return t.BoxUnchecked
	case viewmodel.IconStarred:
		return t.StarOn
	case viewmodel.IconUnstarred:
		return t.StarOff
	}
	return "?"
}

// Row renders one item row: index, check box, star, title.
func Row(index int, row *viewmodel.ItemViewModel, width int) string {
	t := Current()
	it := row.Item()

	box := t.Muted.Render(Glyph(row.CheckIcon()))
	title := Truncate(it.Title, width)
	if it.IsPurchased {
		box = t.Success.Render(Glyph(row.CheckIcon()))
		title = t.Done.Render(title)
	}
	star := Glyph(row.StarIcon())
	if it.IsBookmarked {
		star = t.Pending.Render(star)
	}
	return fmt.Sprintf("%s %s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", index)), box, star, title)
}
