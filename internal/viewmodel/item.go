package viewmodel

import (
	"sync"

	"github.com/idilsaglam/shoplist/internal/model"
)

// Icon names published by ItemViewModel. Views map them to whatever they can draw.
const (
	IconChecked   = "checkmark.square.fill"
	IconUnchecked = "checkmark.square"
	IconStarred   = "star.fill"
	IconUnstarred = "star"
)

// ItemViewModel is the per-row state. It holds a copy of one item; other rows
// never see its changes until the list is reloaded from the store.
type ItemViewModel struct {
	store ItemStore

	mu        sync.Mutex
	item      model.Item
	checkIcon string
	starIcon  string

	subs listeners[model.Item]
}

func NewItem(store ItemStore, item model.Item) *ItemViewModel {
	return &ItemViewModel{
		store:     store,
		item:      item,
		checkIcon: checkIcon(item.IsPurchased),
		starIcon:  starIcon(item.IsBookmarked),
	}
}

func (vm *ItemViewModel) Item() model.Item {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.item
}

func (vm *ItemViewModel) CheckIcon() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.checkIcon
}

func (vm *ItemViewModel) StarIcon() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.starIcon
}

// TogglePurchased flips the purchased flag and persists the row.
func (vm *ItemViewModel) TogglePurchased() error {
	return vm.toggle(func(it *model.Item) { it.IsPurchased = !it.IsPurchased })
}

// ToggleBookmarked flips the bookmarked flag and persists the row.
func (vm *ItemViewModel) ToggleBookmarked() error {
	return vm.toggle(func(it *model.Item) { it.IsBookmarked = !it.IsBookmarked })
}

// toggle holds the row lock across the persist, so the flag and the icons
// always move together. A failed persist restores the previous item.
func (vm *ItemViewModel) toggle(flip func(*model.Item)) error {
	vm.mu.Lock()
	prev := vm.item
	flip(&vm.item)
	if err := vm.store.Update(vm.item); err != nil {
		vm.item = prev
		vm.mu.Unlock()
		return err
	}
	vm.checkIcon = checkIcon(vm.item.IsPurchased)
	vm.starIcon = starIcon(vm.item.IsBookmarked)
	it := vm.item
	vm.mu.Unlock()

	vm.subs.notify(it)
	return nil
}

// Subscribe registers fn to be called with the row's item after each toggle.
func (vm *ItemViewModel) Subscribe(fn func(model.Item)) (cancel func()) {
	return vm.subs.add(fn)
}

func checkIcon(purchased bool) string {
	if purchased {
		return IconChecked
	}
	return IconUnchecked
}

func starIcon(bookmarked bool) string {
	if bookmarked {
		return IconStarred
	}
	return IconUnstarred
}
