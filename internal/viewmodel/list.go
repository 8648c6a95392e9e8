package viewmodel

import (
	"sync"

	"github.com/idilsaglam/shoplist/internal/model"
)

// ListViewModel holds the input field text and the displayed collection.
type ListViewModel struct {
	store ItemStore

	mu    sync.Mutex
	input string
	items []model.Item

	subs listeners[[]model.Item]
}

func NewList(store ItemStore) *ListViewModel {
	return &ListViewModel{store: store, items: []model.Item{}}
}

func (vm *ListViewModel) Input() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.input
}

func (vm *ListViewModel) SetInput(s string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.input = s
}

// Items returns a copy of the displayed collection.
func (vm *ListViewModel) Items() []model.Item {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]model.Item, len(vm.items))
	copy(out, vm.items)
	return out
}

// AddPressed adds the current input as a new item and republishes the list.
func (vm *ListViewModel) AddPressed() error { return vm.submit() }

// Appeared is fired when a view first shows the list. It goes through the
// same path as AddPressed; with an empty input that is a plain refresh.
func (vm *ListViewModel) Appeared() error { return vm.submit() }

// submit leaves the input alone; a view that wants the field emptied after an
// add calls SetInput("") itself.
func (vm *ListViewModel) submit() error {
	items, err := vm.store.Add(vm.Input())
	if err != nil {
		return err
	}

	published := make([]model.Item, len(items))
	copy(published, items)

	vm.mu.Lock()
	vm.items = items
	vm.mu.Unlock()

	vm.subs.notify(published)
	return nil
}

// Rows builds one row view-model per displayed item. Each row holds its own
// copy of the item.
func (vm *ListViewModel) Rows() []*ItemViewModel {
	items := vm.Items()
	rows := make([]*ItemViewModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, NewItem(vm.store, it))
	}
	return rows
}

// Subscribe registers fn to be called with the collection after each
// republish. The returned func unsubscribes.
func (vm *ListViewModel) Subscribe(fn func([]model.Item)) (cancel func()) {
	return vm.subs.add(fn)
}
