package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/tui"
	"github.com/idilsaglam/shoplist/internal/ui"
	"github.com/idilsaglam/shoplist/internal/viewmodel"
)

// Options carry root flags and the wiring built by main.
type Options struct {
	Group    bool // list grouped by bookmarked/to buy/purchased
	Store    *store.Store
	DebugLog string // TUI log file, empty to discard

	// Ephemeral is set when the store lives only in memory; one-shot
	// subcommands then warn that nothing they change survives the process.
	Ephemeral bool

	Stdout, Stderr io.Writer
}

func (o Options) out() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func (o Options) err() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp(opt.err())
		return 2
	}
	cmd, a := args[0], args[1:]

	if opt.Ephemeral && oneShot(cmd) {
		fmt.Fprintln(opt.err(), ui.Current().Muted.Render(
			"warning: memory backend, "+cmd+" changes are lost on exit (use it with `shoplist ui`)"))
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.out())
		return 0

	case "ls":
		return doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.err(), "usage: shoplist add <title...>")
			return 2
		}
		return doAdd(opt, strings.Join(a, " "))

	case "buy", "star":
		if len(a) != 1 {
			ui.Fail(opt.err(), "usage: shoplist "+cmd+" <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(opt.err(), cmd+": not a number: "+a[0])
			return 2
		}
		return doToggle(opt, cmd, n)

	case "ui":
		if err := tui.Run(opt.Store, tui.Options{DebugLog: opt.DebugLog}); err != nil {
			ui.Fail(opt.err(), "tui: "+err.Error())
			return 1
		}
		return 0
	}

	ui.Fail(opt.err(), "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.err())
	PrintHelp(opt.err())
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `shoplist - a tiny shopping list

Usage:
  shoplist [flags] <subcommand> [args]

Subcommands:
  add <title...>     Add an item (title can be multiple words)
  ls                 List items
  buy <index>        Toggle purchased for item at 1-based index
  star <index>       Toggle bookmark for item at 1-based index
  ui                 Interactive list

Flags:
  -group             Group ls output by bookmarked / to buy / purchased
  -theme <name>      classic, neon or mono
  -data <dir>        Data directory (default $HOME/.shoplist)

Examples:
  shoplist add Milk
  shoplist ls
  shoplist buy 2
  shoplist star 1
`)
}

// -------------- subcommand impls ----------------

// oneShot reports whether cmd reads or writes the store and then exits.
func oneShot(cmd string) bool {
	switch cmd {
	case "ls", "add", "buy", "star":
		return true
	}
	return false
}

func doList(opt Options) int {
	vm := viewmodel.NewList(opt.Store)
	if err := vm.Appeared(); err != nil {
		ui.Fail(opt.err(), "load: "+err.Error())
		return 1
	}
	ui.PrintPanel(opt.out(), listLines(vm, opt.Group))
	return 0
}

func doAdd(opt Options, title string) int {
	vm := viewmodel.NewList(opt.Store)
	if err := vm.Appeared(); err != nil {
		ui.Fail(opt.err(), "load: "+err.Error())
		return 1
	}
	before := len(vm.Items())

	vm.SetInput(title)
	if err := vm.AddPressed(); err != nil {
		ui.Fail(opt.err(), "save: "+err.Error())
		return 1
	}
	if len(vm.Items()) == before {
		fmt.Fprintln(opt.out(), ui.Current().Muted.Render("nothing to add"))
		return 0
	}
	ui.OK(opt.out(), "added "+title)
	return 0
}

func doToggle(opt Options, cmd string, userIndex int) int {
	vm := viewmodel.NewList(opt.Store)
	if err := vm.Appeared(); err != nil {
		ui.Fail(opt.err(), "load: "+err.Error())
		return 1
	}
	rows := vm.Rows()
	if userIndex < 1 || userIndex > len(rows) {
		ui.Fail(opt.err(), fmt.Sprintf("index out of range: have %d, got %d", len(rows), userIndex))
		fmt.Fprintln(opt.err(), ui.Current().Muted.Render("Hint: run `shoplist ls` to see valid indexes"))
		return 2
	}
	row := rows[userIndex-1]

	var err error
	if cmd == "buy" {
		err = row.TogglePurchased()
	} else {
		err = row.ToggleBookmarked()
	}
	if err != nil {
		ui.Fail(opt.err(), "save: "+err.Error())
		return 1
	}

	it := row.Item()
	var msg string
	switch {
	case cmd == "buy" && it.IsPurchased:
		msg = "purchased " + it.Title
	case cmd == "buy":
		msg = "back on the list: " + it.Title
	case it.IsBookmarked:
		msg = "starred " + it.Title
	default:
		msg = "unstarred " + it.Title
	}
	ui.OK(opt.out(), msg)
	return 0
}

// -------------- rendering helpers --------------

const titleWidth = 60

func listLines(vm *viewmodel.ListViewModel, group bool) []string {
	t := ui.Current()
	items := vm.Items()
	purchased, pending := model.Stats(items)

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Shopping list"),
		t.Success.Render(t.SymOK), purchased,
		t.Pending.Render("•"), pending,
		t.Accent.Render("Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(purchased, len(items), 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(vm)...)
	} else {
		lines = append(lines, flatLines(vm.Rows(), nil)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `shoplist add Milk`"))
	return lines
}

// flatLines renders rows numbered by their position in the full list, so the
// indexes shown always work with buy/star. pos maps row -> 1-based index.
func flatLines(rows []*viewmodel.ItemViewModel, pos map[string]int) []string {
	if len(rows) == 0 {
		return []string{ui.Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(rows))
	for i, row := range rows {
		idx := i + 1
		if pos != nil {
			idx = pos[row.Item().ID]
		}
		out = append(out, ui.Row(idx, row, titleWidth))
	}
	return out
}

func groupLines(vm *viewmodel.ListViewModel) []string {
	t := ui.Current()
	rows := vm.Rows()
	pos := make(map[string]int, len(rows))
	byID := make(map[string]*viewmodel.ItemViewModel, len(rows))
	for i, row := range rows {
		pos[row.Item().ID] = i + 1
		byID[row.Item().ID] = row
	}
	pick := func(items []model.Item) []*viewmodel.ItemViewModel {
		out := make([]*viewmodel.ItemViewModel, 0, len(items))
		for _, it := range items {
			out = append(out, byID[it.ID])
		}
		return out
	}

	bookmarked, pending, purchased := model.Group(vm.Items())
	sections := []struct {
		name  string
		items []model.Item
	}{
		{"Bookmarked", bookmarked},
		{"To buy", pending},
		{"Purchased", purchased},
	}

	var lines []string
	for i, sec := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(sec.name))
		if len(sec.items) == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
			continue
		}
		lines = append(lines, flatLines(pick(sec.items), pos)...)
	}
	return lines
}
