// Package filter selects download tasks and BT search results with expr
// expressions such as:
//
//	Seeds > 50 and SizeGB < 4 and contains(Title, "1080p")
//	Status == "downloading" and Progress < 50
//
// Task fields: ID, Title, Status, Type, Size, SizeGB, Downloaded, Progress
// (percent), Destination, URI.
// Search result fields: Title, Size, SizeGB, Seeds, Leechs, Peers, Module,
// Category, Magnet, Date.
// Helpers: contains, startsWith, endsWith (case-insensitive), lower, upper,
// gb(n) and mb(n) (byte counts).
package filter

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/s0up4200/dsctl/console"
	"github.com/s0up4200/dsctl/synology"
)

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// MatchTask evaluates the filter against a download task.
func (f *Filter) MatchTask(task synology.Task) bool {
	env := f.newEnv()

	var downloaded, destination, uri any = 0, "", ""
	if add := task.Additional; add != nil {
		if add.Transfer != nil {
			downloaded = int(add.Transfer.SizeDownloaded)
		}
		if add.Detail != nil {
			destination = add.Detail.Destination
			uri = add.Detail.URI
		}
	}

	env["ID"] = task.ID
	env["Title"] = task.Title
	env["Status"] = string(task.Status)
	env["Type"] = task.Type
	env["Size"] = int(task.Size)
	env["SizeGB"] = console.GB(int64(task.Size))
	env["Downloaded"] = downloaded
	env["Progress"] = task.Progress() * 100
	env["Destination"] = destination
	env["URI"] = uri

	return f.run(env)
}

// MatchSearchItem evaluates the filter against a BT search result.
func (f *Filter) MatchSearchItem(item synology.SearchItem) bool {
	env := f.newEnv()

	env["Title"] = item.Title
	env["Size"] = int(item.Size)
	env["SizeGB"] = console.GB(int64(item.Size))
	env["Seeds"] = item.Seeds
	env["Leechs"] = item.Leechs
	env["Peers"] = item.Peers
	env["Module"] = item.ModuleTitle
	env["Category"] = item.Category
	env["Magnet"] = item.IsMagnet()
	env["Date"] = item.Date

	return f.run(env)
}

func (f *Filter) newEnv() map[string]any {
	env := make(map[string]any, len(f.helpers)+12)
	for name, fn := range f.helpers {
		env[name] = fn
	}
	return env
}

func (f *Filter) run(env map[string]any) bool {
	result, err := expr.Run(f.program, env)
	if err != nil {
		// Values the expression cannot handle do not match.
		return false
	}
	// Guaranteed by expr.AsBool at compile time.
	return result.(bool)
}

// Tasks returns the tasks matching f, or all of them when f is nil.
func Tasks(f *Filter, tasks []synology.Task) []synology.Task {
	if f == nil {
		return tasks
	}
	matched := make([]synology.Task, 0, len(tasks))
	for _, task := range tasks {
		if f.MatchTask(task) {
			matched = append(matched, task)
		}
	}
	return matched
}

// SearchItems returns the results matching f, or all of them when f is nil.
func SearchItems(f *Filter, items []synology.SearchItem) []synology.SearchItem {
	if f == nil {
		return items
	}
	matched := make([]synology.SearchItem, 0, len(items))
	for _, item := range items {
		if f.MatchSearchItem(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
