package app

import (
	"github.com/wlcore/compositor/config"
	"github.com/wlcore/compositor/dispatcher"
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/input"
)

// bindingTable is the input.Handler built from the parsed config.Binding
// records: the compositor-policy command table a key binding executor
// dispatches into (spec §6 "key bindings"). It also tracks the active
// mode ("normal"/"visual") as a dispatcher.Module so its CatchKey lookup
// can be mode-scoped without the input package knowing about exhibitor
// mode switches.
type bindingTable struct {
	sig      *dispatcher.Signaler
	bindings []config.Binding
	mode     string
}

func newBindingTable(sig *dispatcher.Signaler, bindings []config.Binding) *bindingTable {
	return &bindingTable{sig: sig, bindings: bindings, mode: "normal"}
}

func (b *bindingTable) CatchKey(code uint16, value int32, mods input.Modifier) input.CatchResult {
	if value != 1 {
		return input.Passed
	}
	for _, bind := range b.bindings {
		if bind.Mode == b.mode && bind.Code == code && bind.Mods == mods {
			b.sig.Emit(event.CommandIssued{Command: parseCommandExecutor(bind.Executor)})
			return input.Caught
		}
	}
	return input.Passed
}

func (b *bindingTable) CatchButton(uint16, int32, input.Modifier) input.CatchResult {
	return input.Passed
}

// Initialize/Execute/Finalize implement dispatcher.Module, letting the
// binding table track visual-mode toggles emitted by the exhibitor.
func (b *bindingTable) Initialize() []event.Kind { return []event.Kind{event.KindModeSwitched} }

func (b *bindingTable) Execute(p event.Payload) {
	if m, ok := p.(event.ModeSwitched); ok && m.Active {
		if m.Visual {
			b.mode = "visual"
		} else {
			b.mode = "normal"
		}
	}
}

func (b *bindingTable) Finalize() {}

// parseCommandExecutor splits an executor name like "switch-vt-2" or
// "move-east" into event.Command's (Name, Arg) shape: a trailing run of
// digits (and the dash before it) becomes Arg, the rest becomes Name.
func parseCommandExecutor(executor string) event.Command {
	i := len(executor)
	for i > 0 && executor[i-1] >= '0' && executor[i-1] <= '9' {
		i--
	}
	if i == len(executor) || i == 0 {
		return event.Command{Name: executor}
	}
	if executor[i-1] == '-' {
		return event.Command{Name: executor[:i-1], Arg: executor[i:]}
	}
	return event.Command{Name: executor[:i], Arg: executor[i:]}
}
