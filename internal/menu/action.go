package menu

import (
	"errors"
	"fmt"
)

// Apply performs a with flags as the demo state. Flag mutations happen in
// place; the caller rebuilds its menus when Changed is set.
func (a Action) Apply(flags Flags) (ActionResult, bool) {
	switch a.Kind {
	case ActionNone:
		return ActionResult{}, false
	case ActionQuit:
		return ActionResult{Quit: true}, false
	case ActionEcho:
		return ActionResult{Info: a.Arg}, false
	case ActionToggle:
		flags[a.Arg] = !flags[a.Arg]
		return ActionResult{Info: fmt.Sprintf("%s: %t", a.Arg, flags[a.Arg])}, true
	case ActionSet:
		if flags[a.Arg] {
			return ActionResult{Info: fmt.Sprintf("%s already set", a.Arg)}, false
		}
		flags[a.Arg] = true
		return ActionResult{Info: fmt.Sprintf("%s: true", a.Arg)}, true
	case ActionUnset:
		if !flags[a.Arg] {
			return ActionResult{Info: fmt.Sprintf("%s already unset", a.Arg)}, false
		}
		flags[a.Arg] = false
		return ActionResult{Info: fmt.Sprintf("%s: false", a.Arg)}, true
	default:
		return ActionResult{Err: errors.New("unknown action")}, false
	}
}
