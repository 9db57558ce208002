// Package ui contains the Bubble Tea program that hosts the menu toolkit.
// The Model translates terminal input into toolkit events, lets the menus
// react, and composes the bar, the demo body and the floating menu layer
// into one frame.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Key and mouse messages become event.Event values (input.go) and are
//     dispatched on the menu document; a commit pass then lays out whatever
//     changed. Keys the demo owns (quit, F10, F1) never reach the menus.
//   - Menu timers (fade delays, deferred shortcut callbacks, next-frame focus
//     moves) live on a schedule.Loop. While anything is pending a frame tick
//     keeps firing; each tick runs what is due.
//
// Actions:
//   - Leaf rows run their action through the command bus (internal/ui/command).
//     Callbacks fire during event dispatch, so the resulting commands are
//     queued and returned when the update finishes.
//   - Flag actions come back as flagMsg and mutate the demo flags on the
//     update goroutine; the menus are then rebuilt in place so open panels and
//     highlighted rows survive.
//
// Backend interactions:
//   - With -watch, a backend.Watcher polls the menu file; reloaded files
//     replace the definitions and load errors are shown on the status line.
package ui
