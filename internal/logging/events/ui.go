package events

import "github.com/atomicstack/menubar/internal/logging"

type UITracer struct{}

type MenuTracer struct{}

type PulldownTracer struct{}

type KeybindTracer struct{}

type CommandTracer struct{}

type ReloadTracer struct{}

var (
	UI       = UITracer{}
	Menu     = MenuTracer{}
	Pulldown = PulldownTracer{}
	Keybind  = KeybindTracer{}
	Command  = CommandTracer{}
	Reload   = ReloadTracer{}
)

func (UITracer) Key(key, code, target string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "code": code, "target": target})
}

func (UITracer) Pointer(kind string, x, y int, target string) {
	logging.Trace("ui.pointer", map[string]interface{}{"kind": kind, "x": x, "y": y, "target": target})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (MenuTracer) Open(label string, top, left int, flipped bool) {
	logging.Trace("menu.open", map[string]interface{}{"label": label, "top": top, "left": left, "flipped": flipped})
}

func (MenuTracer) Activate(label string) {
	logging.Trace("menu.activate", map[string]interface{}{"label": label})
}

func (MenuTracer) Fire(label string, immediate bool) {
	logging.Trace("menu.fire", map[string]interface{}{"label": label, "immediate": immediate})
}

func (MenuTracer) Close(label string, delayed bool) {
	logging.Trace("menu.close", map[string]interface{}{"label": label, "delayed": delayed})
}

func (MenuTracer) Transition(label, state string) {
	logging.Trace("menu.transition", map[string]interface{}{"label": label, "state": state})
}

func (PulldownTracer) Activate(name string, contextMenu bool) {
	logging.Trace("pulldown.activate", map[string]interface{}{"name": name, "contextmenu": contextMenu})
}

func (PulldownTracer) ArmOutsideClose(name string) {
	logging.Trace("pulldown.arm", map[string]interface{}{"name": name})
}

func (PulldownTracer) Deactivate(name string, callback bool, drained int) {
	logging.Trace("pulldown.deactivate", map[string]interface{}{"name": name, "callback": callback, "drained": drained})
}

func (KeybindTracer) Listen(installed bool) {
	logging.Trace("keybind.listener", map[string]interface{}{"installed": installed})
}

func (KeybindTracer) Fire(trigger string) {
	logging.Trace("keybind.fire", map[string]interface{}{"trigger": trigger})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

func (ReloadTracer) Loaded(path string, menus int) {
	logging.Trace("reload.loaded", map[string]interface{}{"path": path, "menus": menus})
}

func (ReloadTracer) Error(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("reload.error", map[string]interface{}{"path": path, "error": err.Error()})
}

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (ActionTracer) Error(err error) {
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}
