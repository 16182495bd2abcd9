package events

import "github.com/atomicstack/tmx/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

type KeyTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
	Key     = KeyTracer{}
)

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Cursor(selected string, index int) {
	logging.Trace("ui.cursor", map[string]interface{}{"selected": selected, "index": index})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) WordBackspace(query string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"query": query})
}

func (FilterTracer) Append(query string) {
	logging.Trace("filter.append", map[string]interface{}{"query": query})
}

func (FilterTracer) Backspace(query string) {
	logging.Trace("filter.backspace", map[string]interface{}{"query": query})
}

func (FilterTracer) Tag(tag string) {
	logging.Trace("filter.tag", map[string]interface{}{"tag": tag})
}

func (CommandTracer) Exec(argv string) {
	logging.Trace("tmux.exec", map[string]interface{}{"argv": argv})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

func (KeyTracer) Pending(key string) {
	logging.Trace("key.pending", map[string]interface{}{"key": key})
}

func (KeyTracer) Sequence(seq string) {
	logging.Trace("key.sequence", map[string]interface{}{"sequence": seq})
}

func (KeyTracer) Expired(key string) {
	logging.Trace("key.expired", map[string]interface{}{"key": key})
}
