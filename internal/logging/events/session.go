package events

import "github.com/atomicstack/tmx/internal/logging"

type SessionTracer struct{}

type sessionReason string

const (
	SessionReasonEscape sessionReason = "escape"
	SessionReasonEmpty  sessionReason = "empty"
	SessionReasonAbort  sessionReason = "abort"
)

var Session = SessionTracer{}

func (SessionTracer) NewPrompt(existing int) {
	logging.Trace("session.new.prompt", map[string]interface{}{"existing": existing})
}

func (SessionTracer) Switch(target string) {
	logging.Trace("session.switch", map[string]interface{}{"target": target})
}

func (SessionTracer) Attach(target string) {
	logging.Trace("session.attach", map[string]interface{}{"target": target})
}

func (SessionTracer) RenamePrompt(target string) {
	logging.Trace("session.rename.prompt", map[string]interface{}{"target": target})
}

func (SessionTracer) Detach(target string) {
	logging.Trace("session.detach", map[string]interface{}{"target": target})
}

func (SessionTracer) ConfirmKill(target string) {
	logging.Trace("session.kill.confirm", map[string]interface{}{"target": target})
}

func (SessionTracer) Kill(target string) {
	logging.Trace("session.kill", map[string]interface{}{"target": target})
}

func (SessionTracer) CancelKill(target string, reason sessionReason) {
	logging.Trace("session.kill.cancel", map[string]interface{}{"target": target, "reason": string(reason)})
}

func (SessionTracer) Create(name string) {
	logging.Trace("session.new.create", map[string]interface{}{"name": name})
}

func (SessionTracer) Rename(target, name string) {
	logging.Trace("session.rename", map[string]interface{}{"target": target, "name": name})
}

func (SessionTracer) CancelRename(target string, reason sessionReason) {
	logging.Trace("session.rename.cancel", map[string]interface{}{"target": target, "reason": string(reason)})
}

func (SessionTracer) CancelNew(reason sessionReason) {
	logging.Trace("session.new.cancel", map[string]interface{}{"reason": string(reason)})
}

func (SessionTracer) Expand(target string, expanded bool) {
	logging.Trace("session.expand", map[string]interface{}{"target": target, "expanded": expanded})
}

func (SessionTracer) Reconcile(count int, selected string) {
	logging.Trace("session.reconcile", map[string]interface{}{"count": count, "selected": selected})
}
