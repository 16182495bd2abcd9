package events

import "github.com/atomicstack/tmx/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Handover(session string, argv []string) {
	logging.Trace("app.handover", map[string]interface{}{"session": session, "argv": argv})
}

func (AppTracer) Exit(reason string) {
	logging.Trace("app.exit", map[string]interface{}{"reason": reason})
}
