package events

import "github.com/atomicstack/tmx/internal/logging"

type PreviewTracer struct{}

var Preview = PreviewTracer{}

func (PreviewTracer) Request(target string, seq uint64) {
	logging.Trace("preview.request", map[string]interface{}{"target": target, "seq": seq})
}

func (PreviewTracer) Stale(target string, seq uint64) {
	logging.Trace("preview.stale", map[string]interface{}{"target": target, "seq": seq})
}

func (PreviewTracer) Drop(target string, err error) {
	payload := map[string]interface{}{"target": target}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("preview.drop", payload)
}

func (PreviewTracer) Evict(count int) {
	logging.Trace("preview.evict", map[string]interface{}{"count": count})
}
