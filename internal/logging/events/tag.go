package events

import "github.com/atomicstack/tmx/internal/logging"

type TagTracer struct{}

var Tag = TagTracer{}

func (TagTracer) Add(tag, session string) {
	logging.Trace("tag.add", map[string]interface{}{"tag": tag, "session": session})
}

func (TagTracer) Remove(tag, session string) {
	logging.Trace("tag.remove", map[string]interface{}{"tag": tag, "session": session})
}

func (TagTracer) Migrate(from, to string) {
	logging.Trace("tag.migrate", map[string]interface{}{"from": from, "to": to})
}

func (TagTracer) Load(path string, tags int, err error) {
	payload := map[string]interface{}{"path": path, "tags": tags}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("tag.load", payload)
}

func (TagTracer) Save(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("tag.save", payload)
}

func (TagTracer) Reload(path string) {
	logging.Trace("tag.reload", map[string]interface{}{"path": path})
}
