package ui

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/atomicstack/tmx/internal/backend"
	"github.com/atomicstack/tmx/internal/tags"
)

func TestTagAndFilterByTag(t *testing.T) {
	f := newFixture(t, true, "api", "web", "blog")
	f.harness.Keys("t")
	if f.model().Mode() != ModeTag {
		t.Fatalf("expected tag prompt")
	}
	f.harness.Type("work")
	f.harness.Keys("enter", "j", "t")
	f.harness.Type("#work")
	f.harness.Keys("enter")

	if got := f.store.SessionsWithTag("work"); !reflect.DeepEqual(got, []string{"api", "web"}) {
		t.Fatalf("expected api and web tagged, got %v", got)
	}
	if got := f.model().sessions.Rows()[0].Tags; !reflect.DeepEqual(got, []string{"work"}) {
		t.Fatalf("expected row tags refreshed, got %v", got)
	}
	saved, err := tags.Load(f.store.Path())
	if err != nil {
		t.Fatalf("load saved tags: %v", err)
	}
	if got := saved.TagsFor("web"); !reflect.DeepEqual(got, []string{"work"}) {
		t.Fatalf("expected tags persisted, got %v", got)
	}

	f.harness.Keys("f")
	f.harness.Type("wo")
	f.harness.Keys("enter")
	if got := f.rowNames(); !reflect.DeepEqual(got, []string{"api", "web"}) {
		t.Fatalf("expected tag filter to keep work sessions, got %v", got)
	}
	if !strings.Contains(f.harness.View(), "#work") {
		t.Fatalf("expected active tag filter in header")
	}
	f.harness.Keys("F")
	if len(f.rowNames()) != 3 {
		t.Fatalf("expected F to clear the tag filter, got %v", f.rowNames())
	}
}

func TestTagFilterUnknownTag(t *testing.T) {
	f := newFixture(t, true, "api")
	f.harness.Keys("f")
	f.harness.Type("nothing")
	f.harness.Keys("enter")
	if f.model().sessions.TagFilter() != "" {
		t.Fatalf("unknown tag must not filter")
	}
	if _, isErr := f.model().currentStatus(); !isErr {
		t.Fatalf("expected an error status")
	}
}

func TestTagRejectsSpaces(t *testing.T) {
	f := newFixture(t, true, "api")
	f.harness.Keys("t")
	f.harness.Type("two words")
	f.harness.Keys("enter")
	if len(f.store.TagNames()) != 0 {
		t.Fatalf("expected no tag stored, got %v", f.store.TagNames())
	}
}

func TestUntagResolvesClosestTag(t *testing.T) {
	f := newFixture(t, true, "api")
	f.store.AddTag("api", "work")
	f.store.AddTag("api", "home")
	f.refresh()
	f.harness.Keys("T")
	if f.model().Mode() != ModeUntag {
		t.Fatalf("expected untag prompt")
	}
	f.harness.Type("wor")
	f.harness.Keys("enter")
	if got := f.store.TagsFor("api"); !reflect.DeepEqual(got, []string{"home"}) {
		t.Fatalf("expected work removed, got %v", got)
	}
}

func TestUntagWithoutTags(t *testing.T) {
	f := newFixture(t, true, "api")
	f.harness.Keys("T")
	if f.model().Mode() != ModeNormal {
		t.Fatalf("expected no prompt for an untagged session")
	}
	if text, _ := f.model().currentStatus(); !strings.Contains(text, "no tags") {
		t.Fatalf("expected a hint, got %q", text)
	}
}

func TestExternalTagEditIsReloaded(t *testing.T) {
	f := newFixture(t, true, "api", "web")
	if err := os.WriteFile(f.store.Path(), []byte("[tags]\nops = [\"web\"]\n"), 0o600); err != nil {
		t.Fatalf("write tags: %v", err)
	}
	f.harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTags}})
	rows := f.model().sessions.Rows()
	if !reflect.DeepEqual(rows[1].Tags, []string{"ops"}) {
		t.Fatalf("expected reloaded tag on web, got %v", rows[1].Tags)
	}
}

func TestMalformedTagEditKeepsState(t *testing.T) {
	f := newFixture(t, true, "api")
	f.store.AddTag("api", "work")
	f.harness.Send(tagsSavedMsg{err: f.store.Save()})
	if err := os.WriteFile(f.store.Path(), []byte("[tags\n"), 0o600); err != nil {
		t.Fatalf("write tags: %v", err)
	}
	f.harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTags}})
	if got := f.store.TagsFor("api"); !reflect.DeepEqual(got, []string{"work"}) {
		t.Fatalf("expected tags kept, got %v", got)
	}
	if text, isErr := f.model().currentStatus(); !isErr || !strings.Contains(text, "ignoring") {
		t.Fatalf("expected parse warning, got %q", text)
	}
	if _, err := os.Stat(f.store.Path() + ".bak"); err != nil {
		t.Fatalf("expected malformed file moved aside: %v", err)
	}
}

func TestExternalEditOverUnsavedTagsIsReported(t *testing.T) {
	f := newFixture(t, true, "api")
	f.store.AddTag("api", "work")
	if err := os.WriteFile(f.store.Path(), []byte("[tags]\nops = [\"api\"]\n"), 0o600); err != nil {
		t.Fatalf("write tags: %v", err)
	}
	f.harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTags}})
	if got := f.store.TagsFor("api"); !reflect.DeepEqual(got, []string{"work"}) {
		t.Fatalf("expected unsaved tags kept, got %v", got)
	}
	if text, isErr := f.model().currentStatus(); !isErr || !strings.Contains(text, "unsaved tags") {
		t.Fatalf("expected blocked reload to be reported, got %q", text)
	}
}
