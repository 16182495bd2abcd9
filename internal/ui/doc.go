// Package ui contains the Bubble Tea program that drives the session chooser.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each tea.Msg type
//     is routed through a typed handler registry to a focused function.
//   - Key presses are interpreted by the current Mode. Normal mode feeds keys
//     through a keyseq.Sequencer first so "g g" and "d d" are recognised; a
//     scheduled sequenceTimeoutMsg clears a partial sequence without input.
//   - Gateway actions run off the update loop through the command bus and
//     come back as actionResultMsg. A failure becomes a transient status line
//     and the UI stays in Normal mode.
//
// State ownership:
//   - The session list, selection, expansion and filters live in
//     internal/state and are reconciled by session name on every refresh.
//   - Captured pane text lives in internal/preview. Every capture carries a
//     request number so a late, older capture never replaces a newer one.
//   - Tags are read and written through the TagStore; saves happen in a
//     command so disk IO never blocks rendering.
//
// Backend interactions:
//   - A backend.Watcher polls the topology and forwards tag file changes;
//     Update waits for those events and merges them into the state.
//   - Rendering is delegated to a Renderer that receives a read-only Frame.
package ui
