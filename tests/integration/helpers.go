// Package integration drives the Nakama match handler end-to-end with mock
// runtime plumbing, exercising the full lobby, game, and leaderboard flow
// without a live server.
package integration

import (
	"context"
	"encoding/json"
	"testing"

	"ludo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// testLogger satisfies runtime.Logger and discards everything.
type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) WithField(string, interface{}) runtime.Logger {
	return testLogger{}
}
func (testLogger) WithFields(map[string]interface{}) runtime.Logger {
	return testLogger{}
}
func (testLogger) Fields() map[string]interface{} {
	return nil
}

// testPresence is a minimal runtime.Presence for one connected user.
type testPresence struct {
	userID string
}

func (tp testPresence) GetUserId() string                 { return tp.userID }
func (tp testPresence) GetSessionId() string              { return "session-" + tp.userID }
func (tp testPresence) GetNodeId() string                 { return "node-0" }
func (tp testPresence) GetHidden() bool                   { return false }
func (tp testPresence) GetPersistence() bool              { return true }
func (tp testPresence) GetUsername() string               { return tp.userID }
func (tp testPresence) GetStatus() string                 { return "" }
func (tp testPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }

// testMatchData wraps a presence with an opcode and payload.
type testMatchData struct {
	testPresence
	opCode int64
	data   []byte
}

func (tm testMatchData) GetOpCode() int64      { return tm.opCode }
func (tm testMatchData) GetData() []byte       { return tm.data }
func (tm testMatchData) GetReliable() bool     { return true }
func (tm testMatchData) GetReceiveTime() int64 { return 0 }

// sentMessage is one recorded dispatcher broadcast.
type sentMessage struct {
	opCode int64
	data   []byte
}

// recordingDispatcher captures every broadcast and label update.
type recordingDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (rd *recordingDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	rd.messages = append(rd.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...)})
	return nil
}

func (rd *recordingDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (rd *recordingDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (rd *recordingDispatcher) MatchLabelUpdate(label string) error {
	rd.labels = append(rd.labels, label)
	return nil
}

func (rd *recordingDispatcher) sawOpCode(op int64) bool {
	for _, msg := range rd.messages {
		if msg.opCode == op {
			return true
		}
	}
	return false
}

func (rd *recordingDispatcher) lastLabel(t *testing.T) map[string]interface{} {
	t.Helper()
	if len(rd.labels) == 0 {
		t.Fatalf("No label updates recorded")
	}
	var label map[string]interface{}
	if err := json.Unmarshal([]byte(rd.labels[len(rd.labels)-1]), &label); err != nil {
		t.Fatalf("Failed to decode label %q: %v", rd.labels[len(rd.labels)-1], err)
	}
	return label
}

// recordingLeaderboard captures win writes.
type recordingLeaderboard struct {
	records []ports.WinRecord
}

func (rl *recordingLeaderboard) RecordWin(ctx context.Context, record ports.WinRecord) error {
	rl.records = append(rl.records, record)
	return nil
}
