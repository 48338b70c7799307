package diag

import "testing"

func TestMessagesAccumulate(t *testing.T) {
	var msgs Messages
	msgs.Say(Warning, "INTEGER(%d) overflow", 4)
	msgs.Say(Err, "rank mismatch: %d vs %d", 1, 2)
	msgs.Say(Info, "0**0 is 1")

	items := msgs.Items()
	if len(items) != 3 {
		t.Fatalf("Items() len = %d, want 3", len(items))
	}
	if !msgs.HasErrors() {
		t.Errorf("HasErrors() = false, want true")
	}
	if err := msgs.Err(); err == nil {
		t.Errorf("Err() = nil, want non-nil")
	}
}

func TestMessagesResetClears(t *testing.T) {
	var msgs Messages
	msgs.Say(Warning, "x")
	msgs.Reset()
	if len(msgs.Items()) != 0 {
		t.Errorf("Reset() left %d items", len(msgs.Items()))
	}
	if msgs.HasErrors() {
		t.Errorf("HasErrors() after Reset() = true")
	}
}

func TestMessagesNoErrorsReturnsNil(t *testing.T) {
	var msgs Messages
	msgs.Say(Warning, "just a warning")
	if err := msgs.Err(); err != nil {
		t.Errorf("Err() = %v, want nil when no Err-severity messages", err)
	}
}
