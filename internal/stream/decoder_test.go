package stream

import "testing"

func TestDecode_NestedContentWins(t *testing.T) {
	body := `{"turretName":"Alpha","content":"{\"turretName\":\"Alpha\",\"lineName\":\"L1\",\"state\":\"Ringing\"}"}`
	ev := Decode([]byte(body))
	if ev.Malformed() {
		t.Fatalf("unexpected decode error: %q", ev.Err)
	}
	if ev.LineName != "L1" || ev.State != "Ringing" {
		t.Fatalf("expected nested payload, got %+v", ev)
	}
}

func TestDecode_NestedContentNotJSONWrapsRaw(t *testing.T) {
	body := `{"turretName":"Alpha","content":"hello turret"}`
	ev := Decode([]byte(body))
	if ev.Malformed() {
		t.Fatalf("raw wrap is not a decode failure: %q", ev.Err)
	}
	if ev.Raw != "hello turret" {
		t.Fatalf("expected raw wrap, got %+v", ev)
	}
}

func TestDecode_PayloadFallback(t *testing.T) {
	body := `{"turretName":"Alpha","payload":{"turretName":"Alpha","lineNo":"L2","state":"Idle"}}`
	ev := Decode([]byte(body))
	if ev.LineNo != "L2" || ev.State != "Idle" {
		t.Fatalf("expected payload fallback, got %+v", ev)
	}
}

func TestDecode_EnvelopeItselfAsEvent(t *testing.T) {
	body := `{"turretName":"Beta","lineName":"L3","state":"Conversation"}`
	ev := Decode([]byte(body))
	if ev.TurretName != "Beta" || ev.LineName != "L3" || ev.State != "Conversation" {
		t.Fatalf("expected envelope as event, got %+v", ev)
	}
}

func TestDecode_MalformedBodyNeverFails(t *testing.T) {
	ev := Decode([]byte("{not json"))
	if !ev.Malformed() {
		t.Fatalf("expected error marker")
	}
	if ev.Raw != "{not json" {
		t.Fatalf("expected original raw text preserved, got %q", ev.Raw)
	}
}

func TestDecode_NonObjectBodyFails(t *testing.T) {
	ev := Decode([]byte(`[1,2,3]`))
	if !ev.Malformed() {
		t.Fatalf("expected error marker for non-object body")
	}
	if ev.Raw != "[1,2,3]" {
		t.Fatalf("expected original raw text preserved, got %q", ev.Raw)
	}
}

func TestDecode_EnvelopeTurretNameBackfill(t *testing.T) {
	body := `{"turretName":"Gamma","content":"{\"lineName\":\"L5\",\"state\":\"Ringing\"}"}`
	ev := Decode([]byte(body))
	if ev.TurretName != "Gamma" {
		t.Fatalf("expected envelope turret name backfill, got %q", ev.TurretName)
	}
}

func TestEvent_FieldPreference(t *testing.T) {
	ev := Event{PartyNumber: "555", PartyNo: "556", LineName: "LA", LineNo: "LB", SystemName: "sysA", DeviceName: "devB"}
	if ev.Party() != "555" {
		t.Fatalf("expected partyNumber preferred, got %q", ev.Party())
	}
	if ev.Line() != "LA" {
		t.Fatalf("expected lineName preferred, got %q", ev.Line())
	}
	if ev.Device() != "sysA" {
		t.Fatalf("expected systemName preferred, got %q", ev.Device())
	}

	ev = Event{PartyNo: "556", LineNo: "LB", DeviceName: "devB"}
	if ev.Party() != "556" || ev.Line() != "LB" || ev.Device() != "devB" {
		t.Fatalf("expected short-name fallback, got %+v", ev)
	}
}
