package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListTurrets_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/turrets" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","turretName":"Alpha","ip":"10.0.0.1","isActive":true}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	turrets, err := c.ListTurrets(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(turrets) != 1 || turrets[0].TurretName != "Alpha" || !turrets[0].IsActive {
		t.Fatalf("unexpected turrets: %+v", turrets)
	}
}

func TestListTurrets_PaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"id":"1","turretName":"Alpha"},{"id":"2","turretName":"Beta"}],"totalElements":2,"totalPages":1,"number":0,"size":20}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	turrets, err := c.ListTurrets(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(turrets) != 2 || turrets[1].TurretName != "Beta" {
		t.Fatalf("unexpected turrets: %+v", turrets)
	}
}

func TestCreateTurret_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/turrets" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in Turret
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if in.TurretName != "Alpha" {
			t.Fatalf("unexpected body: %+v", in)
		}
		in.ID = "42"
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	out, err := c.CreateTurret(context.Background(), Turret{TurretName: "Alpha"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.ID != "42" {
		t.Fatalf("expected echoed id, got %+v", out)
	}
}

func TestDo_NonOKSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "turret not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.DeleteTurret(context.Background(), "nope")
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Fatalf("expected server message preserved")
	}
}

func TestUpdateDevice_PutsToIDPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/ipPhones/7" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in Device
		json.NewDecoder(r.Body).Decode(&in)
		if in.ID != "7" {
			t.Fatalf("expected id in body, got %+v", in)
		}
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.UpdateDevice(context.Background(), "7", Device{PhoneName: "desk-7"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestCallAudit_RowsDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audit/getAllData" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[{"callId":"c1","createdOn":"2026-08-30 10:00:00","turretName":"Alpha","lineName":"L1","partyNumber":"555","state":"Conversation","isFileAvailable":"Y"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	rows, err := c.CallAudit(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 1 || rows[0].CallID != "c1" || rows[0].State != "Conversation" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
