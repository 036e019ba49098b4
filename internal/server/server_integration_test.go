package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/abhinaya/internal/store"
)

func TestAPI_ReactionJournal(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer s.Close()

	at := time.Now()
	sess, _ := s.Sessions().Create("camera:0", at)
	re, _ := s.Reactions().Start(sess.ID, "thumbs_up", 3, at)
	s.Reactions().Finish(re.ID, store.OutcomeCompleted, 18, at.Add(time.Second))

	ts := httptest.NewServer(New(Config{Store: s}))
	defer ts.Close()
	client := ts.Client()

	resp, err := client.Get(ts.URL + "/api/reactions?limit=5")
	if err != nil {
		t.Fatalf("GET /api/reactions error = %v", err)
	}
	var listed struct {
		Reactions []store.Reaction `json:"reactions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Reactions) != 1 || listed.Reactions[0].Kind != "thumbs_up" {
		t.Fatalf("unexpected reactions %+v", listed.Reactions)
	}
	if listed.Reactions[0].Ticks() != 16 {
		t.Errorf("ticks = %d, want 16", listed.Reactions[0].Ticks())
	}

	resp, _ = client.Get(ts.URL + "/api/reactions/" + re.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/reactions/%s status = %d, want %d", re.ID, resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/reactions/stats")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/reactions/stats status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()
}

func TestServer_ListenAndServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{Hub: NewHub(quietLogger())}).ListenAndServe(ctx, addr)
	}()

	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = http.Get("http://" + addr + "/api/health")
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
