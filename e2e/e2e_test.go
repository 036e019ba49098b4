package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/app"
	"github.com/ayusman/abhinaya/internal/assets"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/reaction"
	"github.com/ayusman/abhinaya/internal/render"
	"github.com/ayusman/abhinaya/internal/server"
	"github.com/ayusman/abhinaya/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func blackFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		m.SetTo(gocv.NewScalar(0, 0, 0, 0))
		frames[i] = &m
		t.Cleanup(func() { m.Close() })
	}
	return frames
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestE2E_ReactionWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	log := quietLogger()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	lib := assets.NewLibrary(t.TempDir(), log)
	defer lib.Close()
	sprite := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC4)
	sprite.SetTo(gocv.NewScalar(0, 200, 255, 255))
	lib.Add("thumbs_up", sprite)

	tunables := reaction.DefaultTunables()
	engine, err := reaction.NewEngine(tunables, log,
		reaction.WithCompositor(render.NewCompositor(lib, log)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandPose{detector.ThumbsUpPose()})

	hub := server.NewHub(log)
	a, err := app.New(app.Config{
		Source:     capture.NewMockCamera(blackFrames(t, 20), false),
		Detector:   det,
		Engine:     engine,
		Log:        log,
		Store:      s,
		Hub:        hub,
		EncodeJPEG: true,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	ts := httptest.NewServer(server.New(server.Config{
		Store:   s,
		Frames:  a,
		Hub:     hub,
		Effects: &tunables,
		Log:     log,
	}))
	defer ts.Close()
	client := ts.Client()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/events", nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("event subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	t.Run("Events", func(t *testing.T) {
		want := []reaction.EventType{reaction.Activated, reaction.Completed, reaction.Activated, reaction.Cancelled}
		for i, typ := range want {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			var ev reaction.Event
			if err := conn.ReadJSON(&ev); err != nil {
				t.Fatalf("read event %d: %v", i, err)
			}
			if ev.Kind != reaction.KindThumbsUp || ev.Type != typ {
				t.Errorf("event %d = %s %s, want thumbs_up %s", i, ev.Kind, ev.Type, typ)
			}
		}
	})

	t.Run("Frame", func(t *testing.T) {
		data, seq, ok := a.LatestJPEG()
		if !ok || seq != 20 {
			t.Fatalf("LatestJPEG() seq %d, ok %v", seq, ok)
		}
		img, err := gocv.IMDecode(data, gocv.IMReadColor)
		if err != nil {
			t.Fatalf("IMDecode() error = %v", err)
		}
		defer img.Close()
		if img.Cols() != 640 || img.Rows() != 480 {
			t.Errorf("frame is %dx%d, want 640x480", img.Cols(), img.Rows())
		}
	})

	t.Run("Journal", func(t *testing.T) {
		var list struct {
			Reactions []store.Reaction `json:"reactions"`
		}
		getJSON(t, client, ts.URL+"/api/reactions", &list)
		if len(list.Reactions) != 2 {
			t.Fatalf("got %d reactions, want 2", len(list.Reactions))
		}
		if list.Reactions[0].Outcome != store.OutcomeCancelled || list.Reactions[1].Outcome != store.OutcomeCompleted {
			t.Errorf("outcomes = %s, %s", list.Reactions[0].Outcome, list.Reactions[1].Outcome)
		}

		session := list.Reactions[0].SessionID
		var bySession struct {
			Reactions []store.Reaction `json:"reactions"`
		}
		getJSON(t, client, ts.URL+"/api/reactions?session="+session, &bySession)
		if len(bySession.Reactions) != 2 {
			t.Errorf("session %s has %d reactions, want 2", session, len(bySession.Reactions))
		}

		sess, err := s.Sessions().GetByID(session)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if sess.Source != "mock" || sess.EndedAt == nil {
			t.Errorf("session = %+v, want ended mock session", sess)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		var stats struct {
			Stats []store.KindStats `json:"stats"`
		}
		getJSON(t, client, ts.URL+"/api/reactions/stats", &stats)
		if len(stats.Stats) != 1 {
			t.Fatalf("got %d kinds, want 1", len(stats.Stats))
		}
		got := stats.Stats[0]
		if got.Kind != string(reaction.KindThumbsUp) || got.Total != 2 || got.Completed != 1 || got.Cancelled != 1 {
			t.Errorf("stats = %+v", got)
		}
		// Runs of 15 (ticks 1-15) and 5 (ticks 16-20).
		if got.AvgTicks != 10 {
			t.Errorf("AvgTicks = %v, want 10", got.AvgTicks)
		}
	})

	t.Run("Effects", func(t *testing.T) {
		var got reaction.Tunables
		getJSON(t, client, ts.URL+"/api/effects", &got)
		if got.Heart.Duration != tunables.Heart.Duration {
			t.Errorf("heart duration = %d, want %d", got.Heart.Duration, tunables.Heart.Duration)
		}
	})
}
