// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package analytics

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/behavior"
	"github.com/tomtom215/resonance/internal/content"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/eventbus"
	"github.com/tomtom215/resonance/internal/interactions"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/trends"
)

var testNow = time.Date(2026, 6, 12, 15, 0, 0, 0, time.UTC)

// newService wires real components around an optional persistent store.
func newService(t *testing.T, store *persist.Store) *Service {
	t.Helper()
	logger := zerolog.Nop()

	var (
		journal  interactions.Journal
		docs     content.Store
		counters CounterStore
	)
	if store != nil {
		journal, docs, counters = store, store, store
	}

	events := interactions.NewStore(journal, logger)
	index := content.NewIndex(docs, logger)
	popularity := algorithms.NewPopularity(time.Hour, 7*24*time.Hour)

	engine, err := recommend.NewEngine(nil, recommend.Dependencies{
		Interactions: events,
		Content:      index,
		Popularity:   popularity,
	}, logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetClock(func() time.Time { return testNow })

	scorer, err := sentiment.NewScorer(sentiment.DefaultConfig())
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}
	predictor, err := engagement.NewPredictor(engagement.DefaultConfig(), scorer, engine)
	if err != nil {
		t.Fatalf("NewPredictor() error = %v", err)
	}
	analyzer, err := behavior.NewAnalyzer(behavior.DefaultConfig(), events)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	detector, err := trends.NewDetector(trends.DefaultConfig(), index, logger)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}

	svc, err := NewService(Dependencies{
		Interactions: events,
		Content:      index,
		Engine:       engine,
		Popularity:   popularity,
		Scorer:       scorer,
		Predictor:    predictor,
		Behavior:     analyzer,
		Trends:       detector,
		Counters:     counters,
	}, logger)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.SetClock(func() time.Time { return testNow })
	return svc
}

func openStore(t *testing.T, dir string) *persist.Store {
	t.Helper()
	cfg := persist.DefaultConfig()
	cfg.Path = dir
	cfg.SyncWrites = false
	store, err := persist.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("persist.Open() error = %v", err)
	}
	return store
}

func mustIndex(t *testing.T, svc *Service, in ContentInput) {
	t.Helper()
	if err := svc.IndexContent(context.Background(), in); err != nil {
		t.Fatalf("IndexContent(%s) error = %v", in.ContentID, err)
	}
}

func mustIngest(t *testing.T, svc *Service, user, item, typ string, at time.Time) uint64 {
	t.Helper()
	seq, err := svc.IngestInteraction(context.Background(), InteractionInput{
		UserID: user, ContentID: item, EventType: typ, Timestamp: at,
	})
	if err != nil {
		t.Fatalf("IngestInteraction(%s, %s) error = %v", user, item, err)
	}
	return seq
}

func TestNewService_RequiresComponents(t *testing.T) {
	if _, err := NewService(Dependencies{}, zerolog.Nop()); err == nil {
		t.Error("NewService() without components should fail")
	}
}

func TestIngestInteraction_Validation(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   InteractionInput
	}{
		{"missing user", InteractionInput{ContentID: "c1", EventType: "like"}},
		{"blank user", InteractionInput{UserID: "  ", ContentID: "c1", EventType: "like"}},
		{"unknown event type", InteractionInput{UserID: "u1", ContentID: "c1", EventType: "bookmark"}},
		{"negative weight", InteractionInput{UserID: "u1", ContentID: "c1", EventType: "like", Weight: ptr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.IngestInteraction(ctx, tt.in)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("IngestInteraction() error = %v, want ErrValidation", err)
			}
		})
	}

	if svc.Stats().Interactions != 0 {
		t.Error("rejected events must not be stored")
	}
}

func ptr(v float64) *float64 { return &v }

func TestIngestInteraction_UpdatesCountersAndProfiles(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	mustIndex(t, svc, ContentInput{ContentID: "c1", Text: "sunset over the bay #photo", Category: "travel", CreatedAt: testNow.Add(-72 * time.Hour)})

	first := mustIngest(t, svc, "u1", "c1", "LIKE", testNow.Add(-time.Hour))
	second := mustIngest(t, svc, "u2", "c1", "share", time.Time{})
	if second != first+1 {
		t.Errorf("sequences %d, %d should be consecutive", first, second)
	}

	tw := svc.deps.Trends.Velocity("photo", models.TagHashtag, testNow, 24*time.Hour)
	if tw.CountA != 2 {
		t.Errorf("hashtag count = %d, want 2", tw.CountA)
	}

	recs, err := svc.GetRecommendations(ctx, RecommendationInput{UserID: "newcomer"})
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if recs.Source != models.SourcePopularity || len(recs.Items) != 1 || recs.Items[0].ID != "c1" {
		t.Errorf("cold start recommendations = %+v, want popularity [c1]", recs)
	}

	profile, err := svc.GetUserBehavior(ctx, "u2")
	if err != nil {
		t.Fatalf("GetUserBehavior() error = %v", err)
	}
	if profile.EventsInWindow != 1 || !profile.LastActiveAt.Equal(testNow) {
		t.Errorf("profile = %+v, want one event at now", profile)
	}

	if _, err := svc.GetUserBehavior(ctx, "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}

func TestIndexContent(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	err := svc.IndexContent(ctx, ContentInput{ContentID: "c1", Text: "   "})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("empty content error = %v, want ErrValidation", err)
	}
	err = svc.IndexContent(ctx, ContentInput{ContentID: "c1", Text: "x", Hashtags: []string{"not a tag"}})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad hashtag error = %v, want ErrValidation", err)
	}

	in := ContentInput{ContentID: "c1", Text: "new single out now #music", CreatedAt: testNow.Add(-time.Hour)}
	mustIndex(t, svc, in)
	in.Text = "new single out now, listen #music"
	mustIndex(t, svc, in)

	if got := svc.Stats().Content; got != 1 {
		t.Errorf("indexed content = %d, want 1", got)
	}
	tw := svc.deps.Trends.Velocity("music", models.TagHashtag, testNow, 24*time.Hour)
	if tw.CountA != 1 {
		t.Errorf("re-indexing must not count the publication twice: count = %d", tw.CountA)
	}
}

func TestTextOperations(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	if _, err := svc.AnalyzeSentiment(ctx, ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("AnalyzeSentiment(\"\") error = %v, want ErrValidation", err)
	}
	res, err := svc.AnalyzeSentiment(ctx, "I love this amazing awesome place")
	if err != nil {
		t.Fatalf("AnalyzeSentiment() error = %v", err)
	}
	if res.Label != sentiment.LabelPositive {
		t.Errorf("Label = %q, want positive", res.Label)
	}

	mod, err := svc.ModerateContent(ctx, "CLICK HERE NOW!!! buy now http://x.io http://x.io")
	if err != nil {
		t.Fatalf("ModerateContent() error = %v", err)
	}
	if !mod.Flagged {
		t.Errorf("spammy text should be flagged: %+v", mod)
	}

	pred, err := svc.PredictEngagement(ctx, PredictionInput{Text: "weekend vibes #sun #beach"})
	if err != nil {
		t.Fatalf("PredictEngagement() error = %v", err)
	}
	if pred.Basis != engagement.BasisBaseline || pred.PredictedLikes <= 0 {
		t.Errorf("prediction = %+v, want positive baseline", pred)
	}
}

func TestPredictEngagement_IgnoresClock(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()
	in := PredictionInput{Text: "weekend vibes #sun #beach", Category: "travel"}

	svc.SetClock(func() time.Time { return time.Date(2026, 6, 12, 10, 59, 0, 0, time.UTC) })
	first, err := svc.PredictEngagement(ctx, in)
	if err != nil {
		t.Fatalf("PredictEngagement() error = %v", err)
	}

	svc.SetClock(func() time.Time { return time.Date(2026, 6, 13, 11, 0, 0, 0, time.UTC) })
	second, err := svc.PredictEngagement(ctx, in)
	if err != nil {
		t.Fatalf("PredictEngagement() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("prediction changed with the clock: %+v then %+v", first, second)
	}
}

func TestGetTrending(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	mustIndex(t, svc, ContentInput{ContentID: "c1", Text: "match day #football", Category: "sports", CreatedAt: testNow.Add(-100 * time.Hour)})
	for i := 0; i < 12; i++ {
		mustIngest(t, svc, "u1", "c1", "view", testNow.Add(-time.Duration(i+1)*time.Minute))
	}

	got, err := svc.GetTrending(ctx, 0, 0)
	if err != nil {
		t.Fatalf("GetTrending() error = %v", err)
	}
	if len(got) != 2 || got[0].Tag != "#football" || got[0].CountA != 12 {
		t.Errorf("GetTrending() = %+v, want #football then sports", got)
	}

	if _, err := svc.GetTrending(ctx, 0, 500); !errors.Is(err, models.ErrValidation) {
		t.Errorf("limit 500 error = %v, want ErrValidation", err)
	}
	if _, err := svc.GetTrending(ctx, 24*365, 0); !errors.Is(err, models.ErrValidation) {
		t.Errorf("year-long window error = %v, want ErrValidation", err)
	}
	if _, err := svc.GetTrending(ctx, math.MaxInt64/1000, 0); !errors.Is(err, models.ErrValidation) {
		t.Errorf("overflowing window error = %v, want ErrValidation", err)
	}
}

func TestRetrainAndStatus(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	mustIndex(t, svc, ContentInput{ContentID: "c1", Text: "guitar #music", CreatedAt: testNow.Add(-time.Hour)})
	mustIngest(t, svc, "u1", "c1", "like", testNow.Add(-time.Minute))

	if got := svc.ModelStatus().State; got != "cold" {
		t.Errorf("initial state = %q, want cold", got)
	}
	if !svc.TriggerRetrain(ctx) {
		t.Fatal("TriggerRetrain() should start a build")
	}
	svc.deps.Engine.Wait()

	st := svc.ModelStatus()
	if st.State != "ready" || st.Events != 1 {
		t.Errorf("status = %+v, want ready with one event", st)
	}

	similar, err := svc.SimilarContent(ctx, "c1", 0)
	if err != nil {
		t.Fatalf("SimilarContent() error = %v", err)
	}
	for _, item := range similar {
		if item.ID == "c1" {
			t.Errorf("SimilarContent(c1) must not list c1 itself: %+v", similar)
		}
	}
	if _, err := svc.SimilarContent(ctx, "missing", 0); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("SimilarContent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEventBusDelivery(t *testing.T) {
	svc := newService(t, nil)
	bus, err := eventbus.New(eventbus.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("eventbus.New() error = %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })
	if err := svc.Subscribe(bus); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	svc.deps.Bus = bus

	go func() { _ = bus.Run(context.Background()) }()
	<-bus.Started()

	mustIndex(t, svc, ContentInput{ContentID: "c1", Text: "street food #eats", CreatedAt: testNow.Add(-time.Hour)})
	mustIngest(t, svc, "u1", "c1", "like", testNow.Add(-time.Minute))

	if tw := svc.deps.Trends.Velocity("eats", models.TagHashtag, testNow, 24*time.Hour); tw.CountA != 2 {
		t.Errorf("hashtag count through the bus = %d, want 2", tw.CountA)
	}
	top := svc.deps.Popularity.TopContent(testNow, 24*time.Hour, 5, nil)
	if len(top) != 1 || top[0].ID != "c1" {
		t.Errorf("popularity through the bus = %+v", top)
	}
}

func TestFlushAndRestore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := openStore(t, dir)
	svc := newService(t, store)
	mustIndex(t, svc, ContentInput{ContentID: "c1", Text: "trail run #outdoors", CreatedAt: testNow.Add(-2 * time.Hour)})
	mustIngest(t, svc, "u1", "c1", "like", testNow.Add(-90*time.Minute))
	mustIngest(t, svc, "u2", "c1", "like", testNow.Add(-80*time.Minute))

	if err := svc.FlushCounters(ctx); err != nil {
		t.Fatalf("FlushCounters() error = %v", err)
	}
	mustIngest(t, svc, "u3", "c1", "share", testNow.Add(-10*time.Minute))
	before := svc.deps.Popularity.TopContent(testNow, 24*time.Hour, 1, nil)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	store = openStore(t, dir)
	t.Cleanup(func() { _ = store.Close() })
	restored := newService(t, store)

	res, err := restored.Restore(ctx, store)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.Content != 1 || res.Events != 3 {
		t.Errorf("Restore() = %+v, want 1 content and 3 events", res)
	}
	if res.Checkpoint != 2 || res.Recounted != 1 || res.RecountedContent != 0 {
		t.Errorf("Restore() = %+v, want checkpoint 2 and one event counted again", res)
	}

	after := restored.deps.Popularity.TopContent(testNow, 24*time.Hour, 1, nil)
	if len(after) != 1 || after[0].Score != before[0].Score {
		t.Errorf("popularity after restore = %+v, want %+v", after, before)
	}
	if tw := restored.deps.Trends.Velocity("outdoors", models.TagHashtag, testNow, 24*time.Hour); tw.CountA != 4 {
		t.Errorf("hashtag count after restore = %d, want 4 (publication and three events)", tw.CountA)
	}

	next := mustIngest(t, restored, "u4", "c1", "view", testNow)
	if next != 4 {
		t.Errorf("sequence after restore = %d, want 4", next)
	}
}

func TestFlushAndRestore_UncountedAtFlush(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := openStore(t, dir)
	svc := newService(t, store)
	mustIndex(t, svc, ContentInput{ContentID: "c1", Text: "night swim #lake", CreatedAt: testNow.Add(-3 * time.Hour)})

	// Journaled but not yet counted when the flush runs.
	e := models.InteractionEvent{UserID: "u1", ContentID: "c1", Type: models.EventLike, Timestamp: testNow.Add(-time.Hour)}
	seq, err := svc.deps.Interactions.Record(ctx, e)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	e.Sequence = seq
	mustIngest(t, svc, "u2", "c1", "view", testNow.Add(-50*time.Minute))

	if err := svc.FlushCounters(ctx); err != nil {
		t.Fatalf("FlushCounters() error = %v", err)
	}
	if err := svc.countInteraction(ctx, e); err != nil {
		t.Fatalf("countInteraction() error = %v", err)
	}

	// Backdated before the flush but published after it.
	mustIndex(t, svc, ContentInput{ContentID: "c2", Text: "old photo #archive", CreatedAt: testNow.Add(-48 * time.Hour)})
	before := svc.deps.Popularity.TopContent(testNow, 24*time.Hour, 1, nil)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	store = openStore(t, dir)
	t.Cleanup(func() { _ = store.Close() })
	restored := newService(t, store)

	res, err := restored.Restore(ctx, store)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.Checkpoint != 2 || res.Recounted != 1 || res.RecountedContent != 1 {
		t.Errorf("Restore() = %+v, want checkpoint 2 with one event and one publication counted again", res)
	}

	after := restored.deps.Popularity.TopContent(testNow, 24*time.Hour, 1, nil)
	if len(after) != 1 || after[0].Score != before[0].Score {
		t.Errorf("popularity after restore = %+v, want %+v", after, before)
	}
	if tw := restored.deps.Trends.Velocity("lake", models.TagHashtag, testNow, 24*time.Hour); tw.CountA != 3 {
		t.Errorf("#lake count after restore = %d, want 3 (publication and two events)", tw.CountA)
	}
	if tw := restored.deps.Trends.Velocity("archive", models.TagHashtag, testNow, 72*time.Hour); tw.CountA != 1 {
		t.Errorf("#archive count after restore = %d, want 1", tw.CountA)
	}
}
