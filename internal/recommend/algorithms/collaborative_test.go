// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/resonance/internal/models"
)

var testWeights = models.EventWeights{
	models.EventView:    0.2,
	models.EventLike:    1,
	models.EventComment: 2,
	models.EventShare:   3,
	models.EventFollow:  0.5,
}

func like(user, item string, at time.Time) models.InteractionEvent {
	return models.InteractionEvent{UserID: user, ContentID: item, Type: models.EventLike, Timestamp: at}
}

func testCollabConfig() CollaborativeConfig {
	return CollaborativeConfig{Weights: testWeights, Neighbors: 20, MinInteractions: 1, Workers: 2}
}

func TestBuildCollaborative_IdenticalHistories(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var events []models.InteractionEvent
	for _, item := range []string{"c1", "c2", "c3", "c4", "c5"} {
		events = append(events, like("alice", item, base), like("bob", item, base))
	}

	m, err := BuildCollaborative(context.Background(), events, testCollabConfig())
	if err != nil {
		t.Fatalf("BuildCollaborative() error = %v", err)
	}

	if got := m.UserSimilarity("alice", "bob"); math.Abs(got-1) > 1e-9 {
		t.Errorf("UserSimilarity(alice, bob) = %v, want 1", got)
	}
	similar := m.SimilarUsers("alice", 5)
	if len(similar) != 1 || similar[0].ID != "bob" || math.Abs(similar[0].Score-1) > 1e-9 {
		t.Errorf("SimilarUsers(alice) = %+v, want [bob 1.0]", similar)
	}
}

func TestCollaborativeModel_Recommend(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.InteractionEvent{
		like("u1", "a", base), like("u1", "b", base),
		like("u2", "a", base), like("u2", "b", base), like("u2", "c", base),
		like("u3", "a", base), like("u3", "d", base.Add(time.Hour)),
		{UserID: "u3", ContentID: "d", Type: models.EventShare, Timestamp: base},
	}

	m, err := BuildCollaborative(context.Background(), events, testCollabConfig())
	if err != nil {
		t.Fatalf("BuildCollaborative() error = %v", err)
	}

	exclude := map[string]struct{}{"a": {}, "b": {}}
	recs := m.Recommend("u1", exclude)
	if len(recs) == 0 {
		t.Fatal("Recommend() returned no candidates")
	}
	for _, r := range recs {
		if _, ok := exclude[r.ID]; ok {
			t.Errorf("excluded item %s was recommended", r.ID)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %v for %s out of [0,1]", r.Score, r.ID)
		}
	}
	if recs[0].Score != 1 {
		t.Errorf("top score = %v, want 1 after rescaling", recs[0].Score)
	}

	all := m.Recommend("u1", nil)
	found := false
	for _, r := range all {
		if r.ID == "a" {
			found = true
		}
	}
	if !found {
		t.Error("without exclusion, co-liked item a should be a candidate")
	}
}

func TestCollaborativeModel_TieBreaks(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// u2 likes x and y equally; y has more total weight thanks to u3.
	events := []models.InteractionEvent{
		like("u1", "seed", base),
		like("u2", "seed", base), like("u2", "x", base), like("u2", "y", base),
		like("u3", "y", base),
	}
	m, err := BuildCollaborative(context.Background(), events, CollaborativeConfig{Weights: testWeights, Neighbors: 1, MinInteractions: 1})
	if err != nil {
		t.Fatalf("BuildCollaborative() error = %v", err)
	}

	recs := m.Recommend("u1", map[string]struct{}{"seed": {}})
	if len(recs) < 2 {
		t.Fatalf("got %d candidates, want at least 2", len(recs))
	}
	if recs[0].ID != "y" || recs[1].ID != "x" {
		t.Errorf("order = %s,%s; want y,x (higher weight sum first)", recs[0].ID, recs[1].ID)
	}
}

func TestCollaborativeModel_ColdStart(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.InteractionEvent{
		like("u1", "a", base),
		like("u2", "a", base), like("u2", "b", base),
	}
	cfg := testCollabConfig()
	cfg.MinInteractions = 3

	m, err := BuildCollaborative(context.Background(), events, cfg)
	if err != nil {
		t.Fatalf("BuildCollaborative() error = %v", err)
	}
	if recs := m.Recommend("u1", nil); len(recs) != 0 {
		t.Errorf("Recommend() below min_interactions = %v, want empty", recs)
	}
	if recs := m.Recommend("ghost", nil); len(recs) != 0 {
		t.Errorf("Recommend(unknown) = %v, want empty", recs)
	}
}

func TestCollaborativeModel_ExplicitWeightOverride(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	zero := 0.0
	events := []models.InteractionEvent{
		like("u1", "a", base),
		{UserID: "u1", ContentID: "b", Type: models.EventShare, Timestamp: base, Weight: &zero},
	}
	m, err := BuildCollaborative(context.Background(), events, testCollabConfig())
	if err != nil {
		t.Fatalf("BuildCollaborative() error = %v", err)
	}
	if _, ok := m.UserItems["u1"]["b"]; ok {
		t.Error("zero explicit weight should not enter the matrix")
	}
	if m.UserEvents["u1"] != 2 {
		t.Errorf("UserEvents = %d, want 2", m.UserEvents["u1"])
	}
}

func TestBuildCollaborative_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var events []models.InteractionEvent
	for u := 0; u < 12; u++ {
		for i := 0; i < 8; i++ {
			if (u+i)%3 != 0 {
				events = append(events, like(string(rune('a'+u)), string(rune('A'+i)), base.Add(time.Duration(i)*time.Minute)))
			}
		}
	}

	cfg := testCollabConfig()
	cfg.Neighbors = 3
	m1, err := BuildCollaborative(context.Background(), events, cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 7
	m2, err := BuildCollaborative(context.Background(), events, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(m1.UserNeighbors, m2.UserNeighbors) {
		t.Error("user neighbors differ between builds")
	}
	if !reflect.DeepEqual(m1.ItemNeighbors, m2.ItemNeighbors) {
		t.Error("item neighbors differ between builds")
	}
	if !reflect.DeepEqual(m1.Recommend("a", nil), m2.Recommend("a", nil)) {
		t.Error("recommendations differ between builds")
	}
}

func TestCollaborativeModel_SimilarItems(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.InteractionEvent{
		like("u1", "a", base), like("u1", "b", base),
		like("u2", "a", base), like("u2", "b", base),
		like("u3", "c", base),
	}
	m, err := BuildCollaborative(context.Background(), events, testCollabConfig())
	if err != nil {
		t.Fatal(err)
	}

	sim := m.SimilarItems("a", 10)
	if len(sim) != 1 || sim[0].ID != "b" {
		t.Errorf("SimilarItems(a) = %+v, want [b]", sim)
	}
	if got := m.SimilarItems("c", 10); len(got) != 0 {
		t.Errorf("SimilarItems(c) = %+v, want empty", got)
	}
	if m.Users() != 3 || m.Items() != 3 {
		t.Errorf("Users/Items = %d/%d, want 3/3", m.Users(), m.Items())
	}
}

func TestBuildCollaborative_Empty(t *testing.T) {
	m, err := BuildCollaborative(context.Background(), nil, testCollabConfig())
	if err != nil {
		t.Fatalf("BuildCollaborative(nil) error = %v", err)
	}
	if m.Users() != 0 {
		t.Errorf("Users() = %d, want 0", m.Users())
	}
	if recs := m.Recommend("anyone", nil); recs != nil {
		t.Errorf("Recommend() = %v, want nil", recs)
	}
}
