package history

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"revenuelens/internal/model"
	apperrors "revenuelens/pkg/errors"
)

func sampleResult(id string) *model.AnalysisResult {
	return &model.AnalysisResult{
		ID:        id,
		FileName:  id + ".csv",
		CreatedAt: time.Date(2024, 3, 5, 10, 30, 0, 123, time.UTC),
		VideoEarnings: []model.VideoEarning{
			{Title: "V1", Label: "L1", TotalEarning: 12.5, AssetID: "a1", Date: "2024-03-05", Hashtags: []string{"#cat"}},
			{Title: "V2", Label: model.NoLabel, TotalEarning: 0.25, Hashtags: []string{}},
		},
		LabelSummaries: []model.LabelSummary{
			{Label: "L1", TotalEarning: 12.5, VideoCount: 1},
			{Label: model.NoLabel, TotalEarning: 0.25, VideoCount: 1},
		},
		GrandTotal:      12.75,
		LowEarningCount: 1,
		StartDate:       "05/03/2024",
		EndDate:         "05/03/2024",
		Hashtags:        []string{"#cat"},
		MissingColumns:  []string{"Description / Mô tả"},
	}
}

func TestManager_CapacityEvictsOldest(t *testing.T) {
	m, err := NewManager(3, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	var evicted []string
	for i := 1; i <= 4; i++ {
		got, err := m.Add(sampleResult(fmt.Sprintf("r%d", i)))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		evicted = append(evicted, got...)
	}

	list := m.List()
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	if !reflect.DeepEqual(ids, []string{"r4", "r3", "r2"}) {
		t.Fatalf("ids got=%v", ids)
	}
	if !reflect.DeepEqual(evicted, []string{"r1"}) {
		t.Fatalf("evicted got=%v", evicted)
	}
	if !list[0].Current {
		t.Fatalf("latest result should be current")
	}
}

func TestManager_DefaultCapacityIsTen(t *testing.T) {
	m, err := NewManager(0, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	for i := 0; i < 12; i++ {
		if _, err := m.Add(sampleResult(fmt.Sprintf("r%d", i))); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if m.Len() != 10 {
		t.Fatalf("len got=%d, want 10", m.Len())
	}
}

func TestManager_AttachInsightKeepsSelection(t *testing.T) {
	m, _ := NewManager(10, nil, zap.NewNop())
	_, _ = m.Add(sampleResult("a"))
	_, _ = m.Add(sampleResult("b"))

	if !m.AttachInsight("a", "tốt") {
		t.Fatalf("expected attach to succeed")
	}
	if m.CurrentID() != "b" {
		t.Fatalf("current got=%q, want b", m.CurrentID())
	}
	got, ok := m.Get("a")
	if !ok || got.Insight == nil || *got.Insight != "tốt" {
		t.Fatalf("insight not attached: %+v", got)
	}
}

func TestManager_AttachInsightAfterRemovalIsNoop(t *testing.T) {
	m, _ := NewManager(10, nil, zap.NewNop())
	_, _ = m.Add(sampleResult("a"))
	if removed, err := m.Remove("a"); err != nil || !removed {
		t.Fatalf("Remove got=%v err=%v", removed, err)
	}
	if m.AttachInsight("a", "late") {
		t.Fatalf("attach on removed id should be a no-op")
	}
	if m.Len() != 0 {
		t.Fatalf("history should stay empty")
	}
}

func TestManager_RemoveCurrentFallsBackToLatest(t *testing.T) {
	m, _ := NewManager(10, nil, zap.NewNop())
	_, _ = m.Add(sampleResult("a"))
	_, _ = m.Add(sampleResult("b"))
	_, _ = m.Add(sampleResult("c"))

	if err := m.Select("b"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	_, _ = m.Remove("b")
	if m.CurrentID() != "c" {
		t.Fatalf("current got=%q, want c", m.CurrentID())
	}
	if err := m.Select("missing"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestManager_GetReturnsCopy(t *testing.T) {
	m, _ := NewManager(10, nil, zap.NewNop())
	_, _ = m.Add(sampleResult("a"))

	got, _ := m.Get("a")
	got.VideoEarnings[0].Title = "changed"

	again, _ := m.Get("a")
	if again.VideoEarnings[0].Title != "V1" {
		t.Fatalf("history entry mutated through Get")
	}
}

func TestJSONPersister_RoundTripPreservesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	p, err := NewJSONPersister(path)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	m, err := NewManager(10, p, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	withoutInsight := sampleResult("a")
	withInsight := sampleResult("b")
	_, _ = m.Add(withoutInsight)
	_, _ = m.Add(withInsight)
	m.AttachInsight("b", "Doanh thu tập trung vào L1.")
	_ = m.Select("a")

	reloaded, err := NewManager(10, p, zap.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentID() != "a" {
		t.Fatalf("current got=%q, want a", reloaded.CurrentID())
	}

	gotA, _ := reloaded.Get("a")
	if !reflect.DeepEqual(gotA, withoutInsight) {
		t.Fatalf("round trip mismatch:\ngot=%+v\nwant=%+v", gotA, withoutInsight)
	}
	if gotA.Insight != nil {
		t.Fatalf("null insight should stay null")
	}

	gotB, _ := reloaded.Get("b")
	want := withInsight.Clone()
	text := "Doanh thu tập trung vào L1."
	want.Insight = &text
	if !reflect.DeepEqual(gotB, want) {
		t.Fatalf("round trip mismatch:\ngot=%+v\nwant=%+v", gotB, want)
	}
}

type flakyPersister struct {
	fail  bool
	saved *Snapshot
}

func (p *flakyPersister) Load() (*Snapshot, error) {
	return NewSnapshot(), nil
}

func (p *flakyPersister) Save(snap *Snapshot) error {
	if p.fail {
		return fmt.Errorf("disk full")
	}
	p.saved = snap
	return nil
}

func TestManager_AddRollsBackWhenSaveFails(t *testing.T) {
	p := &flakyPersister{}
	m, err := NewManager(2, p, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := m.Add(sampleResult("r1")); err != nil {
		t.Fatalf("Add r1: %v", err)
	}
	if _, err := m.Add(sampleResult("r2")); err != nil {
		t.Fatalf("Add r2: %v", err)
	}

	p.fail = true
	evicted, err := m.Add(sampleResult("r3"))
	if !apperrors.HasCode(err, apperrors.CodeStore) {
		t.Fatalf("Add error got=%v, want %s", err, apperrors.CodeStore)
	}
	if evicted != nil {
		t.Fatalf("evicted got=%v, want nil", evicted)
	}

	if _, ok := m.Get("r3"); ok {
		t.Fatalf("failed add must not stay in history")
	}
	if m.CurrentID() != "r2" {
		t.Fatalf("current got=%q, want r2", m.CurrentID())
	}
	list := m.List()
	if len(list) != 2 || list[0].ID != "r2" || list[1].ID != "r1" {
		t.Fatalf("list got=%+v, want [r2 r1]", list)
	}
}
