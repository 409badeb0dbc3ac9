package loader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/fplpulse/analytics-api/internal/errs"
	"github.com/fplpulse/analytics-api/internal/models"
)

type mockSource struct {
	mu          sync.Mutex
	bulk        *models.Bootstrap
	bulkErr     error
	histories   map[int][]models.HistoryEntry
	historyErr  map[int]error
	historyHits []int
}

func (m *mockSource) FetchSeasonBulk(_ context.Context) (*models.Bootstrap, error) {
	if m.bulkErr != nil {
		return nil, m.bulkErr
	}
	return m.bulk, nil
}

func (m *mockSource) FetchPlayerHistory(_ context.Context, id int) ([]models.HistoryEntry, error) {
	m.mu.Lock()
	m.historyHits = append(m.historyHits, id)
	m.mu.Unlock()
	if err, ok := m.historyErr[id]; ok {
		return nil, err
	}
	return m.histories[id], nil
}

func testBulk() *models.Bootstrap {
	return &models.Bootstrap{
		Teams:        []models.TeamInfo{{ID: 1, Name: "Arsenal"}},
		ElementTypes: []models.ElementType{{ID: 3, SingularName: "Midfielder"}},
		Elements: []models.Element{
			{ID: 10, FirstName: "Alex", SecondName: "Archer", Team: 1, ElementType: 3, NowCost: 80, TotalPoints: 15, SelectedByPercent: "25.0"},
			{ID: 20, FirstName: "Ben", SecondName: "Brook", Team: 1, ElementType: 3, NowCost: 50, TotalPoints: 10, SelectedByPercent: "45.5"},
		},
	}
}

func TestLoad(t *testing.T) {
	src := &mockSource{
		bulk: testBulk(),
		histories: map[int][]models.HistoryEntry{
			10: {{Round: 1, TotalPoints: 5, Value: 80}, {Round: 2, TotalPoints: 8, Value: 80}},
			20: {{Round: 1, TotalPoints: 10, Value: 50}},
		},
	}

	c, err := New(src, 4, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 players, got %d", c.Len())
	}

	// Every player's history was fetched and attached
	if len(src.historyHits) != 2 {
		t.Errorf("expected 2 history fetches, got %d", len(src.historyHits))
	}
	p, err := c.Player(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.History) != 2 || p.History[1].Points != 8 {
		t.Errorf("unexpected history %+v", p.History)
	}
}

func TestLoadBulkError(t *testing.T) {
	upstream := &errs.SourceUnavailableError{Endpoint: "bootstrap-static/", Err: errors.New("status 503")}
	src := &mockSource{bulkErr: upstream}

	_, err := New(src, 4, zap.NewNop()).Load(context.Background())
	var sue *errs.SourceUnavailableError
	if !errors.As(err, &sue) {
		t.Fatalf("expected wrapped SourceUnavailableError, got %v", err)
	}
	if len(src.historyHits) != 0 {
		t.Error("no history fetch should happen after a failed bulk fetch")
	}
}

func TestLoadHistoryErrorAborts(t *testing.T) {
	src := &mockSource{
		bulk: testBulk(),
		histories: map[int][]models.HistoryEntry{
			10: {{Round: 1, TotalPoints: 5, Value: 80}},
		},
		historyErr: map[int]error{
			20: &errs.SourceUnavailableError{Endpoint: "element-summary/20/", Err: errors.New("status 503")},
		},
	}

	_, err := New(src, 1, zap.NewNop()).Load(context.Background())
	if err == nil {
		t.Fatal("expected error when one history fetch fails")
	}
	var sue *errs.SourceUnavailableError
	if !errors.As(err, &sue) {
		t.Fatalf("expected SourceUnavailableError, got %v", err)
	}
	if !strings.Contains(err.Error(), "player 20") {
		t.Errorf("error should name the failing player, got %q", err)
	}
}

func TestLoadBadDataError(t *testing.T) {
	bulk := testBulk()
	bulk.Elements[0].NowCost = 0
	src := &mockSource{bulk: bulk, histories: map[int][]models.HistoryEntry{}}

	_, err := New(src, 4, zap.NewNop()).Load(context.Background())
	var dfe *errs.DataFormatError
	if !errors.As(err, &dfe) {
		t.Fatalf("expected DataFormatError, got %v", err)
	}
}

func TestNewClampsConcurrency(t *testing.T) {
	src := &mockSource{bulk: testBulk(), histories: map[int][]models.HistoryEntry{}}
	l := New(src, 0, zap.NewNop())
	if l.concurrency != 1 {
		t.Errorf("expected concurrency clamped to 1, got %d", l.concurrency)
	}
}
