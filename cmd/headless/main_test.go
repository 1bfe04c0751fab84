package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/journal"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunSession_ClaimsTerritory(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 42
	var buf bytes.Buffer
	rep, err := runSession(cfg, 30, 0.1, &buf, quietLogger())
	if err != nil {
		t.Fatalf("runSession: %v", err)
	}
	if rep.resolved == 0 {
		t.Fatal("no takeover resolved in 30s")
	}
	total := 0
	for p, n := range rep.owned {
		total += n
		if rep.units[p] != 4 {
			t.Fatalf("player %d units=%d", p, rep.units[p])
		}
		if rep.balances[p] < 0 {
			t.Fatalf("player %d balance=%v", p, rep.balances[p])
		}
	}
	if total == 0 || total > rep.tiles {
		t.Fatalf("owned total=%d tiles=%d", total, rep.tiles)
	}

	entries, err := journal.ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if uint64(len(entries)) != rep.journal {
		t.Fatalf("journal has %d entries, report says %d", len(entries), rep.journal)
	}
}

func TestRunSession_Deterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 7
	a, err := runSession(cfg, 20, 0.25, io.Discard, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	b, err := runSession(cfg, 20, 0.25, io.Discard, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	for p := range a.owned {
		if a.owned[p] != b.owned[p] || a.balances[p] != b.balances[p] {
			t.Fatalf("player %d differs: %d/%v vs %d/%v", p, a.owned[p], a.balances[p], b.owned[p], b.balances[p])
		}
	}
}

func TestPrintReport(t *testing.T) {
	var out strings.Builder
	printReport(&out, config.Default(), report{
		seed: 1, seconds: 10, tiles: 61,
		balances: []float64{900}, incomes: []float64{0.5}, owned: []int{2}, units: []int{4},
	})
	if !strings.Contains(out.String(), "Player 1") || !strings.Contains(out.String(), "900.0") {
		t.Fatalf("report:\n%s", out.String())
	}
}
