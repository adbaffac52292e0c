package wager

import (
	"reflect"
	"testing"
)

func line(id, number string, k Kind, cents int64, batch string) BetLine {
	return BetLine{LineID: id, Number: number, Kind: k, AmountCents: cents, BatchID: batch}
}

func TestGroupLinesMergesEqualSignatures(t *testing.T) {
	lines := []BetLine{
		line("l1", "12", TwoUp, 100, "b1"),
		line("l2", "12", TwoDown, 50, "b1"),
		line("l3", "34", TwoUp, 100, "b1"),
		line("l4", "34", TwoDown, 50, "b1"),
	}

	groups := GroupLines(lines)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if !reflect.DeepEqual(g.Numbers, []string{"12", "34"}) {
		t.Errorf("numbers = %v, want [12 34]", g.Numbers)
	}
	if len(g.LineIDs) != 4 {
		t.Errorf("group references %d lines, want 4", len(g.LineIDs))
	}
	wantPairs := []KindAmount{{TwoUp, 100}, {TwoDown, 50}}
	if !reflect.DeepEqual(g.Pairs, wantPairs) {
		t.Errorf("pairs = %v, want %v", g.Pairs, wantPairs)
	}
}

func TestGroupLinesPreservesMultiplicity(t *testing.T) {
	// mesmo número lançado duas vezes no mesmo lote com o mesmo (kind, valor):
	// duas camadas, dois grupos, removíveis um de cada vez
	lines := []BetLine{
		line("l1", "12", TwoUp, 100, "b1"),
		line("l2", "12", TwoUp, 100, "b1"),
	}

	groups := GroupLines(lines)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (no count-based collapse)", len(groups))
	}
	for _, g := range groups {
		if len(g.LineIDs) != 1 || g.Numbers[0] != "12" {
			t.Errorf("group = %+v, want single line of 12", g)
		}
	}
	if groups[0].LineIDs[0] == groups[1].LineIDs[0] {
		t.Errorf("both groups point at the same line")
	}
}

func TestGroupLinesLayersByKindAmount(t *testing.T) {
	// 12 tem TwoUp 100 duas vezes e TwoDown 50 uma vez:
	// camada 1 = {TwoUp 100, TwoDown 50}, camada 2 = {TwoUp 100}
	lines := []BetLine{
		line("l1", "12", TwoUp, 100, "b1"),
		line("l2", "12", TwoDown, 50, "b1"),
		line("l3", "12", TwoUp, 100, "b1"),
	}

	groups := GroupLines(lines)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[0].Pairs) != 2 {
		t.Errorf("first layer pairs = %v, want TwoUp+TwoDown", groups[0].Pairs)
	}
	if len(groups[1].Pairs) != 1 || groups[1].Pairs[0].Kind != TwoUp {
		t.Errorf("second layer pairs = %v, want single TwoUp", groups[1].Pairs)
	}
}

func TestGroupLinesDoesNotMergeAcrossBatches(t *testing.T) {
	lines := []BetLine{
		line("l1", "12", TwoUp, 100, "b1"),
		line("l2", "34", TwoUp, 100, "b2"),
	}

	groups := GroupLines(lines)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (batches are separate)", len(groups))
	}
	if groups[0].BatchID == groups[1].BatchID {
		t.Errorf("groups share a batch id")
	}
}

func TestGroupLinesDifferentAmountsSplit(t *testing.T) {
	lines := []BetLine{
		line("l1", "12", TwoUp, 100, "b1"),
		line("l2", "34", TwoUp, 200, "b1"),
	}

	groups := GroupLines(lines)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (signatures differ)", len(groups))
	}
}

func TestGroupLinesEmpty(t *testing.T) {
	if groups := GroupLines(nil); len(groups) != 0 {
		t.Errorf("GroupLines(nil) = %v, want empty", groups)
	}
}
