package controller

import (
	"testing"

	"oddslens/src/model"
)

func samplePositions() []model.Position {
	return []model.Position{
		{Pubkey: "winner", Claimable: true, Claimed: false, MarketStatus: "resolved", Payout: 12.5},
		{Pubkey: "collected", Claimable: true, Claimed: true, MarketStatus: "resolved"},
		{Pubkey: "open-bet", Claimable: false, MarketStatus: "open"},
		{Pubkey: "loser", Claimable: false, MarketStatus: "resolved"},
		{Pubkey: "open-bet-2", Claimable: false, MarketStatus: "open"},
	}
}

func TestBucketPositions(t *testing.T) {
	b := BucketPositions(samplePositions())

	if len(b.Claimable) != 1 || b.Claimable[0].Pubkey != "winner" {
		t.Fatalf("unexpected claimable bucket: %+v", b.Claimable)
	}
	if len(b.Active) != 2 {
		t.Fatalf("expected 2 active positions, got %d", len(b.Active))
	}
	// Claimed winners and lost positions both settle.
	if len(b.Settled) != 2 {
		t.Fatalf("expected 2 settled positions, got %d", len(b.Settled))
	}
}

func TestBucketsPartitionInput(t *testing.T) {
	input := samplePositions()
	b := BucketPositions(input)

	if b.Total() != len(input) {
		t.Fatalf("buckets must cover every position: got %d of %d", b.Total(), len(input))
	}

	seen := map[string]int{}
	for _, bucket := range [][]model.Position{b.Claimable, b.Active, b.Settled} {
		for _, p := range bucket {
			seen[p.Pubkey]++
		}
	}
	for pubkey, n := range seen {
		if n != 1 {
			t.Fatalf("position %s appears in %d buckets", pubkey, n)
		}
	}
}

func TestBucketPositionsEmpty(t *testing.T) {
	b := BucketPositions(nil)
	if b.Claimable == nil || b.Active == nil || b.Settled == nil {
		t.Fatal("buckets must be non-nil even for empty input")
	}
	if b.Total() != 0 {
		t.Fatalf("expected empty buckets, got %d", b.Total())
	}
}

func TestPaginate(t *testing.T) {
	positions := make([]model.Position, 5)
	for i := range positions {
		positions[i].Pubkey = string(rune('a' + i))
	}

	first := Paginate(positions, 1, 2)
	if len(first) != 2 || first[0].Pubkey != "a" {
		t.Fatalf("unexpected first page: %+v", first)
	}

	last := Paginate(positions, 3, 2)
	if len(last) != 1 || last[0].Pubkey != "e" {
		t.Fatalf("unexpected last page: %+v", last)
	}

	if got := Paginate(positions, 4, 2); len(got) != 0 {
		t.Fatalf("page past the end must be empty, got %+v", got)
	}

	if got := Paginate(positions, 0, 3); len(got) != 3 {
		t.Fatalf("page below 1 clamps to the first page, got %+v", got)
	}
}
