package service

import (
	"context"
	"testing"
)

func TestHashLotRoundTrip(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	hashed, err := env.lotHash.HashLot(ctx, "LOT24A01")
	if err != nil {
		t.Fatalf("HashLot() error = %v", err)
	}
	if len(hashed) != 9 {
		t.Fatalf("hashed length = %d, want 9", len(hashed))
	}
	for _, c := range hashed {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			t.Fatalf("hashed contains non-hex char: %q", hashed)
		}
	}

	again, err := env.lotHash.HashLot(ctx, "LOT24A01")
	if err != nil {
		t.Fatalf("HashLot() second call error = %v", err)
	}
	if again != hashed {
		t.Errorf("second HashLot = %q, want stable %q", again, hashed)
	}

	resolved, err := env.lotHash.ResolveHashes(ctx, []string{hashed})
	if err != nil {
		t.Fatalf("ResolveHashes() error = %v", err)
	}
	if resolved[hashed] != "LOT24A01" {
		t.Errorf("resolved = %q, want %q", resolved[hashed], "LOT24A01")
	}
}

func TestHashLotDistinctCodes(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	first, err := env.lotHash.HashLot(ctx, "LOT24A01")
	if err != nil {
		t.Fatalf("HashLot() error = %v", err)
	}
	second, err := env.lotHash.HashLot(ctx, "LOT25B07")
	if err != nil {
		t.Fatalf("HashLot() error = %v", err)
	}
	if first == second {
		t.Errorf("distinct lot codes mapped to same hash %q", first)
	}
}

func TestResolveHashesUnknownCode(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	resolved, err := env.lotHash.ResolveHashes(ctx, []string{"DEADBEEF0"})
	if err != nil {
		t.Fatalf("ResolveHashes() error = %v", err)
	}
	if _, ok := resolved["DEADBEEF0"]; ok {
		t.Errorf("unknown hash should be absent from result")
	}
}

func TestResolveHashesSeesEntriesNewerThanCache(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	// 先让全量映射缓存建立起来
	if _, err := env.lotHash.ResolveHashes(ctx, []string{"AAAAAAAAA"}); err != nil {
		t.Fatalf("ResolveHashes() warmup error = %v", err)
	}

	hashed, err := env.lotHash.HashLot(ctx, "LOT26C03")
	if err != nil {
		t.Fatalf("HashLot() error = %v", err)
	}
	resolved, err := env.lotHash.ResolveHashes(ctx, []string{hashed})
	if err != nil {
		t.Fatalf("ResolveHashes() error = %v", err)
	}
	if resolved[hashed] != "LOT26C03" {
		t.Errorf("resolved = %q, want %q", resolved[hashed], "LOT26C03")
	}
}
