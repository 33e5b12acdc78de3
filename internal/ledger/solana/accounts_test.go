package solana

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/clawbets/clawdash/internal/domain"
)

func testKey(b byte) solanago.PublicKey {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = b
	}
	return solanago.PublicKeyFromBytes(raw)
}

func encodeAccount(t *testing.T, discriminator [8]byte, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return append(discriminator[:], buf.Bytes()...)
}

func TestDecodeMarket(t *testing.T) {
	outcome := true
	resolvedPrice := int64(101_500)
	resolvedAt := int64(1_700_000_500)

	raw := marketAccount{
		Creator:            testKey(1),
		MarketID:           7,
		Title:              "BTC above 100k by Friday?",
		Description:        "Pyth BTC/USD at deadline",
		OracleFeed:         testKey(2),
		TargetPrice:        100_000,
		TargetAbove:        true,
		Deadline:           1_700_000_000,
		ResolutionDeadline: 1_700_100_000,
		MinBet:             10_000_000,
		MaxBet:             5_000_000_000,
		TotalYes:           1_500_000_000,
		TotalNo:            2_000_000_000,
		YesCount:           3,
		NoCount:            4,
		Status:             2, // resolved
		Outcome:            &outcome,
		ResolvedPrice:      &resolvedPrice,
		ResolvedAt:         &resolvedAt,
		CreatedAt:          1_699_900_000,
		Bump:               254,
		VaultBump:          253,
	}

	pubkey := testKey(9)
	m, err := decodeMarket(pubkey, encodeAccount(t, marketDiscriminator, raw))
	if err != nil {
		t.Fatalf("decodeMarket: %v", err)
	}

	if m.PublicKey != pubkey.String() {
		t.Errorf("PublicKey = %s", m.PublicKey)
	}
	if m.MarketID != 7 || m.Title != raw.Title {
		t.Errorf("identity fields wrong: %+v", m)
	}
	if m.Status != domain.MarketResolved {
		t.Errorf("Status = %s, want resolved", m.Status)
	}
	if m.Outcome == nil || !*m.Outcome {
		t.Error("Outcome not decoded")
	}
	if m.ResolvedPrice == nil || *m.ResolvedPrice != resolvedPrice {
		t.Error("ResolvedPrice not decoded")
	}
	if m.TotalYesSOL != 1.5 || m.TotalNoSOL != 2.0 {
		t.Errorf("SOL pools = %v / %v, want 1.5 / 2.0", m.TotalYesSOL, m.TotalNoSOL)
	}
}

func TestDecodeMarket_OpenWithNilOptions(t *testing.T) {
	raw := marketAccount{
		Creator:   testKey(1),
		MarketID:  1,
		Title:     "t",
		Status:    0,
		CreatedAt: 100,
	}

	m, err := decodeMarket(testKey(8), encodeAccount(t, marketDiscriminator, raw))
	if err != nil {
		t.Fatalf("decodeMarket: %v", err)
	}
	if m.Status != domain.MarketOpen {
		t.Errorf("Status = %s, want open", m.Status)
	}
	if m.Outcome != nil || m.ResolvedPrice != nil || m.ResolvedAt != nil {
		t.Error("nil options decoded as set")
	}
}

func TestDecodeBet(t *testing.T) {
	raw := betAccount{
		Bettor:   testKey(3),
		Market:   testKey(4),
		Amount:   500_000_000,
		Position: true,
		Claimed:  false,
		PlacedAt: 1_700_000_123,
		Bump:     255,
	}

	b, err := decodeBet(testKey(5), encodeAccount(t, betDiscriminator, raw))
	if err != nil {
		t.Fatalf("decodeBet: %v", err)
	}
	if b.Position != domain.PositionYes {
		t.Errorf("Position = %s, want YES", b.Position)
	}
	if b.AmountSOL != 0.5 {
		t.Errorf("AmountSOL = %v, want 0.5", b.AmountSOL)
	}
}

func TestDecode_DiscriminatorMismatch(t *testing.T) {
	data := encodeAccount(t, betDiscriminator, betAccount{Bettor: testKey(1)})
	if _, err := decodeMarket(testKey(2), data); err == nil {
		t.Fatal("bet bytes decoded as market")
	}
}

func TestDecodeReputation_AccuracyPercent(t *testing.T) {
	raw := reputationAccount{
		Agent:        testKey(6),
		TotalBets:    10,
		Wins:         7,
		Losses:       3,
		TotalWagered: 3_000_000_000,
		AccuracyBps:  7000,
		LastActive:   1_700_000_000,
	}

	r, err := decodeReputation(encodeAccount(t, reputationDiscriminator, raw))
	if err != nil {
		t.Fatalf("decodeReputation: %v", err)
	}
	if r.Accuracy != 70 {
		t.Errorf("Accuracy = %v, want 70", r.Accuracy)
	}
	if r.TotalWageredSOL != 3.0 {
		t.Errorf("TotalWageredSOL = %v, want 3.0", r.TotalWageredSOL)
	}
}

func TestRankReputations(t *testing.T) {
	reps := []domain.Reputation{
		{Agent: "low", Accuracy: 40, TotalBets: 100},
		{Agent: "high", Accuracy: 90, TotalBets: 5},
		{Agent: "tie-busy", Accuracy: 90, TotalBets: 50},
	}

	rankReputations(reps)

	want := []string{"tie-busy", "high", "low"}
	for i, w := range want {
		if reps[i].Agent != w {
			t.Errorf("rank[%d] = %s, want %s", i, reps[i].Agent, w)
		}
	}
}
