// Package solana implements domain.LedgerReader against the clawbets Anchor
// program over Solana JSON-RPC. Accounts are fetched with getProgramAccounts
// discriminator/memcmp filters and decoded from their Borsh layout.
package solana

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/clawbets/clawdash/internal/domain"
)

// anchorDiscriminator derives the 8-byte account discriminator Anchor
// prepends to every account: sha256("account:<Name>")[:8].
func anchorDiscriminator(name string) [8]byte {
	h := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], h[:8])
	return d
}

var (
	protocolDiscriminator   = anchorDiscriminator("Protocol")
	marketDiscriminator     = anchorDiscriminator("Market")
	betDiscriminator        = anchorDiscriminator("Bet")
	reputationDiscriminator = anchorDiscriminator("AgentReputation")
)

// Field byte offsets used in memcmp filters. Every account starts with the
// 8-byte discriminator; Bet stores bettor first, then market.
const (
	betBettorOffset = 8
	betMarketOffset = 8 + 32
)

// Raw Borsh layouts, field for field as the on-chain program declares them.

type protocolAccount struct {
	Admin       solanago.PublicKey
	MarketCount uint64
	TotalVolume uint64
	Bump        uint8
}

type marketAccount struct {
	Creator            solanago.PublicKey
	MarketID           uint64
	Title              string
	Description        string
	OracleFeed         solanago.PublicKey
	TargetPrice        int64
	TargetAbove        bool
	Deadline           int64
	ResolutionDeadline int64
	MinBet             uint64
	MaxBet             uint64
	TotalYes           uint64
	TotalNo            uint64
	YesCount           uint32
	NoCount            uint32
	Status             uint8
	Outcome            *bool  `bin:"optional"`
	ResolvedPrice      *int64 `bin:"optional"`
	ResolvedAt         *int64 `bin:"optional"`
	CreatedAt          int64
	Bump               uint8
	VaultBump          uint8
}

type betAccount struct {
	Bettor   solanago.PublicKey
	Market   solanago.PublicKey
	Amount   uint64
	Position bool
	Claimed  bool
	PlacedAt int64
	Bump     uint8
}

type reputationAccount struct {
	Agent          solanago.PublicKey
	TotalBets      uint32
	Wins           uint32
	Losses         uint32
	TotalWagered   uint64
	TotalWon       uint64
	TotalLost      uint64
	MarketsCreated uint32
	AccuracyBps    uint16
	LastActive     int64
	Bump           uint8
}

// statusFromTag maps the Borsh enum tag to the API status string.
func statusFromTag(tag uint8) domain.MarketStatus {
	switch tag {
	case 0:
		return domain.MarketOpen
	case 1:
		return domain.MarketClosed
	case 2:
		return domain.MarketResolved
	case 3:
		return domain.MarketCancelled
	case 4:
		return domain.MarketExpired
	default:
		return domain.MarketStatus(fmt.Sprintf("unknown(%d)", tag))
	}
}

// stripDiscriminator validates the account prefix and returns the Borsh body.
func stripDiscriminator(data []byte, want [8]byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("account data too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], want[:]) {
		return nil, fmt.Errorf("discriminator mismatch")
	}
	return data[8:], nil
}

func decodeMarket(pubkey solanago.PublicKey, data []byte) (domain.Market, error) {
	body, err := stripDiscriminator(data, marketDiscriminator)
	if err != nil {
		return domain.Market{}, fmt.Errorf("solana: market %s: %w", pubkey, err)
	}

	var raw marketAccount
	if err := bin.NewBorshDecoder(body).Decode(&raw); err != nil {
		return domain.Market{}, fmt.Errorf("solana: decode market %s: %w", pubkey, err)
	}

	return domain.Market{
		PublicKey:          pubkey.String(),
		MarketID:           raw.MarketID,
		Creator:            raw.Creator.String(),
		Title:              raw.Title,
		Description:        raw.Description,
		OracleFeed:         raw.OracleFeed.String(),
		TargetPrice:        raw.TargetPrice,
		TargetAbove:        raw.TargetAbove,
		Deadline:           raw.Deadline,
		ResolutionDeadline: raw.ResolutionDeadline,
		MinBet:             raw.MinBet,
		MaxBet:             raw.MaxBet,
		TotalYes:           raw.TotalYes,
		TotalNo:            raw.TotalNo,
		TotalYesSOL:        domain.ToSOL(raw.TotalYes),
		TotalNoSOL:         domain.ToSOL(raw.TotalNo),
		YesCount:           raw.YesCount,
		NoCount:            raw.NoCount,
		Status:             statusFromTag(raw.Status),
		Outcome:            raw.Outcome,
		ResolvedPrice:      raw.ResolvedPrice,
		ResolvedAt:         raw.ResolvedAt,
		CreatedAt:          raw.CreatedAt,
	}, nil
}

func decodeBet(pubkey solanago.PublicKey, data []byte) (domain.Bet, error) {
	body, err := stripDiscriminator(data, betDiscriminator)
	if err != nil {
		return domain.Bet{}, fmt.Errorf("solana: bet %s: %w", pubkey, err)
	}

	var raw betAccount
	if err := bin.NewBorshDecoder(body).Decode(&raw); err != nil {
		return domain.Bet{}, fmt.Errorf("solana: decode bet %s: %w", pubkey, err)
	}

	return domain.Bet{
		PublicKey: pubkey.String(),
		Bettor:    raw.Bettor.String(),
		Market:    raw.Market.String(),
		Amount:    raw.Amount,
		AmountSOL: domain.ToSOL(raw.Amount),
		Position:  domain.PositionFromBool(raw.Position),
		Claimed:   raw.Claimed,
		PlacedAt:  raw.PlacedAt,
	}, nil
}

func decodeReputation(data []byte) (domain.Reputation, error) {
	body, err := stripDiscriminator(data, reputationDiscriminator)
	if err != nil {
		return domain.Reputation{}, fmt.Errorf("solana: reputation: %w", err)
	}

	var raw reputationAccount
	if err := bin.NewBorshDecoder(body).Decode(&raw); err != nil {
		return domain.Reputation{}, fmt.Errorf("solana: decode reputation: %w", err)
	}

	return domain.Reputation{
		Agent:           raw.Agent.String(),
		TotalBets:       raw.TotalBets,
		Wins:            raw.Wins,
		Losses:          raw.Losses,
		Accuracy:        float64(raw.AccuracyBps) / 100,
		TotalWageredSOL: domain.ToSOL(raw.TotalWagered),
		TotalWonSOL:     domain.ToSOL(raw.TotalWon),
		TotalLostSOL:    domain.ToSOL(raw.TotalLost),
		MarketsCreated:  raw.MarketsCreated,
		LastActive:      raw.LastActive,
	}, nil
}

func decodeProtocol(data []byte) (protocolAccount, error) {
	body, err := stripDiscriminator(data, protocolDiscriminator)
	if err != nil {
		return protocolAccount{}, fmt.Errorf("solana: protocol: %w", err)
	}

	var raw protocolAccount
	if err := bin.NewBorshDecoder(body).Decode(&raw); err != nil {
		return protocolAccount{}, fmt.Errorf("solana: decode protocol: %w", err)
	}
	return raw, nil
}
