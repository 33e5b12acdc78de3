package solana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/clawbets/clawdash/internal/domain"
)

// Client implements domain.LedgerReader over Solana JSON-RPC. Every method is
// a full round trip against the RPC node; the service layer's response cache
// is what keeps concurrent dashboard readers from hammering it.
type Client struct {
	rpc       *rpc.Client
	rpcURL    string
	programID solanago.PublicKey
	logger    *slog.Logger
}

// NewClient creates a Client for the given RPC endpoint and program.
func NewClient(rpcURL string, programID solanago.PublicKey, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		rpc:       rpc.New(rpcURL),
		rpcURL:    rpcURL,
		programID: programID,
		logger:    logger.With(slog.String("component", "ledger")),
	}
}

// programAccounts fetches all accounts of one type, optionally adding extra
// memcmp filters on top of the discriminator filter.
func (c *Client) programAccounts(ctx context.Context, discriminator [8]byte, extra ...rpc.RPCFilter) (rpc.GetProgramAccountsResult, error) {
	filters := append([]rpc.RPCFilter{{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: 0,
			Bytes:  solanago.Base58(discriminator[:]),
		},
	}}, extra...)

	return c.rpc.GetProgramAccountsWithOpts(ctx, c.programID, &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Filters:    filters,
	})
}

// accountData fetches one account's raw data, mapping a missing account to
// domain.ErrNotFound.
func (c *Client) accountData(ctx context.Context, addr solanago.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if res == nil || res.Value == nil {
		return nil, domain.ErrNotFound
	}
	return res.Value.Data.GetBinary(), nil
}

// ListMarkets returns every market, newest first.
func (c *Client) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	accounts, err := c.programAccounts(ctx, marketDiscriminator)
	if err != nil {
		return nil, fmt.Errorf("solana: list markets: %w", err)
	}

	markets := make([]domain.Market, 0, len(accounts))
	for _, acc := range accounts {
		m, err := decodeMarket(acc.Pubkey, acc.Account.Data.GetBinary())
		if err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable market account",
				slog.String("pubkey", acc.Pubkey.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		markets = append(markets, m)
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].CreatedAt > markets[j].CreatedAt
	})
	return markets, nil
}

// GetMarket returns one market by numeric ID, including its vault balance.
func (c *Client) GetMarket(ctx context.Context, marketID uint64) (domain.Market, error) {
	marketAddr, err := marketPDA(c.programID, marketID)
	if err != nil {
		return domain.Market{}, err
	}

	data, err := c.accountData(ctx, marketAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("solana: get market %d: %w", marketID, err)
	}

	market, err := decodeMarket(marketAddr, data)
	if err != nil {
		return domain.Market{}, err
	}

	vaultAddr, err := vaultPDA(c.programID, marketAddr)
	if err != nil {
		return domain.Market{}, err
	}
	balance, err := c.rpc.GetBalance(ctx, vaultAddr, rpc.CommitmentConfirmed)
	if err != nil {
		return domain.Market{}, fmt.Errorf("solana: get vault balance %d: %w", marketID, err)
	}

	market.Vault = vaultAddr.String()
	market.VaultBalance = balance.Value
	market.VaultBalanceSOL = domain.ToSOL(balance.Value)
	return market, nil
}

// ListBets returns every bet across all markets, newest first.
func (c *Client) ListBets(ctx context.Context) ([]domain.Bet, error) {
	return c.listBets(ctx, 0, solanago.PublicKey{})
}

// ListMarketBets returns all bets on the given market.
func (c *Client) ListMarketBets(ctx context.Context, marketID uint64) ([]domain.Bet, error) {
	marketAddr, err := marketPDA(c.programID, marketID)
	if err != nil {
		return nil, err
	}
	return c.listBets(ctx, betMarketOffset, marketAddr)
}

// ListAgentBets returns all bets placed by the given agent address.
func (c *Client) ListAgentBets(ctx context.Context, agent string) ([]domain.Bet, error) {
	agentKey, err := solanago.PublicKeyFromBase58(agent)
	if err != nil {
		return nil, fmt.Errorf("solana: invalid agent address %q: %w", agent, err)
	}
	return c.listBets(ctx, betBettorOffset, agentKey)
}

// listBets fetches bet accounts, optionally matching one pubkey field
// (offset 0 means no field filter), newest first.
func (c *Client) listBets(ctx context.Context, offset uint64, match solanago.PublicKey) ([]domain.Bet, error) {
	var extra []rpc.RPCFilter
	if offset > 0 {
		extra = append(extra, rpc.RPCFilter{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: offset,
				Bytes:  solanago.Base58(match.Bytes()),
			},
		})
	}
	accounts, err := c.programAccounts(ctx, betDiscriminator, extra...)
	if err != nil {
		return nil, fmt.Errorf("solana: list bets: %w", err)
	}

	bets := make([]domain.Bet, 0, len(accounts))
	for _, acc := range accounts {
		b, err := decodeBet(acc.Pubkey, acc.Account.Data.GetBinary())
		if err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable bet account",
				slog.String("pubkey", acc.Pubkey.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		bets = append(bets, b)
	}

	sort.Slice(bets, func(i, j int) bool {
		return bets[i].PlacedAt > bets[j].PlacedAt
	})
	return bets, nil
}

// GetReputation returns one agent's reputation record.
func (c *Client) GetReputation(ctx context.Context, agent string) (domain.Reputation, error) {
	agentKey, err := solanago.PublicKeyFromBase58(agent)
	if err != nil {
		return domain.Reputation{}, fmt.Errorf("solana: invalid agent address %q: %w", agent, err)
	}

	addr, err := reputationPDA(c.programID, agentKey)
	if err != nil {
		return domain.Reputation{}, err
	}

	data, err := c.accountData(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Reputation{}, domain.ErrNotFound
		}
		return domain.Reputation{}, fmt.Errorf("solana: get reputation %s: %w", agent, err)
	}
	return decodeReputation(data)
}

// ListReputations returns the leaderboard: agents with at least one bet,
// ranked by accuracy and then by bet count.
func (c *Client) ListReputations(ctx context.Context) ([]domain.Reputation, error) {
	accounts, err := c.programAccounts(ctx, reputationDiscriminator)
	if err != nil {
		return nil, fmt.Errorf("solana: list reputations: %w", err)
	}

	reps := make([]domain.Reputation, 0, len(accounts))
	for _, acc := range accounts {
		r, err := decodeReputation(acc.Account.Data.GetBinary())
		if err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable reputation account",
				slog.String("pubkey", acc.Pubkey.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if r.TotalBets == 0 {
			continue
		}
		reps = append(reps, r)
	}

	rankReputations(reps)
	return reps, nil
}

// rankReputations orders the leaderboard by accuracy descending, breaking
// ties with total bet count.
func rankReputations(reps []domain.Reputation) {
	sort.Slice(reps, func(i, j int) bool {
		if reps[i].Accuracy != reps[j].Accuracy {
			return reps[i].Accuracy > reps[j].Accuracy
		}
		return reps[i].TotalBets > reps[j].TotalBets
	})
}

// ProtocolStats returns the protocol summary account.
func (c *Client) ProtocolStats(ctx context.Context) (domain.ProtocolStats, error) {
	addr, err := protocolPDA(c.programID)
	if err != nil {
		return domain.ProtocolStats{}, err
	}

	data, err := c.accountData(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ProtocolStats{}, domain.ErrNotFound
		}
		return domain.ProtocolStats{}, fmt.Errorf("solana: get protocol stats: %w", err)
	}

	raw, err := decodeProtocol(data)
	if err != nil {
		return domain.ProtocolStats{}, err
	}

	return domain.ProtocolStats{
		Admin:          raw.Admin.String(),
		MarketCount:    raw.MarketCount,
		TotalVolume:    raw.TotalVolume,
		TotalVolumeSOL: domain.ToSOL(raw.TotalVolume),
		ProgramID:      c.programID.String(),
		RPCURL:         c.rpcURL,
	}, nil
}

var _ domain.LedgerReader = (*Client)(nil)
