package solana

import (
	"encoding/binary"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

// Program-derived address helpers mirroring the on-chain seed schema:
// protocol, market (by little-endian market ID), vault (by market address),
// bet (market + bettor) and reputation (agent).

func protocolPDA(programID solanago.PublicKey) (solanago.PublicKey, error) {
	addr, _, err := solanago.FindProgramAddress(
		[][]byte{[]byte("protocol")},
		programID,
	)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("solana: derive protocol pda: %w", err)
	}
	return addr, nil
}

func marketPDA(programID solanago.PublicKey, marketID uint64) (solanago.PublicKey, error) {
	var idLE [8]byte
	binary.LittleEndian.PutUint64(idLE[:], marketID)

	addr, _, err := solanago.FindProgramAddress(
		[][]byte{[]byte("market"), idLE[:]},
		programID,
	)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("solana: derive market pda %d: %w", marketID, err)
	}
	return addr, nil
}

func vaultPDA(programID, market solanago.PublicKey) (solanago.PublicKey, error) {
	addr, _, err := solanago.FindProgramAddress(
		[][]byte{[]byte("vault"), market.Bytes()},
		programID,
	)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("solana: derive vault pda: %w", err)
	}
	return addr, nil
}

func betPDA(programID, market, bettor solanago.PublicKey) (solanago.PublicKey, error) {
	addr, _, err := solanago.FindProgramAddress(
		[][]byte{[]byte("bet"), market.Bytes(), bettor.Bytes()},
		programID,
	)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("solana: derive bet pda: %w", err)
	}
	return addr, nil
}

func reputationPDA(programID, agent solanago.PublicKey) (solanago.PublicKey, error) {
	addr, _, err := solanago.FindProgramAddress(
		[][]byte{[]byte("reputation"), agent.Bytes()},
		programID,
	)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("solana: derive reputation pda: %w", err)
	}
	return addr, nil
}
