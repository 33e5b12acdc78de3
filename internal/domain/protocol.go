package domain

// ProtocolStats is the protocol-wide summary account.
type ProtocolStats struct {
	Admin          string  `json:"admin"`
	MarketCount    uint64  `json:"marketCount"`
	TotalVolume    uint64  `json:"totalVolume"`
	TotalVolumeSOL float64 `json:"totalVolumeSol"`
	ProgramID      string  `json:"programId"`
	RPCURL         string  `json:"rpcUrl"`
}
