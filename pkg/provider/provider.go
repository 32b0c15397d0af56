package provider

// Identifiers of the integrated providers. The set is a stable enumeration:
// health records, metrics labels, and webhook routes all key off these
// values.
const (
	// Plaid is the banking aggregator integration.
	Plaid = "plaid"
	// Kraken is the crypto exchange integration.
	Kraken = "kraken"
	// Etherscan is the Ethereum explorer integration.
	Etherscan = "etherscan"
	// BitcoinRPC is the Bitcoin node RPC integration.
	BitcoinRPC = "bitcoind"
)

// Region partitions provider health by jurisdiction. Failures in one region
// never affect another.
const (
	RegionUS = "US"
	RegionEU = "EU"
	RegionUK = "UK"
	RegionAP = "AP"
)
