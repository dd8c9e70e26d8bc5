package wallet

import "fmt"

// ExplorerTxURL builds a block explorer link for a transaction signature.
// Cluster is appended as a query parameter for non-mainnet deployments.
func ExplorerTxURL(baseURL, cluster, signature string) string {
	if cluster == "" || cluster == "mainnet" || cluster == "mainnet-beta" {
		return fmt.Sprintf("%s/tx/%s", baseURL, signature)
	}
	return fmt.Sprintf("%s/tx/%s?cluster=%s", baseURL, signature, cluster)
}
