// Package chain holds flowgate's ledger plumbing: the RPC client wrapper,
// the recent-blockhash cache, associated token account resolution, and the
// streaming transfer transaction builder.
//
// Everything network-facing goes through Client; the stream engine only sees
// the small Sender/BlockhashSource interfaces it defines itself.
package chain
