// Package ident computes stable identities for test cases.
//
// A case ID is a SHA-256 digest with domain separation over the canonical
// JSON rendering of the case definition. Canonical JSON here means sorted
// object keys (UTF-16 code unit order), NFC-normalized strings, no HTML
// escaping. Case definitions only ever hold strings, so the encoder
// handles flat string objects and nothing else. The same definition therefore hashes
// to the same ID on every machine and every run, which lets run history
// line up results for one case across runs even when it is renamed in
// display output or moved within a suite.
package ident
