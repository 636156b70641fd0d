// Package equity tracks the Canadian adjusted cost base of equity
// compensation and computes the resulting tax figures. It is designed to be
// local-first and auditable: every run can be replayed from its inputs and
// produces the same ledger, byte for byte.
//
// The core functionalities include:
//   - ACB Ledger: a running position (share count and USD cost basis)
//     mutated by acquire and dispose operations under the weighted
//     average-cost rules, with exact decimal arithmetic throughout.
//   - Event Processing: merging vests, ESPP purchases, sales and
//     sale-to-cover events into one chronological stream, applying each to
//     the position and emitting an immutable ledger entry per event.
//   - Currency Conversion: USD is the unit of account; CAD figures are
//     derived at each event from the Bank of Canada daily rate, never
//     accumulated independently.
//   - Data Persistence: encoding and decoding of ledger entries to and from
//     a human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `acb` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package equity
