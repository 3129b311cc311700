// Package models defines the core domain records for splitledger.
//
// # Records
//
// The store persists four kinds of records:
//   - User: an identity known to the ledger (owned by the identity subsystem)
//   - Expense: a payment by one user, divided into per-participant Splits
//   - Settlement: a payment between two users that pays down debt
//   - Group: a named set of Members; the sole authorization boundary for
//     group expenses and settlements
//
// Balances are never stored. They are always derived from expenses and
// settlements by the calculator package, so they cannot drift from the
// records they summarise.
//
// # Scope
//
// A record with an empty GroupID is a 1-to-1 record. 1-to-1 records only
// net against other 1-to-1 records between the same users; group records
// only net against records of the same group.
//
// # Conventions
//
//  1. Relationships are ID strings, never pointers
//  2. Amounts are float64 in a single currency; comparisons use calculator.Tolerance
//  3. Dates are time.Time (persisted as unix milliseconds); CreatedAt is a unix timestamp
package models
