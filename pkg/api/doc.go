// Package api defines the wire messages of the splitledger RPC services.
//
// Messages are plain structs encoded as JSON. Amounts are in currency units
// and dates are RFC 3339 timestamps. The connect bindings live in
// package apiconnect.
package api
