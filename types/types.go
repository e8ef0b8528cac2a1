// Package types is a super-package that holds the library code a wallet session needs around its core:
// key material, wire helpers, JSON-RPC messages, dialing and association bootstrap.
//
// This package exists to avoid import cycles, and to keep misc/"leaf" functions and types in one hierarchy.
//
// As a general rule to avoid import cycles inside this package:
//   - Only import parent packages, don't import child packages
//   - Importing from a "sibling" package (up the tree) is allowed.
package types
