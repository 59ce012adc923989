// Package identity mints ClusterIdentity and UUID values.
//
// A ClusterIdentity is generated once per process and is stable for its
// lifetime; a UUID is minted fresh for every outbound message and for every
// locally-registered actor. Both use github.com/google/uuid as their
// source of randomness rather than hand-rolling one: each minted value
// needs only one uint64 field of random bits (its other field is a
// timestamp), which a standard UUIDv4's 128 bits comfortably supply.
package identity
