// Package reembed regenerates the embedding vectors for every note in a
// tenant, typically after switching embedding models. Notes are decrypted
// in memory, embedded in batches with retry and exponential backoff, and
// their vectors replaced; note records and the blind index are untouched.
package reembed
