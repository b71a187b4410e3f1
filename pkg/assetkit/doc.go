// Package assetkit provides a reusable library for file asset management
// with pluggable repository and blob storage backends.
//
// It exposes a single Service interface that coordinates the asset
// lifecycle: upload generates a collision-resistant storage key, writes
// the blob, then the metadata record (compensating by removing the blob
// if the record write fails); delete removes the blob before the record
// so a crash in between leaves a detectable orphaned record instead of an
// unfindable orphaned blob. Implementations of repositories (memory,
// Postgres) and blob stores (memory, filesystem, S3) are provided under
// subpackages.
//
// An asset record existing implies its blob should exist. When storage
// disagrees the gap surfaces as ErrBlobMissing, distinct from
// ErrAssetNotFound, and is never silently repaired.
package assetkit
