// Package normalisers and its subpackages convert raw source material into
// plain text Documents the ingestion pipeline can split and index.
package normalisers
