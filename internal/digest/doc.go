// Package digest is the registry of hash algorithms a rainbow table can be
// built with.
//
// An [Algorithm] is a name, an output size and a constructor for fresh
// hash.Hash state. Algorithms are looked up by name with [Lookup]; a few
// common spellings are accepted as aliases ("sha-256", "SHA256").
//
// Providers:
//
//   - crypto/md5, crypto/sha1, crypto/sha512: md5, sha1, sha224, sha384, sha512, sha512-224, sha512-256
//   - github.com/minio/sha256-simd: sha256 (SHA-NI / AVX2 accelerated)
//   - golang.org/x/crypto: md4, ripemd160, sha3-*, keccak-*, blake2b-*, blake2s-256
//   - github.com/zeebo/blake3: blake3
//   - github.com/zeebo/xxh3: xxh3-64 (non-cryptographic, for test corpora)
package digest
