package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"
	"sync"

	sha256simd "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownAlgorithm is returned by Lookup for names that are not registered.
var ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

// Algorithm names.
const (
	MD4        = "md4"
	MD5        = "md5"
	SHA1       = "sha1"
	SHA224     = "sha224"
	SHA256     = "sha256"
	SHA384     = "sha384"
	SHA512     = "sha512"
	SHA512_224 = "sha512-224"
	SHA512_256 = "sha512-256"
	SHA3_224   = "sha3-224"
	SHA3_256   = "sha3-256"
	SHA3_384   = "sha3-384"
	SHA3_512   = "sha3-512"
	Keccak256  = "keccak-256"
	Keccak512  = "keccak-512"
	BLAKE2b256 = "blake2b-256"
	BLAKE2b384 = "blake2b-384"
	BLAKE2b512 = "blake2b-512"
	BLAKE2s256 = "blake2s-256"
	RIPEMD160  = "ripemd160"
	BLAKE3     = "blake3"
	XXH3       = "xxh3-64"
)

// Algorithm describes one hash function.
//
// Algorithm values are immutable and safe to share between goroutines;
// every call to New returns independent state.
type Algorithm struct {
	name string
	size int
	new  func() hash.Hash
}

// NewAlgorithm creates an Algorithm from a constructor. The output size is
// taken from a probe instance.
func NewAlgorithm(name string, fn func() hash.Hash) Algorithm {
	return Algorithm{name: name, size: fn().Size(), new: fn}
}

// Name returns the canonical registry name.
func (a Algorithm) Name() string { return a.name }

// Size returns the digest size in bytes.
func (a Algorithm) Size() int { return a.size }

// HexLen returns the length of the hexadecimal digest.
func (a Algorithm) HexLen() int { return 2 * a.size }

// New returns fresh hash state.
func (a Algorithm) New() hash.Hash { return a.new() }

// Valid reports whether a has a constructor.
func (a Algorithm) Valid() bool { return a.new != nil }

// registry holds the known algorithms keyed by canonical name.
type registry struct {
	mu      sync.RWMutex
	byName  map[string]Algorithm
	aliases map[string]string
}

var defaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *registry {
	r := &registry{
		byName:  make(map[string]Algorithm),
		aliases: make(map[string]string),
	}

	r.register(NewAlgorithm(MD4, md4.New))
	r.register(NewAlgorithm(MD5, md5.New))
	r.register(NewAlgorithm(SHA1, sha1.New), "sha-1")
	r.register(NewAlgorithm(SHA224, sha256.New224), "sha-224")
	r.register(NewAlgorithm(SHA256, sha256simd.New), "sha-256")
	r.register(NewAlgorithm(SHA384, sha512.New384), "sha-384")
	r.register(NewAlgorithm(SHA512, sha512.New), "sha-512")
	r.register(NewAlgorithm(SHA512_224, sha512.New512_224), "sha-512/224")
	r.register(NewAlgorithm(SHA512_256, sha512.New512_256), "sha-512/256")
	r.register(NewAlgorithm(SHA3_224, sha3.New224))
	r.register(NewAlgorithm(SHA3_256, sha3.New256))
	r.register(NewAlgorithm(SHA3_384, sha3.New384))
	r.register(NewAlgorithm(SHA3_512, sha3.New512))
	r.register(NewAlgorithm(Keccak256, sha3.NewLegacyKeccak256), "keccak256")
	r.register(NewAlgorithm(Keccak512, sha3.NewLegacyKeccak512), "keccak512")
	r.register(NewAlgorithm(BLAKE2b256, unkeyed(blake2b.New256)))
	r.register(NewAlgorithm(BLAKE2b384, unkeyed(blake2b.New384)))
	r.register(NewAlgorithm(BLAKE2b512, unkeyed(blake2b.New512)))
	r.register(NewAlgorithm(BLAKE2s256, unkeyed(blake2s.New256)))
	r.register(NewAlgorithm(RIPEMD160, ripemd160.New), "ripemd-160")
	r.register(NewAlgorithm(BLAKE3, func() hash.Hash { return blake3.New() }))
	r.register(NewAlgorithm(XXH3, func() hash.Hash { return xxh3.New() }), "xxh3")

	return r
}

// unkeyed adapts a keyed BLAKE2 constructor. With a nil key the
// constructors cannot fail.
func unkeyed(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic(fmt.Sprintf("digest: unkeyed blake2 constructor failed: %v", err))
		}
		return h
	}
}

func (r *registry) register(a Algorithm, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[a.name] = a
	for _, alias := range aliases {
		r.aliases[alias] = a.name
	}
}

func (r *registry) lookup(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	a, ok := r.byName[key]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Register adds an algorithm (and optional aliases) to the default
// registry, replacing any algorithm of the same name.
func Register(a Algorithm, aliases ...string) {
	defaultRegistry.register(a, aliases...)
}

// Lookup returns the algorithm registered under name or one of its aliases.
// Matching is case-insensitive.
func Lookup(name string) (Algorithm, error) {
	return defaultRegistry.lookup(name)
}

// Names returns the canonical names of all registered algorithms, sorted.
func Names() []string {
	return defaultRegistry.names()
}
