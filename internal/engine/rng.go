package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Seeds identifies a provably-fair stream. Server is used as the raw HMAC
// key (ASCII, never hex-decoded).
type Seeds struct {
	Server string `json:"server_seed"`
	Client string `json:"client_seed"`
}

// Stream produces bytes from HMAC-SHA256(server, "client:nonce:round"),
// advancing round every 32 bytes. Given the same seeds and nonce it always
// yields the same sequence, so any drawing built on it can be replayed.
type Stream struct {
	seeds Seeds
	nonce uint64
	round uint64
	pos   int
	buf   [32]byte
}

// NewStream creates a stream positioned at the first byte of round 0.
func NewStream(seeds Seeds, nonce uint64) *Stream {
	s := &Stream{seeds: seeds, nonce: nonce}
	s.fill()
	return s
}

// Next returns the next byte of the stream.
func (s *Stream) Next() byte {
	if s.pos >= len(s.buf) {
		s.round++
		s.pos = 0
		s.fill()
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

// NextFloat consumes exactly 4 bytes and maps them into [0, 1).
func (s *Stream) NextFloat() float64 {
	return bytesToFloat([4]byte{s.Next(), s.Next(), s.Next(), s.Next()})
}

// IntN maps the next float onto [0, n).
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("engine: IntN called with non-positive n")
	}
	idx := int(math.Floor(s.NextFloat() * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func (s *Stream) fill() {
	h := hmac.New(sha256.New, []byte(s.seeds.Server))
	fmt.Fprintf(h, "%s:%d:%d", s.seeds.Client, s.nonce, s.round)
	copy(s.buf[:], h.Sum(nil))
}

func bytesToFloat(b [4]byte) float64 {
	result := 0.0
	for i, v := range b {
		result += float64(v) / math.Pow(256, float64(i+1))
	}
	return result
}

// HashServerSeed returns the hex SHA-256 of a server seed, the only form in
// which a seed is ever shown to a player before it is revealed.
func HashServerSeed(server string) string {
	sum := sha256.Sum256([]byte(server))
	return hex.EncodeToString(sum[:])
}
