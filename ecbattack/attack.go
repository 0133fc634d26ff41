// Package ecbattack recovers the secret suffix an ECB encryption oracle
// appends to attacker input, one byte at a time. It only ever calls
// Oracle.Encrypt.
package ecbattack

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/oracle"
)

// DefaultMaxBlockSize is the largest block size DiscoverBlockSize tries
// unless Attack.MaxBlockSize says otherwise.
const DefaultMaxBlockSize = 40

type Attack struct {
	Oracle oracle.Oracle

	// MaxBlockSize bounds block size discovery. Zero means DefaultMaxBlockSize.
	MaxBlockSize int
	// Workers above one build each guess table on that many goroutines.
	// The oracle must then be safe for concurrent use.
	Workers int
	// Logger receives progress lines. Nil is silent.
	Logger *log.Logger
}

func New(o oracle.Oracle) *Attack {
	return &Attack{Oracle: o}
}

// RecoverAligned runs the attack against an oracle that puts attacker
// input at the start of its plaintext.
func (a *Attack) RecoverAligned(ctx context.Context) ([]byte, Params, error) {
	p, err := a.DiscoverAligned()
	if err != nil {
		return nil, Params{}, err
	}

	secret, err := a.Recover(ctx, p)
	return secret, p, err
}

// RecoverWithPrefix runs the attack against an oracle that puts a hidden
// prefix of unknown length before attacker input.
func (a *Attack) RecoverWithPrefix(ctx context.Context) ([]byte, Params, error) {
	p, err := a.Discover()
	if err != nil {
		return nil, Params{}, err
	}

	secret, err := a.Recover(ctx, p)
	return secret, p, err
}

// Recover decrypts the secret byte by byte. Each byte costs one guess table
// of 256 oracle calls plus one probe. Recovery stops at p.SecretLen bytes,
// at the first probe block missing from its table, or when the target block
// falls past the end of the ciphertext. A guess table that does not depend
// on the guessed byte fails with ErrMisaligned. Whatever was recovered so
// far is returned even when ctx ends the run early.
//
// With a negative (unknown) SecretLen the first padding byte is recovered
// too and is stripped before returning.
func (a *Attack) Recover(ctx context.Context, p Params) ([]byte, error) {
	bs := p.BlockSize
	if bs < 1 {
		return nil, ErrBlockSize
	}

	limit := p.SecretLen
	if limit < 0 {
		limit = math.MaxInt
	}

	recovered := []byte{}
	for blockIndex := 0; len(recovered) < limit; blockIndex++ {
		for byteIndex := 1; byteIndex <= bs && len(recovered) < limit; byteIndex++ {
			if err := ctx.Err(); err != nil {
				return recovered, err
			}

			target := (p.PrefixBlocks + blockIndex) * bs
			filler := bytes.Repeat([]byte{fillers[0]}, p.ByteOffset+bs-byteIndex)

			known := make([]byte, 0, len(filler)+len(recovered))
			known = append(known, filler...)
			known = append(known, recovered...)

			ct := a.Oracle.Encrypt(filler)
			if target+bs > len(ct) {
				a.logf("target block %d is past the ciphertext, stopping", target/bs)
				return a.finish(recovered, p), nil
			}

			// Distinct guesses give distinct blocks under ECB. Fewer entries
			// means the guessed byte is outside the target block.
			table := a.guessTable(known, target, bs)
			if len(table) < 256 {
				return recovered, fmt.Errorf("%w: %d distinct blocks at byte %d", ErrMisaligned, len(table), len(recovered))
			}

			b, ok := table[string(ct[target:target+bs])]
			if !ok {
				a.logf("no guess matches after %d bytes, stopping", len(recovered))
				return a.finish(recovered, p), nil
			}
			recovered = append(recovered, b)
		}
		a.logf("recovered %d bytes", len(recovered))
	}

	return recovered, nil
}

func (a *Attack) finish(recovered []byte, p Params) []byte {
	if p.SecretLen >= 0 {
		return recovered
	}
	return aesgo.Unpad(recovered)
}

// guessTable maps the ciphertext block at offset to the byte that was
// appended to known to produce it.
func (a *Attack) guessTable(known []byte, offset, blockSize int) map[string]byte {
	blocks := make([][]byte, 256)

	guess := func(c int) {
		probe := make([]byte, len(known)+1)
		copy(probe, known)
		probe[len(known)] = byte(c)

		ct := a.Oracle.Encrypt(probe)
		if offset+blockSize <= len(ct) {
			blocks[c] = ct[offset : offset+blockSize]
		}
	}

	if a.Workers > 1 {
		next := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < a.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for c := range next {
					guess(c)
				}
			}()
		}
		for c := 0; c < 256; c++ {
			next <- c
		}
		close(next)
		wg.Wait()
	} else {
		for c := 0; c < 256; c++ {
			guess(c)
		}
	}

	table := make(map[string]byte, len(blocks))
	for c, block := range blocks {
		if block != nil {
			table[string(block)] = byte(c)
		}
	}
	return table
}

func (a *Attack) maxBlockSize() int {
	if a.MaxBlockSize == 0 {
		return DefaultMaxBlockSize
	}
	return a.MaxBlockSize
}

func (a *Attack) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}
