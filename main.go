// Command ecb-oracle runs the block cipher attacks against files, literals
// and simulated oracles.
//
//	ecb-oracle single-xor HEX
//	ecb-oracle detect-xor FILE
//	ecb-oracle break-xor FILE
//	ecb-oracle ecb-decrypt [-key K] FILE
//	ecb-oracle cbc-decrypt [-key K] [-iv HEX] FILE
//	ecb-oracle detect-ecb FILE
//	ecb-oracle mode-oracle [-trials N] [-seed S]
//	ecb-oracle byte-at-a-time [-prefix] [-seed S] [-passphrase P] [-workers N] [-secret B64] [-v]
//	ecb-oracle padding-oracle [-seed S] TEXT
package main

import (
	"context"
	"crypto/cipher"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/codec"
	"github.com/mario-areias/ecb-oracle/detect"
	"github.com/mario-areias/ecb-oracle/ecbattack"
	"github.com/mario-areias/ecb-oracle/freq"
	"github.com/mario-areias/ecb-oracle/key"
	"github.com/mario-areias/ecb-oracle/langcheck"
	"github.com/mario-areias/ecb-oracle/oracle"
	"github.com/mario-areias/ecb-oracle/paddingoracle"
)

const defaultKey = "YELLOW SUBMARINE"

// passphraseSalt is fixed so a passphrase always yields the same oracle key.
var passphraseSalt = []byte("ecb-oracle")

type command struct {
	name string
	run  func(args []string, out io.Writer) error
}

var commands = []command{
	{"single-xor", singleXOR},
	{"detect-xor", detectXOR},
	{"break-xor", breakXOR},
	{"ecb-decrypt", ecbDecrypt},
	{"cbc-decrypt", cbcDecrypt},
	{"detect-ecb", detectECB},
	{"mode-oracle", modeOracle},
	{"byte-at-a-time", byteAtATime},
	{"padding-oracle", paddingOracle},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("ecb-oracle: ")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command, one of: " + commandNames())
	}

	for _, c := range commands {
		if c.name == args[0] {
			return c.run(args[1:], out)
		}
	}
	return fmt.Errorf("unknown command %q, want one of: %s", args[0], commandNames())
}

func commandNames() string {
	var s string
	for i, c := range commands {
		if i > 0 {
			s += ", "
		}
		s += c.name
	}
	return s
}

// oneArg parses fs and requires exactly one positional argument.
func oneArg(fs *flag.FlagSet, args []string, what string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected one %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

func singleXOR(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("single-xor", flag.ContinueOnError)
	text, err := oneArg(fs, args, "hex string")
	if err != nil {
		return err
	}

	ct, err := codec.DecodeHex(text)
	if err != nil {
		return err
	}

	res := freq.SolveSingleByteXOR(ct)
	fmt.Fprintf(out, "key: %q\n", res.Key)
	fmt.Fprintf(out, "score: %.1f english: %.2f\n", res.Score, langcheck.EnglishConfidence(res.Plaintext))
	fmt.Fprintf(out, "%s\n", res.Plaintext)
	return nil
}

func detectXOR(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("detect-xor", flag.ContinueOnError)
	path, err := oneArg(fs, args, "file of hex lines")
	if err != nil {
		return err
	}

	lines, err := codec.ReadHexLines(path)
	if err != nil {
		return err
	}

	index, res := freq.DetectSingleByteXOR(lines)
	if index < 0 {
		return fmt.Errorf("%s has no lines", path)
	}
	fmt.Fprintf(out, "line %d, key: %q\n", index+1, res.Key)
	fmt.Fprintf(out, "score: %.1f english: %.2f\n", res.Score, langcheck.EnglishConfidence(res.Plaintext))
	fmt.Fprintf(out, "%s\n", res.Plaintext)
	return nil
}

func breakXOR(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("break-xor", flag.ContinueOnError)
	path, err := oneArg(fs, args, "base64 file")
	if err != nil {
		return err
	}

	ct, err := codec.ReadBase64File(path)
	if err != nil {
		return err
	}

	res, err := freq.BreakRepeatingXOR(ct)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "key (%d bytes): %q\n", len(res.Key), res.Key)
	fmt.Fprintf(out, "english: %.2f\n", langcheck.EnglishConfidence(res.Plaintext))
	fmt.Fprintf(out, "%s\n", res.Plaintext)
	return nil
}

func literalCipher(k string) (cipher.Block, error) {
	kk, err := key.FromBytes([]byte(k))
	if err != nil {
		return nil, err
	}
	c, err := aesgo.NewCipher(kk)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func ecbDecrypt(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ecb-decrypt", flag.ContinueOnError)
	k := fs.String("key", defaultKey, "16 byte key")
	path, err := oneArg(fs, args, "base64 file")
	if err != nil {
		return err
	}

	c, err := literalCipher(*k)
	if err != nil {
		return err
	}
	ct, err := codec.ReadBase64File(path)
	if err != nil {
		return err
	}

	plaintext, err := aesgo.DecryptECB(c, ct)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s", plaintext)
	return nil
}

func cbcDecrypt(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cbc-decrypt", flag.ContinueOnError)
	k := fs.String("key", defaultKey, "16 byte key")
	ivHex := fs.String("iv", "", "hex IV, all zero bytes when empty")
	path, err := oneArg(fs, args, "base64 file")
	if err != nil {
		return err
	}

	c, err := literalCipher(*k)
	if err != nil {
		return err
	}

	var iv []byte
	if *ivHex != "" {
		if iv, err = codec.DecodeHex(*ivHex); err != nil {
			return err
		}
	}

	ct, err := codec.ReadBase64File(path)
	if err != nil {
		return err
	}

	plaintext, err := aesgo.DecryptCBC(c, ct, iv)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s", plaintext)
	return nil
}

func detectECB(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("detect-ecb", flag.ContinueOnError)
	path, err := oneArg(fs, args, "file of hex lines")
	if err != nil {
		return err
	}

	lines, err := codec.ReadHexLines(path)
	if err != nil {
		return err
	}

	index, pairs := detect.MostLikelyECB(lines, aesgo.BlockSize)
	if index < 0 {
		fmt.Fprintln(out, "no line repeats a block")
		return nil
	}
	fmt.Fprintf(out, "line %d: %d repeated block pairs\n", index+1, pairs)
	fmt.Fprintf(out, "%s\n", codec.EncodeHex(lines[index]))
	return nil
}

func modeOracle(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mode-oracle", flag.ContinueOnError)
	trials := fs.Int("trials", 100, "number of oracle runs")
	seed := fs.Int64("seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	var correct, ecb int
	for i := 0; i < *trials; i++ {
		ct, mode, err := oracle.EncryptRandomMode(rng, detect.Probe(aesgo.BlockSize))
		if err != nil {
			return err
		}
		if mode == aesgo.ECB {
			ecb++
		}
		if detect.Detect(ct, aesgo.BlockSize) == mode {
			correct++
		}
	}

	fmt.Fprintf(out, "correct %d/%d (%d ECB, %d CBC)\n", correct, *trials, ecb, *trials-ecb)
	return nil
}

func byteAtATime(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("byte-at-a-time", flag.ContinueOnError)
	withPrefix := fs.Bool("prefix", false, "hide a random prefix of 2..1023 bytes before the input")
	seed := fs.Int64("seed", 1, "random seed for the key and prefix")
	passphrase := fs.String("passphrase", "", "derive the oracle key from a passphrase instead of the seed")
	workers := fs.Int("workers", 1, "goroutines building each guess table")
	secretB64 := fs.String("secret", oracle.ChallengeSuffix, "base64 secret the oracle appends")
	verbose := fs.Bool("v", false, "log attack progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := codec.DecodeBase64(*secretB64)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	var k key.Key
	if *passphrase != "" {
		k = key.FromPassphrase(*passphrase, passphraseSalt)
	} else if k, err = key.Random(rng); err != nil {
		return err
	}
	c, err := aesgo.NewCipher(k)
	if err != nil {
		return err
	}

	var prefix []byte
	if *withPrefix {
		prefix = oracle.RandomString(rng, 2+rng.Intn(1022))
	}

	a := ecbattack.New(oracle.NewECB(c, prefix, secret))
	a.Workers = *workers
	if *verbose {
		a.Logger = log.New(os.Stderr, "ecb-oracle: ", 0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		recovered []byte
		p         ecbattack.Params
	)
	if *withPrefix {
		recovered, p, err = a.RecoverWithPrefix(ctx)
	} else {
		recovered, p, err = a.RecoverAligned(ctx)
	}
	if err != nil && len(recovered) == 0 {
		return err
	}

	fmt.Fprintf(out, "block size %d, prefix %d bytes, secret %d bytes\n", p.BlockSize, p.PrefixLen(), p.SecretLen)
	fmt.Fprintf(out, "%s", recovered)
	if err != nil {
		return fmt.Errorf("stopped after %d bytes: %w", len(recovered), err)
	}
	return nil
}

func paddingOracle(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("padding-oracle", flag.ContinueOnError)
	seed := fs.Int64("seed", 1, "random seed for the key and IV")
	text, err := oneArg(fs, args, "plaintext")
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	k, err := key.Random(rng)
	if err != nil {
		return err
	}
	c, err := aesgo.NewCipher(k)
	if err != nil {
		return err
	}

	iv := oracle.RandomBytes(rng, aesgo.BlockSize)
	ct, err := aesgo.EncryptCBC(c, []byte(text), iv)
	if err != nil {
		return err
	}

	recovered, err := paddingoracle.Attack(paddingoracle.New(c), append(iv, ct...), aesgo.BlockSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", recovered)
	return nil
}
