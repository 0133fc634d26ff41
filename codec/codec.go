// Package codec holds the text boundary of the tools: hex and base64
// conversion and the challenge file readers.
package codec

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// DecodeError reports malformed hex or base64 input.
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: invalid %s input: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func DecodeHex(text string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, &DecodeError{Encoding: "hex", Err: err}
	}
	return b, nil
}

func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeBase64 accepts standard base64 with or without trailing '=' padding.
func DecodeBase64(text string) ([]byte, error) {
	text = strings.TrimSpace(text)

	enc := base64.StdEncoding
	if len(text)%4 != 0 {
		enc = base64.RawStdEncoding
	}

	b, err := enc.DecodeString(text)
	if err != nil {
		return nil, &DecodeError{Encoding: "base64", Err: err}
	}
	return b, nil
}

func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// ReadLines returns the non-empty lines of the file at path.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ReadHexLines decodes every line of a file of hex strings.
func ReadHexLines(path string) ([][]byte, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}

	decoded := make([][]byte, len(lines))
	for i, line := range lines {
		if decoded[i], err = DecodeHex(line); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
	}
	return decoded, nil
}

// ReadBase64File decodes a file holding one base64 document wrapped over
// several lines.
func ReadBase64File(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw = bytes.ReplaceAll(raw, []byte("\r"), nil)
	raw = bytes.ReplaceAll(raw, []byte("\n"), nil)
	return DecodeBase64(string(raw))
}
