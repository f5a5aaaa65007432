// Package ledger persists the content hash of every processed source document
// so unchanged documents can be skipped on the next run.
//
// The file holds one entry per line, formatted as
//
//	<sha256 hex>:<source path>
//
// The hash never contains a colon, so a line is split at its first colon and
// source paths containing colons round-trip. Paths containing line breaks
// cannot be represented and are left out when saving.
package ledger

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/util/fsutil"
)

// DefaultFileName is the ledger file name inside the output directory.
const DefaultFileName = ".files.sha"

// HashLength is the width of a hex encoded content hash.
const HashLength = sha256.Size * 2

// Entry is the last successfully processed hash of a source path.
type Entry struct {
	Path string
	Hash string
}

// Ledger maps normalized source paths to content hashes.
type Ledger map[string]string

// New returns an empty ledger.
func New() Ledger {
	return make(Ledger)
}

// Normalize converts p into the ledger key form: forward slashes, cleaned,
// Unicode NFC.
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	if p == "" {
		return ""
	}
	return norm.NFC.String(path.Clean(p))
}

// ComputeHash returns the lowercase hex SHA-256 digest of data.
func ComputeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the stored hash for sourcePath.
func (l Ledger) Lookup(sourcePath string) (string, bool) {
	h, ok := l[Normalize(sourcePath)]
	return h, ok
}

// Set records hash for sourcePath.
func (l Ledger) Set(sourcePath, hash string) {
	l[Normalize(sourcePath)] = hash
}

// Entries returns the ledger content sorted by path.
func (l Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(l))
	for p, h := range l {
		entries = append(entries, Entry{Path: p, Hash: h})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

// Load reads the ledger at filePath.
//
// The returned ledger is never nil. A missing file yields an empty ledger and
// no error. An unreadable file yields an empty ledger and ErrLedgerRead;
// malformed lines are skipped and reported with ErrMalformedEntry. Both are
// warnings: every document not in the ledger is simply treated as stale.
func Load(filePath string) (Ledger, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return New(), errors.Wrap(err, ErrLedgerRead).WithContext("path", filePath).Build()
	}
	return Parse(data)
}

// Parse decodes ledger file content. See Load for the error contract.
func Parse(data []byte) (Ledger, error) {
	l := New()
	malformed := 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		hash, p, ok := strings.Cut(line, ":")
		if !ok || !validHash(hash) || p == "" {
			malformed++
			continue
		}
		l.Set(p, hash)
	}
	if err := scanner.Err(); err != nil {
		return New(), errors.Wrap(err, ErrLedgerRead).Build()
	}
	if malformed > 0 {
		return l, errors.Wrap(nil, ErrMalformedEntry).WithContext("lines", malformed).Build()
	}
	return l, nil
}

// Save atomically replaces the ledger at filePath with l.
//
// Entries are written sorted by path. Paths that cannot be represented in the
// line format are omitted and returned as skipped.
func Save(filePath string, l Ledger) (skipped []string, err error) {
	var buf bytes.Buffer
	for _, e := range l.Entries() {
		if !Representable(e.Path) || !validHash(e.Hash) {
			skipped = append(skipped, e.Path)
			continue
		}
		buf.WriteString(e.Hash)
		buf.WriteByte(':')
		buf.WriteString(e.Path)
		buf.WriteByte('\n')
	}

	if err := fsutil.WriteFileAtomic(filePath, buf.Bytes(), 0o644); err != nil {
		return skipped, errors.Wrap(err, ErrLedgerWrite).WithContext("path", filePath).Build()
	}
	return skipped, nil
}

// Representable reports whether sourcePath can be stored in the line format.
func Representable(sourcePath string) bool {
	return sourcePath != "" && !strings.ContainsAny(sourcePath, "\r\n")
}

// validHash accepts any non-empty token without separators. ComputeHash
// always produces HashLength hex characters.
func validHash(h string) bool {
	return h != "" && !strings.ContainsAny(h, ":\r\n \t")
}
