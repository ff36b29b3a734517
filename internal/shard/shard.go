// Package shard names, writes, reads and discovers the JSON array files that
// carry credentials between the generate and scan stages.
package shard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"OsmoTools/internal/wallet"
)

const (
	GeneratedPrefix = "osmo_wallets_"
	FoundPrefix     = "found_"
	foundFromPrefix = "found_from_"
)

// GeneratedName is the file name of the index-th generation shard.
func GeneratedName(index int) string {
	return fmt.Sprintf("%s%03d.json", GeneratedPrefix, index)
}

// FoundName is the file name of the filtered output for input.
func FoundName(input string) string {
	return foundFromPrefix + filepath.Base(input)
}

// Write encodes v as an indented JSON array into path. The content is written
// to a temporary file in the same directory and renamed into place, so a
// reader never observes a half-written shard.
func Write(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %q", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp shard")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "encode %q", path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "sync %q", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %q", path)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrapf(err, "chmod %q", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "rename into %q", path)
	}
	return nil
}

// Read decodes the JSON array of credentials in path element by element.
func Read(path string) ([]wallet.Credential, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open shard")
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	// opening delimiter `[`
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrapf(err, "decode opening delimiter of %q", path)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.Newf("%q is not a JSON array", path)
	}

	var out []wallet.Credential
	for i := 0; dec.More(); i++ {
		var c wallet.Credential
		if err := dec.Decode(&c); err != nil {
			return nil, errors.Wrapf(err, "decode element %d of %q", i, path)
		}
		out = append(out, c)
	}

	// closing delimiter `]`
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(err, "decode closing delimiter of %q", path)
	}
	return out, nil
}

// Discover lists the *.json files of dir that are generation artifacts, i.e.
// neither filtered output (found_*) nor anything named after resultDir.
func Discover(dir, resultDir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read dir %q", dir)
	}
	resultBase := filepath.Base(filepath.Clean(resultDir))

	files := lo.FilterMap(entries, func(de os.DirEntry, _ int) (string, bool) {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			return "", false
		}
		if strings.HasPrefix(name, FoundPrefix) || (resultBase != "." && strings.HasPrefix(name, resultBase)) {
			return "", false
		}
		return filepath.Join(dir, name), true
	})
	sort.Strings(files)
	return files, nil
}

// AppendJSONL appends one JSON document and a newline to path.
func AppendJSONL(path string, jsonBlob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(jsonBlob); err != nil {
		return err
	}
	_, err = f.Write([]byte("\n"))
	return err
}
