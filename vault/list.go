package vault

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlexZinkM/mantra-vault/internal/common"
	"github.com/AlexZinkM/mantra-vault/internal/model"

	"golang.org/x/sync/errgroup"
)

// readConcurrency bounds parallel metadata reads in List and Check
const readConcurrency = 8

// List returns the plaintext metadata of every wallet, most recently used first.
// No ciphertext is decrypted. The directory is re-read on every call; a missing
// directory is an empty vault. Unreadable or corrupt files are skipped and logged,
// use Check to report them.
func (m *Manager) List(ctx context.Context) ([]model.WalletSummary, error) {
	files, err := m.walletFiles()
	if err != nil {
		return nil, err
	}

	results := make([]*model.WalletFile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := readMetadata(path)
			if err != nil {
				m.log.Warn().Str("file", filepath.Base(path)).Str("kind", string(KindOf(err))).Msg("skipping unreadable wallet file")
				return nil
			}
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]model.WalletSummary, 0, len(results))
	for _, f := range results {
		if f != nil {
			summaries = append(summaries, f.Summary())
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
			return a.LastAccessedAt.After(b.LastAccessedAt)
		}
		return a.Name < b.Name
	})
	return summaries, nil
}

// All is a lazy view of List. Each range over the sequence enumerates the directory
// afresh, so it can be restarted and never serves stale data. An enumeration error is
// yielded once with a zero summary.
func (m *Manager) All(ctx context.Context) iter.Seq2[model.WalletSummary, error] {
	return func(yield func(model.WalletSummary, error) bool) {
		summaries, err := m.List(ctx)
		if err != nil {
			yield(model.WalletSummary{}, err)
			return
		}
		for _, s := range summaries {
			if !yield(s, nil) {
				return
			}
		}
	}
}

// HasWallets reports whether the vault holds at least one wallet file
func (m *Manager) HasWallets(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	files, err := m.walletFiles()
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// walletFiles lists *.wallet paths in the vault directory. Temp files from in-flight
// writes are dot-prefixed and end in .tmp, so they never match.
func (m *Manager) walletFiles() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, ioErr("read directory", m.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != common.WalletExt {
			continue
		}
		files = append(files, filepath.Join(m.dir, e.Name()))
	}
	return files, nil
}

// readMetadata reads a wallet file without knowing its logical name
func readMetadata(path string) (*model.WalletFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErr("read", path, err)
	}
	f, err := model.UnmarshalWalletFile(data)
	if err != nil {
		return nil, &FormatError{Name: filepath.Base(path), Path: path, Err: err}
	}
	return f, nil
}

// Info returns the plaintext metadata of one wallet without decrypting it
func (m *Manager) Info(ctx context.Context, name string) (model.WalletSummary, error) {
	path, err := m.path(name)
	if err != nil {
		return model.WalletSummary{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.WalletSummary{}, err
	}
	f, err := m.readFile(name, path)
	if err != nil {
		return model.WalletSummary{}, err
	}
	return f.Summary(), nil
}
