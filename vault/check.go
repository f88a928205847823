package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/AlexZinkM/mantra-vault/internal/common"

	"golang.org/x/sync/errgroup"
)

// IntegrityReport is the structural check result of one wallet file
type IntegrityReport struct {
	File string
	Name string // empty when the file could not be parsed
	Err  error  // nil when the file is healthy
}

// OK reports whether the file passed every check
func (r IntegrityReport) OK() bool {
	return r.Err == nil
}

// Check validates every wallet file in the vault without decrypting anything: the JSON
// envelope, the KDF parameters, owner-only permissions, and that the file name matches
// the wallet name inside it. Reports are sorted by file name.
func (m *Manager) Check(ctx context.Context) ([]IntegrityReport, error) {
	files, err := m.walletFiles()
	if err != nil {
		return nil, err
	}

	reports := make([]IntegrityReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = checkFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].File < reports[j].File
	})
	for _, r := range reports {
		if !r.OK() {
			m.log.Warn().Str("file", r.File).Str("kind", string(KindOf(r.Err))).Msg("wallet file failed integrity check")
		}
	}
	return reports, nil
}

func checkFile(path string) IntegrityReport {
	r := IntegrityReport{File: filepath.Base(path)}

	f, err := readMetadata(path)
	if err != nil {
		r.Err = err
		return r
	}
	r.Name = f.Name

	if want := common.WalletFileName(f.Name); want != r.File {
		r.Err = &FormatError{Name: f.Name, Path: path, Err: fmt.Errorf("file name does not match wallet name, expected %s", want)}
		return r
	}
	if err := common.CheckPrivate(path); err != nil {
		r.Err = ioErr("check permissions", path, err)
	}
	return r
}
