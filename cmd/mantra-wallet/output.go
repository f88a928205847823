package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AlexZinkM/mantra-vault/internal/common"
	"github.com/AlexZinkM/mantra-vault/internal/config"
	"github.com/AlexZinkM/mantra-vault/internal/model"
	"github.com/AlexZinkM/mantra-vault/vault"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// outputFormat picks --output, then the saved preference, then table
func outputFormat(ctx *cli.Context, prefs *config.Prefs) (string, error) {
	format := ctx.String(outputFlag.Name)
	if format == "" {
		format = prefs.Output
	}
	switch format {
	case "":
		return formatTable, nil
	case formatTable, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}

func printWallets(w io.Writer, format string, wallets []model.WalletSummary, active string) error {
	switch format {
	case formatJSON:
		return printJSON(w, wallets)
	case formatYAML:
		return printYAML(w, wallets)
	}

	if len(wallets) == 0 {
		fmt.Fprintln(w, "No wallets yet. Create one with 'create --name <name>' or 'import --name <name>'.")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Name", "Address", "Created", "Last used"})
	for _, s := range wallets {
		marker := ""
		if s.Name == active {
			marker = "*"
		}
		t.AppendRow(table.Row{marker, s.Name, common.TruncateAddress(s.Address, 6), common.FormatTimestamp(s.CreatedAt), common.FormatTimestamp(s.LastAccessedAt)})
	}
	t.Render()
	return nil
}

func printInfo(w io.Writer, format string, s model.WalletSummary, attempts vault.AttemptState) error {
	switch format {
	case formatJSON:
		return printJSON(w, s)
	case formatYAML:
		return printYAML(w, s)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Name", s.Name},
		{"Address", s.Address},
		{"Created", common.FormatTimestamp(s.CreatedAt)},
		{"Last used", common.FormatTimestamp(s.LastAccessedAt)},
	})
	if attempts.Failed > 0 {
		t.AppendRow(table.Row{"Failed unlocks", attempts.Failed})
	}
	t.Render()
	return nil
}

type reportRow struct {
	File  string `json:"file" yaml:"file"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	OK    bool   `json:"ok" yaml:"ok"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func printReports(w io.Writer, format string, reports []vault.IntegrityReport) error {
	rows := make([]reportRow, 0, len(reports))
	for _, r := range reports {
		row := reportRow{File: r.File, Name: r.Name, OK: r.OK()}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}

	switch format {
	case formatJSON:
		return printJSON(w, rows)
	case formatYAML:
		return printYAML(w, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Wallet", "Status"})
	for _, r := range rows {
		status := "ok"
		if !r.OK {
			status = r.Error
		}
		t.AppendRow(table.Row{r.File, r.Name, status})
	}
	t.Render()
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
