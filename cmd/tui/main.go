package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/mantra-vault/internal/common"
	"github.com/AlexZinkM/mantra-vault/internal/config"
	"github.com/AlexZinkM/mantra-vault/internal/model"
	"github.com/AlexZinkM/mantra-vault/mantra"
	"github.com/AlexZinkM/mantra-vault/vault"

	"github.com/awnumar/memguard"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

func main() {
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		memguard.SafeExit(1)
	}
	cfg := config.Get()

	params, err := cfg.KDFParams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		memguard.SafeExit(1)
	}
	// Warn level keeps routine log lines out of the menu.
	manager, err := vault.NewManager(cfg.VaultDir,
		vault.WithKDFParams(params),
		vault.WithLockout(cfg.MaxUnlockAttempts, cfg.LockoutDuration()),
		vault.WithLogger(common.NewLogger("warn")),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open vault: %v\n", err)
		memguard.SafeExit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Println("\n=== Mantra Wallet ===")
		fmt.Println("1) List wallets")
		fmt.Println("2) Unlock wallet")
		fmt.Println("3) Show address QR")
		fmt.Println("4) Check wallet files")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		switch strings.TrimSpace(input) {
		case "1":
			if _, err := printWallets(ctx, manager); err != nil {
				fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
			}
		case "2":
			name, ok := selectWallet(ctx, reader, manager)
			if ok {
				unlockWallet(ctx, manager, name)
			}
		case "3":
			name, ok := selectWallet(ctx, reader, manager)
			if ok {
				showQR(ctx, manager, name)
			}
		case "4":
			checkFiles(ctx, manager)
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printWallets(ctx context.Context, m *vault.Manager) ([]model.WalletSummary, error) {
	wallets, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		fmt.Println("No wallets found in", m.Dir())
		return nil, nil
	}
	fmt.Println("\n--- Wallets ---")
	for i, w := range wallets {
		fmt.Printf("%d) %-20s %s  last used %s\n", i+1, w.Name, common.TruncateAddress(w.Address, 6), common.FormatTimestamp(w.LastAccessedAt))
	}
	return wallets, nil
}

func selectWallet(ctx context.Context, reader *bufio.Reader, m *vault.Manager) (string, bool) {
	wallets, err := printWallets(ctx, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
		return "", false
	}
	if len(wallets) == 0 {
		return "", false
	}

	fmt.Print("Select wallet (blank to cancel): ")
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(wallets) {
		fmt.Println("invalid selection")
		return "", false
	}
	return wallets[n-1].Name, true
}

// unlockWallet runs the unlock flow: password prompt, KDF behind a spinner, attempts
// remaining after a wrong password, and a countdown while the wallet is locked.
func unlockWallet(ctx context.Context, m *vault.Manager, name string) {
	session := m.NewUnlockSession(name)

	for {
		if session.State() == vault.StateLockedOut {
			waitLockout(session)
			continue
		}

		password, err := config.PromptForPassword(fmt.Sprintf("Password for %s (%d attempts left): ", name, session.AttemptsRemaining()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			session.Abandon()
			return
		}

		res := spin("Decrypting", session.AttemptAsync(ctx, password))
		var wrong *vault.WrongPasswordError
		switch {
		case res.Err == nil:
			verifyAndShow(m, name, res)
			return
		case errors.As(res.Err, &wrong):
			fmt.Printf("Wrong password. %d attempt(s) remaining.\n", wrong.AttemptsRemaining)
		case errors.Is(res.Err, vault.ErrLockedOut):
			fmt.Println("Too many failed attempts.")
		default:
			fmt.Fprintf(os.Stderr, "unlock failed: %v\n", res.Err)
			return
		}
	}
}

func verifyAndShow(m *vault.Manager, name string, res vault.LoadResult) {
	defer res.Secret.Destroy()

	info, err := m.Info(context.Background(), name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read wallet info: %v\n", err)
		return
	}
	address, err := mantra.DeriveAddress(res.Secret.Reveal(), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stored mnemonic is invalid: %v\n", err)
		return
	}
	if address != info.Address {
		fmt.Fprintln(os.Stderr, "warning: stored address does not match the mnemonic")
	}
	fmt.Printf("Wallet %s unlocked\nAddress: %s\nPath:    %s\n", name, address, mantra.HDPath(0))
}

func waitLockout(session *vault.UnlockSession) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for session.State() == vault.StateLockedOut {
		remaining := time.Until(session.LockedUntil()).Round(time.Second)
		fmt.Printf("\rWallet locked, retry in %2ds (Ctrl+C to quit) ", int(remaining.Seconds()))
		<-ticker.C
	}
	fmt.Println("\rWallet unlocked for new attempts.              ")
}

// spin draws a spinner until the result arrives
func spin(label string, ch <-chan vault.LoadResult) vault.LoadResult {
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case res := <-ch:
			fmt.Print("\r" + strings.Repeat(" ", len(label)+4) + "\r")
			return res
		case <-ticker.C:
			fmt.Printf("\r%s %s", label, spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func showQR(ctx context.Context, m *vault.Manager, name string) {
	info, err := m.Info(ctx, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read wallet: %v\n", err)
		return
	}
	qr, err := mantra.AddressQRText(info.Address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render QR: %v\n", err)
		return
	}
	fmt.Println(qr)
	fmt.Println(info.Address)
}

func checkFiles(ctx context.Context, m *vault.Manager) {
	reports, err := m.Check(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
		return
	}
	if len(reports) == 0 {
		fmt.Println("No wallet files.")
		return
	}
	for _, r := range reports {
		if r.OK() {
			fmt.Printf("ok      %s\n", r.File)
		} else {
			fmt.Printf("FAILED  %s: %v\n", r.File, r.Err)
		}
	}
}
