package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/mantra-vault/internal/config"
	"github.com/AlexZinkM/mantra-vault/internal/crypto"
	"github.com/AlexZinkM/mantra-vault/mantra"
	"github.com/AlexZinkM/mantra-vault/vault"

	"github.com/urfave/cli/v2"
)

func create(ctx *cli.Context) error {
	name, err := requireName(ctx)
	if err != nil {
		return err
	}
	if exists, err := manager.Exists(name); err != nil {
		return err
	} else if exists {
		return &vault.NameConflictError{Name: name}
	}

	password, err := config.PromptForNewPassword(checkPolicy)
	if err != nil {
		return err
	}

	mnemonic, address, err := mantra.GenerateWallet(ctx.Int(wordsFlag.Name))
	if err != nil {
		crypto.Wipe(password)
		return err
	}
	if err := manager.Save(ctx.Context, name, address, []byte(mnemonic), password); err != nil {
		return err
	}

	fmt.Printf("Wallet %q created\n", name)
	fmt.Printf("Address: %s\n\n", address)
	fmt.Println("Write down your mnemonic and keep it offline. It will not be shown again:")
	fmt.Printf("\n    %s\n\n", mnemonic)
	if ctx.Bool(qrFlag.Name) {
		if err := printQR(address); err != nil {
			return err
		}
	}
	return setActiveIfNone(name)
}

func importWallet(ctx *cli.Context) error {
	name, err := requireName(ctx)
	if err != nil {
		return err
	}
	overwrite := ctx.Bool(overwriteFlag.Name)
	if !overwrite {
		if exists, err := manager.Exists(name); err != nil {
			return err
		} else if exists {
			return &vault.NameConflictError{Name: name}
		}
	}

	mnemonic, err := config.PromptForMnemonic()
	if err != nil {
		return err
	}
	address, err := mantra.DeriveAddress(string(mnemonic), 0)
	if err != nil {
		crypto.Wipe(mnemonic)
		return err
	}

	password, err := config.PromptForNewPassword(checkPolicy)
	if err != nil {
		crypto.Wipe(mnemonic)
		return err
	}

	var opts []vault.SaveOption
	if overwrite {
		opts = append(opts, vault.Overwrite())
	}
	if err := manager.Save(ctx.Context, name, address, mnemonic, password, opts...); err != nil {
		return err
	}

	fmt.Printf("Wallet %q imported\n", name)
	fmt.Printf("Address: %s\n", address)
	return setActiveIfNone(name)
}

func list(ctx *cli.Context) error {
	wallets, err := manager.List(ctx.Context)
	if err != nil {
		return err
	}
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	format, err := outputFormat(ctx, prefs)
	if err != nil {
		return err
	}
	return printWallets(os.Stdout, format, wallets, prefs.ActiveWallet)
}

func info(ctx *cli.Context) error {
	name, err := walletName(ctx)
	if err != nil {
		return err
	}
	summary, err := manager.Info(ctx.Context, name)
	if err != nil {
		return err
	}
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	format, err := outputFormat(ctx, prefs)
	if err != nil {
		return err
	}
	if err := printInfo(os.Stdout, format, summary, manager.AttemptState(name)); err != nil {
		return err
	}
	if ctx.Bool(qrFlag.Name) {
		return printQR(summary.Address)
	}
	return nil
}

func use(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errors.New("missing wallet name")
	}
	exists, err := manager.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %q", vault.ErrNotFound, name)
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	prefs.ActiveWallet = name
	if err := config.SavePrefs(config.PrefsPath(cfg.VaultDir), prefs); err != nil {
		return err
	}
	fmt.Printf("Active wallet: %s\n", name)
	return nil
}

func export(ctx *cli.Context) error {
	name, err := walletName(ctx)
	if err != nil {
		return err
	}

	secret, err := unlock(ctx, name)
	if err != nil {
		return err
	}
	defer secret.Destroy()

	fmt.Fprintln(os.Stderr, "Anyone who sees this mnemonic controls the wallet.")
	os.Stdout.Write(secret.Bytes())
	fmt.Println()
	return nil
}

func rename(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("usage: rename <old> <new>")
	}
	oldName, newName := ctx.Args().Get(0), ctx.Args().Get(1)
	if err := manager.Rename(ctx.Context, oldName, newName); err != nil {
		return err
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	if prefs.ActiveWallet == oldName {
		prefs.ActiveWallet = newName
		if err := config.SavePrefs(config.PrefsPath(cfg.VaultDir), prefs); err != nil {
			return err
		}
	}
	fmt.Printf("Wallet %q renamed to %q\n", oldName, newName)
	return nil
}

func remove(ctx *cli.Context) error {
	name, err := walletName(ctx)
	if err != nil {
		return err
	}
	if !ctx.Bool(yesFlag.Name) {
		fmt.Printf("Delete wallet %q? Make sure its mnemonic is backed up. Type the wallet name to confirm: ", name)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(line) != name {
			return errors.New("aborted")
		}
	}
	if err := manager.Delete(ctx.Context, name); err != nil {
		return err
	}

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	if prefs.ActiveWallet == name {
		prefs.ActiveWallet = ""
		if err := config.SavePrefs(config.PrefsPath(cfg.VaultDir), prefs); err != nil {
			return err
		}
	}
	fmt.Printf("Wallet %q deleted\n", name)
	return nil
}

func passwd(ctx *cli.Context) error {
	name, err := walletName(ctx)
	if err != nil {
		return err
	}
	oldPassword, err := config.PromptForPassword(fmt.Sprintf("Current password for %s: ", name))
	if err != nil {
		return err
	}
	newPassword, err := config.PromptForNewPassword(checkPolicy)
	if err != nil {
		crypto.Wipe(oldPassword)
		return err
	}
	if err := manager.ChangePassword(ctx.Context, name, oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Printf("Password of wallet %q changed\n", name)
	return nil
}

func reencrypt(ctx *cli.Context) error {
	name, err := walletName(ctx)
	if err != nil {
		return err
	}
	password, err := config.PromptForPassword(fmt.Sprintf("Password for %s: ", name))
	if err != nil {
		return err
	}
	if err := manager.Reencrypt(ctx.Context, name, password); err != nil {
		return err
	}
	fmt.Printf("Wallet %q re-encrypted with %s\n", name, cfg.KDF)
	return nil
}

func check(ctx *cli.Context) error {
	reports, err := manager.Check(ctx.Context)
	if err != nil {
		return err
	}
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	format, err := outputFormat(ctx, prefs)
	if err != nil {
		return err
	}
	if err := printReports(os.Stdout, format, reports); err != nil {
		return err
	}
	for _, r := range reports {
		if !r.OK() {
			return errors.New("some wallet files failed the check")
		}
	}
	return nil
}

// unlock prompts until the password is right, the wallet locks or the user gives up
func unlock(ctx *cli.Context, name string) (*crypto.Secret, error) {
	session := manager.NewUnlockSession(name)
	for {
		password, err := config.PromptForPassword(fmt.Sprintf("Password for %s: ", name))
		if err != nil {
			session.Abandon()
			return nil, err
		}
		secret, err := session.Attempt(ctx.Context, password)
		if err == nil {
			return secret, nil
		}

		var wrong *vault.WrongPasswordError
		if errors.As(err, &wrong) {
			fmt.Fprintf(os.Stderr, "Wrong password, %d attempt(s) remaining\n", wrong.AttemptsRemaining)
			continue
		}
		return nil, err
	}
}

func checkPolicy(password []byte) error {
	if res := manager.Policy().Check(password); !res.OK() {
		return &vault.WeakPasswordError{Result: res}
	}
	return nil
}

// requireName returns --name, which commands creating a wallet cannot default
func requireName(ctx *cli.Context) (string, error) {
	name := ctx.String(nameFlag.Name)
	if name == "" {
		return "", errors.New("--name is required")
	}
	return name, nil
}

// walletName returns --name or the active wallet
func walletName(ctx *cli.Context) (string, error) {
	if name := ctx.String(nameFlag.Name); name != "" {
		return name, nil
	}
	prefs, err := loadPrefs()
	if err != nil {
		return "", err
	}
	if prefs.ActiveWallet == "" {
		return "", errors.New("no active wallet: pass --name or run 'use <name>'")
	}
	return prefs.ActiveWallet, nil
}

func loadPrefs() (*config.Prefs, error) {
	return config.LoadPrefs(config.PrefsPath(cfg.VaultDir))
}

func setActiveIfNone(name string) error {
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	if prefs.ActiveWallet != "" {
		return nil
	}
	prefs.ActiveWallet = name
	return config.SavePrefs(config.PrefsPath(cfg.VaultDir), prefs)
}

func printQR(address string) error {
	qr, err := mantra.AddressQRText(address)
	if err != nil {
		return err
	}
	fmt.Println(qr)
	return nil
}
