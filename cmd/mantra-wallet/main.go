package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/mantra-vault/internal/common"
	"github.com/AlexZinkM/mantra-vault/internal/config"
	"github.com/AlexZinkM/mantra-vault/vault"

	"github.com/awnumar/memguard"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var (
	Version string

	cfg     *config.Config
	manager *vault.Manager
	logger  zerolog.Logger
)

func main() {
	// Wipe locked buffers on Ctrl+C and on normal exit.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	app := cli.NewApp()
	app.Version = Version
	app.Name = "mantra-wallet"
	app.Usage = "encrypted wallet vault for Mantra DEX"
	app.Commands = append(
		app.Commands,
		&createCommand,
		&importCommand,
		&listCommand,
		&infoCommand,
		&useCommand,
		&exportCommand,
		&renameCommand,
		&removeCommand,
		&passwdCommand,
		&reencryptCommand,
		&checkCommand,
		&serveCommand,
	)
	app.Flags = []cli.Flag{vaultDirFlag, verboseFlag}
	app.Before = func(ctx *cli.Context) error {
		if err := config.Init(); err != nil {
			return err
		}
		cfg = config.Get()
		if dir := ctx.String(vaultDirFlag.Name); dir != "" {
			cfg.VaultDir = dir
		}
		level := cfg.LogLevel
		if ctx.Bool(verboseFlag.Name) {
			level = "debug"
		}
		logger = common.NewLogger(level)

		m, err := newManager(cfg, logger)
		if err != nil {
			return fmt.Errorf("error initializing wallet vault: %v", err)
		}
		manager = m
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %v", err))
		memguard.SafeExit(1)
	}
}

func newManager(c *config.Config, log zerolog.Logger) (*vault.Manager, error) {
	params, err := c.KDFParams()
	if err != nil {
		return nil, err
	}
	return vault.NewManager(c.VaultDir,
		vault.WithKDFParams(params),
		vault.WithLockout(c.MaxUnlockAttempts, c.LockoutDuration()),
		vault.WithLogger(log),
	)
}

var (
	vaultDirFlag = &cli.StringFlag{
		Name:  "vault-dir",
		Usage: "wallet directory (default $MANTRA_VAULT_DIR or ~/.mantra_dex/wallets)",
	}
	verboseFlag = &cli.BoolFlag{
		Name:        "verbose",
		Usage:       "enable debug logs",
		Value:       false,
		DefaultText: "false",
	}
	nameFlag = &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "wallet name (default: the active wallet)",
	}
	wordsFlag = &cli.IntFlag{
		Name:  "words",
		Usage: "mnemonic length, 12 or 24",
		Value: 12,
	}
	overwriteFlag = &cli.BoolFlag{
		Name:  "overwrite",
		Usage: "replace an existing wallet with the same name",
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format: table, json or yaml",
	}
	qrFlag = &cli.BoolFlag{
		Name:  "qr",
		Usage: "print the address as a QR code",
	}
	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "do not ask for confirmation",
	}
	listenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "listen address (default $MANTRA_LISTEN_ADDR)",
	}
)

var (
	createCommand = cli.Command{
		Name:  "create",
		Usage: "Generate a new wallet and encrypt it with a password",
		Flags: []cli.Flag{nameFlag, wordsFlag, qrFlag},
		Action: func(ctx *cli.Context) error {
			return create(ctx)
		},
	}
	importCommand = cli.Command{
		Name:  "import",
		Usage: "Import a wallet from its mnemonic (prompted, or one line on stdin)",
		Flags: []cli.Flag{nameFlag, overwriteFlag},
		Action: func(ctx *cli.Context) error {
			return importWallet(ctx)
		},
	}
	listCommand = cli.Command{
		Name:  "list",
		Usage: "List saved wallets, most recently used first",
		Flags: []cli.Flag{outputFlag},
		Action: func(ctx *cli.Context) error {
			return list(ctx)
		},
	}
	infoCommand = cli.Command{
		Name:  "info",
		Usage: "Show wallet name, address and timestamps without unlocking",
		Flags: []cli.Flag{nameFlag, outputFlag, qrFlag},
		Action: func(ctx *cli.Context) error {
			return info(ctx)
		},
	}
	useCommand = cli.Command{
		Name:      "use",
		Usage:     "Set the active wallet",
		ArgsUsage: "<name>",
		Action: func(ctx *cli.Context) error {
			return use(ctx)
		},
	}
	exportCommand = cli.Command{
		Name:  "export",
		Usage: "Unlock a wallet and print its mnemonic",
		Flags: []cli.Flag{nameFlag},
		Action: func(ctx *cli.Context) error {
			return export(ctx)
		},
	}
	renameCommand = cli.Command{
		Name:      "rename",
		Usage:     "Rename a wallet, no password needed",
		ArgsUsage: "<old> <new>",
		Action: func(ctx *cli.Context) error {
			return rename(ctx)
		},
	}
	removeCommand = cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Overwrite and delete a wallet file",
		Flags:   []cli.Flag{nameFlag, yesFlag},
		Action: func(ctx *cli.Context) error {
			return remove(ctx)
		},
	}
	passwdCommand = cli.Command{
		Name:  "passwd",
		Usage: "Change the password of a wallet",
		Flags: []cli.Flag{nameFlag},
		Action: func(ctx *cli.Context) error {
			return passwd(ctx)
		},
	}
	reencryptCommand = cli.Command{
		Name:  "reencrypt",
		Usage: "Re-encrypt a wallet with the configured KDF, keeping its password",
		Flags: []cli.Flag{nameFlag},
		Action: func(ctx *cli.Context) error {
			return reencrypt(ctx)
		},
	}
	checkCommand = cli.Command{
		Name:  "check",
		Usage: "Check every wallet file for corruption and loose permissions",
		Flags: []cli.Flag{outputFlag},
		Action: func(ctx *cli.Context) error {
			return check(ctx)
		},
	}
	serveCommand = cli.Command{
		Name:  "serve",
		Usage: "Serve the local wallet HTTP API",
		Flags: []cli.Flag{listenFlag},
		Action: func(ctx *cli.Context) error {
			return serve(ctx)
		},
	}
)
