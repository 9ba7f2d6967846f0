package cli

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/keyring"
)

const defaultAskPassPrompt = "[sudo] password for adguardvpn-cli: "

// SecretStore keeps the remembered sudo password.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, secret string) error
	Delete(key string) error
}

func openVault() (SecretStore, error) {
	return keyring.Open("")
}

// errNoTerminal means there is no controlling terminal to prompt on,
// as when the tray was started from a desktop session.
var errNoTerminal = errors.New("no terminal to prompt for the sudo password")

// readPassword prompts on the terminal and falls back to a dialog when
// there is no terminal.
func readPassword(prompt string) (string, error) {
	return promptWithFallback(readPasswordFromTTY, readPasswordFromDialog)(prompt)
}

func promptWithFallback(tty, dialog func(prompt string) (string, error)) func(prompt string) (string, error) {
	return func(prompt string) (string, error) {
		password, err := tty(prompt)
		if !errors.Is(err, errNoTerminal) {
			return password, err
		}
		common.LogDebug("askpass: %v, asking with a dialog", err)
		return dialog(dialogTitle())
	}
}

func dialogTitle() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "[sudo] password for " + u.Username
	}
	return "[sudo] password"
}

// readPasswordFromTTY prompts on the controlling terminal, since sudo
// captures stdout and may not attach stdin.
func readPasswordFromTTY(prompt string) (string, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoTerminal, err)
	}
	defer tty.Close()

	fmt.Fprint(tty, prompt)
	password, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(tty)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

func readPasswordFromDialog(title string) (string, error) {
	_, password, err := zenity.Password(zenity.Title(title))
	if err != nil {
		return "", fmt.Errorf("password dialog: %w", err)
	}
	return password, nil
}

func (a *App) newAskPassCmd() *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:    "askpass [prompt]",
		Short:  "Print the sudo password for adguardvpn-cli (used through SUDO_ASKPASS)",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vault, err := a.openVault()
			if err != nil {
				return err
			}

			if forget {
				if err := vault.Delete(keyring.SudoPasswordKey); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "✓ Forgot the sudo password")
				return nil
			}

			password, err := vault.Get(keyring.SudoPasswordKey)
			switch {
			case err == nil:
				fmt.Fprintln(cmd.OutOrStdout(), password)
				return nil
			case !errors.Is(err, common.ErrCredentialsNotFound):
				common.LogWarn("askpass: reading remembered password: %v", err)
			}

			prompt := defaultAskPassPrompt
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				prompt = args[0]
			}
			password, err = a.readPassword(prompt)
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("empty password")
			}

			cfg, err := loadConfig(a.opts.ConfigPath)
			if err != nil {
				common.LogWarn("askpass: %v", err)
			} else if cfg.RememberSudoPassword {
				if err := vault.Set(keyring.SudoPasswordKey, password); err != nil {
					common.LogWarn("askpass: remembering password: %v", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), password)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "delete the remembered sudo password")
	return cmd
}
