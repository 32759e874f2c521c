package cmd

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmcleod/datawrapper/datawrapper"
	"github.com/jmcleod/datawrapper/internal/util"
)

var (
	errEmptySecret    = errors.New("secret must not be empty")
	errSecretTooLarge = errors.New("secret exceeds max_secret_size")
)

// terminalFd returns the file descriptor for stdin and whether it is a
// terminal.
func terminalFd(cmd *cobra.Command) (int, bool) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// readPassphrase takes the passphrase from DATAWRAPPER_PASSPHRASE, or
// prompts on the terminal when the variable is unset.
func readPassphrase(cmd *cobra.Command, confirm bool) (string, error) {
	if p, ok := os.LookupEnv(envPassphrase); ok {
		if p == "" {
			return "", fmt.Errorf("%s is set but empty", envPassphrase)
		}
		return p, nil
	}

	fd, isTerm := terminalFd(cmd)
	if !isTerm {
		return "", fmt.Errorf("passphrase required: set %s or use an interactive terminal", envPassphrase)
	}
	stderr := cmd.ErrOrStderr()

	_, _ = fmt.Fprint(stderr, "Passphrase: ")
	pass, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	defer util.WipeBytes(pass)
	if len(pass) == 0 {
		return "", fmt.Errorf("passphrase must not be empty")
	}

	if confirm {
		_, _ = fmt.Fprint(stderr, "Confirm passphrase: ")
		again, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		defer util.WipeBytes(again)
		if subtle.ConstantTimeCompare(pass, again) != 1 {
			return "", fmt.Errorf("passphrases do not match")
		}
	}
	return string(pass), nil
}

// readSecret wraps a secret typed at the terminal or piped on stdin. Piped
// input is read straight into the wrapper's scratch buffer; one byte of
// headroom detects input longer than maxSize. A single trailing newline
// is dropped.
func readSecret(cmd *cobra.Command, maxSize int, opts ...datawrapper.Option) (*datawrapper.Wrapper, error) {
	var (
		w   *datawrapper.Wrapper
		err error
	)
	if fd, isTerm := terminalFd(cmd); isTerm {
		w, err = readSecretTerminal(cmd, fd, maxSize, opts...)
	} else {
		w, err = readSecretReader(cmd.InOrStdin(), maxSize, opts...)
	}
	if err != nil {
		return nil, err
	}
	if w.IsEmpty() {
		w.Destroy()
		return nil, errEmptySecret
	}
	return w, nil
}

func readSecretTerminal(cmd *cobra.Command, fd, maxSize int, opts ...datawrapper.Option) (*datawrapper.Wrapper, error) {
	stderr := cmd.ErrOrStderr()
	_, _ = fmt.Fprint(stderr, "Secret: ")
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(stderr)
	if err != nil {
		return nil, fmt.Errorf("reading secret: %w", err)
	}
	defer util.WipeBytes(b)
	if len(b) > maxSize {
		return nil, errSecretTooLarge
	}
	return datawrapper.FromBytes(b, opts...)
}

// readSecretReader reads at most maxSize bytes plus one "\n" or "\r\n"
// terminator into protected memory.
func readSecretReader(r io.Reader, maxSize int, opts ...datawrapper.Option) (*datawrapper.Wrapper, error) {
	return datawrapper.FromCapacity(maxSize+2, func(buf []byte) (int, error) {
		raw, err := io.ReadFull(r, buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("reading secret: %w", err)
		}
		n := trimNewline(buf[:raw])
		if n > maxSize {
			return 0, errSecretTooLarge
		}
		if raw == len(buf) {
			var extra [1]byte
			if k, _ := io.ReadFull(r, extra[:]); k > 0 {
				clear(extra[:])
				return 0, errSecretTooLarge
			}
		}
		return n, nil
	}, opts...)
}

// trimNewline returns the length of b without one trailing "\n" or "\r\n".
func trimNewline(b []byte) int {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		n--
		if n > 0 && b[n-1] == '\r' {
			n--
		}
	}
	return n
}

func writeSecret(w io.Writer, data []byte, asHex bool) error {
	if asHex {
		_, err := fmt.Fprintln(w, util.HexEncode(data))
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
