package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/shiftdevices/wallycore/pkg/crypto"
)

// resolvePrivateKey loads the signing key from the -key flag, the
// configured key file, or an interactive no-echo prompt, in that order.
// Keys never arrive via argv so they cannot leak into process listings
// or shell history.
func resolvePrivateKey(keyFile, configuredFile string) ([]byte, error) {
	path := keyFile
	if path == "" {
		path = configuredFile
	}
	if path != "" {
		return readPrivateKeyFile(path)
	}
	return promptPrivateKey()
}

// readPrivateKeyFile reads a hex or WIF private key from a file.
func readPrivateKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	priv, err := parsePrivateKey(string(data))
	crypto.ZeroBytes(data)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	return priv, nil
}

// promptPrivateKey reads a hex or WIF key from the terminal with echo
// disabled.
func promptPrivateKey() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; pass -key or set signing.key_file")
	}

	fmt.Fprint(os.Stderr, "Private key (hex or WIF): ")
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	priv, err := parsePrivateKey(string(line))
	crypto.ZeroBytes(line)
	return priv, err
}

// parsePrivateKey accepts a 64-character hex scalar or a WIF string.
func parsePrivateKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	if len(s) == 2*crypto.PrivateKeyLen {
		priv, err := hex.DecodeString(s)
		if err == nil {
			if err := crypto.ValidatePrivateKey(priv); err != nil {
				return nil, err
			}
			return priv, nil
		}
	}

	priv, _, err := crypto.PrivateKeyFromWIF(s)
	if err != nil {
		return nil, fmt.Errorf("key is neither 64-char hex nor WIF: %w", err)
	}
	return priv, nil
}
