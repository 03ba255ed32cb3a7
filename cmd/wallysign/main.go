// Package main implements the wallysign command line tool: key
// generation, address derivation, message signing and verification,
// signature normalization, and DER conversion over the wallycore
// signature library.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/shiftdevices/wallycore/config"
	"github.com/shiftdevices/wallycore/internal/signer"
	"github.com/shiftdevices/wallycore/pkg/crypto"
	"github.com/shiftdevices/wallycore/pkg/logging"
)

const (
	appName    = "wallysign"
	appVersion = "1.0.0"
)

var (
	configFile  string
	logLevel    string
	showVersion bool
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [options] <command> [command options]

Commands:
  keygen      generate a private key (hex, WIF, public key, address)
  pubkey      derive the public key for a private key
  address     derive the P2PKH address for a public key
  sign        sign a message or a 32-byte digest
  verify      verify a signature by public key or by address
  recover     recover the signing public key from a recoverable signature
  normalize   rewrite a compact signature to canonical low-S form
  der         convert a signature between compact and DER encodings
  format      print a message's signed-message encoding or digest

Options:
`, appName)
	flag.PrintDefaults()
}

func main() {
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
	flag.StringVar(&logLevel, "loglevel", "", "Log level override (debug|info|warn|error)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("%s %s\n", appName, appVersion)
		return
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := logging.InitGlobalLogger(cfg.LogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}
	defer logging.Sync()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(cfg, args[0], args[1:]); err != nil {
		// A failed verification is an outcome, not a usage defect: report
		// it plainly and exit 1. Malformed inputs exit 2.
		if errors.Is(err, crypto.ErrVerificationFailed) {
			fmt.Println("verification: FAILED")
			os.Exit(1)
		}
		logging.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(2)
	}
}

func run(cfg *config.Config, command string, args []string) error {
	switch command {
	case "keygen":
		return cmdKeygen(cfg, args)
	case "pubkey":
		return cmdPubkey(cfg, args)
	case "address":
		return cmdAddress(args)
	case "sign":
		return cmdSign(cfg, args)
	case "verify":
		return cmdVerify(cfg, args)
	case "recover":
		return cmdRecover(args)
	case "normalize":
		return cmdNormalize(args)
	case "der":
		return cmdDER(args)
	case "format":
		return cmdFormat(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdKeygen(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	uncompressed := fs.Bool("uncompressed", cfg.Signing.Uncompressed, "Emit the uncompressed public key form")
	outFile := fs.String("out", "", "Write the private key hex to a file (0600) instead of stdout")
	fs.Parse(args)

	priv, err := crypto.GeneratePrivateKey()
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(priv)

	wif, err := crypto.PrivateKeyToWIF(priv, !*uncompressed)
	if err != nil {
		return err
	}
	pub, err := crypto.DerivePublicKey(priv)
	if err != nil {
		return err
	}
	if *uncompressed {
		if pub, err = crypto.DecompressPublicKey(pub); err != nil {
			return err
		}
	}
	address, err := crypto.PubKeyToAddress(pub)
	if err != nil {
		return err
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(hex.EncodeToString(priv)+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write key file: %w", err)
		}
		fmt.Printf("private key: written to %s\n", *outFile)
	} else {
		fmt.Printf("private key: %x\n", priv)
	}
	fmt.Printf("wif:         %s\n", wif)
	fmt.Printf("public key:  %x\n", pub)
	fmt.Printf("address:     %s\n", address)
	return nil
}

func cmdPubkey(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("pubkey", flag.ExitOnError)
	keyFile := fs.String("key", "", "Path to a hex or WIF private key file")
	uncompressed := fs.Bool("uncompressed", false, "Print the 65-byte uncompressed form")
	fs.Parse(args)

	priv, err := resolvePrivateKey(*keyFile, cfg.Signing.KeyFile)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(priv)

	pub, err := crypto.DerivePublicKey(priv)
	if err != nil {
		return err
	}
	if *uncompressed {
		if pub, err = crypto.DecompressPublicKey(pub); err != nil {
			return err
		}
	}
	fmt.Printf("%x\n", pub)
	return nil
}

func cmdAddress(args []string) error {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	pubHex := fs.String("pub", "", "Public key hex (33 or 65 bytes)")
	fs.Parse(args)

	pub, err := hexArg(*pubHex, "-pub")
	if err != nil {
		return err
	}
	address, err := crypto.PubKeyToAddress(pub)
	if err != nil {
		return err
	}
	fmt.Println(address)
	return nil
}

func cmdSign(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	keyFile := fs.String("key", "", "Path to a hex or WIF private key file")
	schemeName := fs.String("scheme", cfg.Signing.Scheme, "Signature scheme (ecdsa|schnorr)")
	message := fs.String("msg", "", "Message payload to sign")
	msgFile := fs.String("msg-file", "", "File holding the message payload")
	hashHex := fs.String("hash", "", "Sign this 32-byte digest hex directly instead of a message")
	fs.Parse(args)

	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		return err
	}

	priv, err := resolvePrivateKey(*keyFile, cfg.Signing.KeyFile)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(priv)

	if *hashHex != "" {
		digest, err := hexArg(*hashHex, "-hash")
		if err != nil {
			return err
		}
		sig, err := crypto.Sign(priv, digest, scheme)
		if err != nil {
			return err
		}
		der, err := crypto.SignatureToDER(sig)
		if err != nil {
			return err
		}
		fmt.Printf("compact: %x\n", sig)
		fmt.Printf("der:     %x\n", der)
		return nil
	}

	payload, err := readPayload(*message, *msgFile)
	if err != nil {
		return err
	}

	s, err := signer.New(scheme, logging.GetGlobalLogger().Component("signer"))
	if err != nil {
		return err
	}
	msg, err := s.SignMessage(priv, payload)
	if err != nil {
		return err
	}

	fmt.Printf("scheme:      %s\n", msg.Scheme)
	fmt.Printf("address:     %s\n", msg.Address)
	fmt.Printf("public key:  %x\n", msg.PublicKey)
	fmt.Printf("compact:     %x\n", msg.Compact)
	fmt.Printf("der:         %x\n", msg.DER)
	if msg.Recoverable != "" {
		fmt.Printf("recoverable: %s\n", msg.Recoverable)
	}
	return nil
}

func cmdVerify(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	schemeName := fs.String("scheme", cfg.Signing.Scheme, "Signature scheme (ecdsa|schnorr)")
	pubHex := fs.String("pub", "", "Public key hex to verify against")
	address := fs.String("addr", "", "P2PKH address to verify against (recoverable signature)")
	message := fs.String("msg", "", "Message payload")
	msgFile := fs.String("msg-file", "", "File holding the message payload")
	sigArg := fs.String("sig", "", "Compact signature hex, or base64 with -addr")
	fs.Parse(args)

	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		return err
	}
	payload, err := readPayload(*message, *msgFile)
	if err != nil {
		return err
	}

	s, err := signer.New(scheme, logging.GetGlobalLogger().Component("signer"))
	if err != nil {
		return err
	}

	switch {
	case *address != "":
		err = s.VerifyMessageByAddress(*address, payload, *sigArg)
	case *pubHex != "":
		var pub, sig []byte
		if pub, err = hexArg(*pubHex, "-pub"); err != nil {
			return err
		}
		if sig, err = hexArg(*sigArg, "-sig"); err != nil {
			return err
		}
		err = s.VerifyMessage(pub, payload, sig)
	default:
		return fmt.Errorf("one of -pub or -addr is required")
	}
	if err != nil {
		return err
	}

	fmt.Println("verification: OK")
	return nil
}

func cmdRecover(args []string) error {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	message := fs.String("msg", "", "Message payload")
	msgFile := fs.String("msg-file", "", "File holding the message payload")
	sigB64 := fs.String("sig", "", "Recoverable signature, base64")
	fs.Parse(args)

	payload, err := readPayload(*message, *msgFile)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(*sigB64)
	if err != nil {
		return fmt.Errorf("-sig is not valid base64: %w", err)
	}

	digest, err := crypto.HashMessage(payload)
	if err != nil {
		return err
	}
	pub, err := crypto.RecoverPublicKey(digest, sig)
	if err != nil {
		return err
	}
	address, err := crypto.PubKeyToAddress(pub)
	if err != nil {
		return err
	}

	fmt.Printf("public key: %x\n", pub)
	fmt.Printf("address:    %s\n", address)
	return nil
}

func cmdNormalize(args []string) error {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	sigHex := fs.String("sig", "", "Compact signature hex")
	fs.Parse(args)

	sig, err := hexArg(*sigHex, "-sig")
	if err != nil {
		return err
	}
	normalized, err := crypto.NormalizeSignature(sig)
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", normalized)
	return nil
}

func cmdDER(args []string) error {
	fs := flag.NewFlagSet("der", flag.ExitOnError)
	decode := fs.Bool("decode", false, "Convert DER to compact instead of compact to DER")
	sigHex := fs.String("sig", "", "Signature hex")
	fs.Parse(args)

	sig, err := hexArg(*sigHex, "-sig")
	if err != nil {
		return err
	}

	var out []byte
	if *decode {
		out, err = crypto.SignatureFromDER(sig)
	} else {
		out, err = crypto.SignatureToDER(sig)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", out)
	return nil
}

func cmdFormat(args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	message := fs.String("msg", "", "Message payload")
	msgFile := fs.String("msg-file", "", "File holding the message payload")
	hashMode := fs.Bool("hash", false, "Print the double-SHA256 digest instead of the formatted bytes")
	fs.Parse(args)

	payload, err := readPayload(*message, *msgFile)
	if err != nil {
		return err
	}

	var out []byte
	if *hashMode {
		out, err = crypto.HashMessage(payload)
	} else {
		out, err = crypto.FormatMessage(payload)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", out)
	return nil
}

// readPayload returns the message bytes from -msg or -msg-file.
func readPayload(message, msgFile string) ([]byte, error) {
	switch {
	case message != "" && msgFile != "":
		return nil, fmt.Errorf("-msg and -msg-file are mutually exclusive")
	case msgFile != "":
		data, err := os.ReadFile(msgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		return data, nil
	default:
		return []byte(message), nil
	}
}

// hexArg decodes a required hex flag value.
func hexArg(value, name string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", name, err)
	}
	return b, nil
}
