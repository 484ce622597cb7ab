// Command kzgsetup generates and inspects trusted setup files for the
// kzg library.
//
// Usage:
//
//	kzgsetup -generate -seed <string> -out <path>
//	kzgsetup -check -file <path> [-precompute <bits>]
//
// Flags:
//
//	-generate     Generate an INSECURE setup from a seed and write it out
//	-seed         Seed string for the insecure secret (default: "test")
//	-out          Output path for the generated setup file
//	-check        Load and validate an existing setup file
//	-file         Setup file to check
//	-precompute   Fixed-base window bits for -check (default: 0)
//	-version      Print version and exit
package main

import (
	"crypto/sha256"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eth2030/kzg/kzg"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	switch {
	case cfg.generate:
		return runGenerate(cfg)
	case cfg.check:
		return runCheck(cfg)
	default:
		fmt.Fprintln(os.Stderr, "Error: one of -generate or -check is required")
		return 2
	}
}

func runGenerate(cfg config) int {
	if cfg.out == "" {
		fmt.Fprintln(os.Stderr, "Error: -out is required with -generate")
		return 2
	}

	log.Printf("kzgsetup %s generating INSECURE setup", version)
	log.Printf("  seed: %q", cfg.seed)
	log.Printf("  out:  %s", cfg.out)

	seed := sha256.Sum256([]byte(cfg.seed))
	g1Monomial, g1Lagrange, g2Monomial, err := kzg.GenerateInsecureSetupBytes(seed)
	if err != nil {
		log.Printf("Failed to generate setup: %v", err)
		return 1
	}

	f, err := os.Create(cfg.out)
	if err != nil {
		log.Printf("Failed to create output file: %v", err)
		return 1
	}
	defer f.Close()

	if err := kzg.WriteTrustedSetupFile(f, g1Monomial, g1Lagrange, g2Monomial); err != nil {
		log.Printf("Failed to write setup file: %v", err)
		return 1
	}
	log.Printf("Setup written to %s", cfg.out)
	return 0
}

func runCheck(cfg config) int {
	if cfg.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required with -check")
		return 2
	}

	log.Printf("kzgsetup %s checking setup", version)
	log.Printf("  file:       %s", cfg.file)
	log.Printf("  precompute: %d", cfg.precompute)

	f, err := os.Open(cfg.file)
	if err != nil {
		log.Printf("Failed to open setup file: %v", err)
		return 1
	}
	defer f.Close()

	settings, err := kzg.LoadTrustedSetupFile(f, cfg.precompute)
	if err != nil {
		log.Printf("Setup is invalid: %v", err)
		return 1
	}
	settings.Free()
	log.Printf("Setup is valid")
	return 0
}

// config holds the parsed CLI flags.
type config struct {
	generate   bool
	seed       string
	out        string
	check      bool
	file       string
	precompute uint64
}

// parseFlags parses CLI arguments into a config. Returns the config,
// whether the caller should exit immediately, and the exit code.
func parseFlags(args []string) (config, bool, int) {
	var cfg config
	fs := flag.NewFlagSet("kzgsetup", flag.ContinueOnError)
	fs.BoolVar(&cfg.generate, "generate", false, "generate an insecure setup")
	fs.StringVar(&cfg.seed, "seed", "test", "seed string for the insecure secret")
	fs.StringVar(&cfg.out, "out", "", "output path for the generated setup file")
	fs.BoolVar(&cfg.check, "check", false, "load and validate an existing setup file")
	fs.StringVar(&cfg.file, "file", "", "setup file to check")
	fs.Uint64Var(&cfg.precompute, "precompute", 0, "fixed-base window bits for -check")

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, true, 2
	}

	if *showVersion {
		fmt.Printf("kzgsetup %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}

	return cfg, false, 0
}
