package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/fysac/ranctx/jsf"
	"github.com/fysac/ranctx/keystream"
	"github.com/fysac/ranctx/snapshot"
)

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	note = color.New(color.FgYellow).SprintFunc()
)

func main() {
	l := log.New(os.Stderr, "", 0)

	seedFlag := flag.String("seed", "", "32-bit seed, decimal or 0x-prefixed hex (default: derived from the clock)")
	count := flag.Int("n", 10, "number of values to print")
	decimal := flag.Bool("dec", false, "print values in decimal instead of hex")
	stateIn := flag.String("state-in", "", "resume from a state file instead of seeding")
	stateOut := flag.String("state-out", "", "write the final state to this file")
	encryptFile := flag.String("encrypt", "", "file to encrypt (requires: -out)")
	decryptFile := flag.String("decrypt", "", "file to decrypt (requires: -out)")
	ignoreChecksum := flag.Bool("ignore-checksum", false, "decrypt without verifying checksum")
	outputFile := flag.String("out", "", "output file for decryption or encryption")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	if err := checkModes(*seedFlag, *stateIn, *stateOut, *encryptFile, *decryptFile); err != nil {
		l.Println(err)
		flag.Usage()
		os.Exit(1)
	}

	if *decryptFile != "" {
		if *outputFile == "" {
			l.Println("-decrypt needs an output file")
			flag.Usage()
			os.Exit(1)
		}

		b, err := os.ReadFile(*decryptFile)
		if err != nil {
			l.Fatal(err)
		}
		header, plain, err := keystream.Decrypt(b, *ignoreChecksum)
		if err != nil {
			l.Println("decrypt error:", err)
			if errors.Is(err, keystream.ErrInvalidChecksum) {
				l.Println("Try again with -ignore-checksum?")
			}
			os.Exit(1)
		}
		if err := writeFileNoTrunc(*outputFile, plain); err != nil {
			l.Fatal(err)
		}

		fmt.Println(ok("Decrypted to"), getAbsPath(*outputFile))
		fmt.Printf("Seed is: 0x%08x\n", header.Seed)
		return
	}

	var seed uint32
	if *stateIn == "" {
		var err error
		if seed, err = parseSeed(*seedFlag, l); err != nil {
			l.Fatalf("-seed: %v\n", err)
		}
	}

	if *encryptFile != "" {
		if *outputFile == "" {
			l.Println("-encrypt needs an output file")
			flag.Usage()
			os.Exit(1)
		}

		plain, err := os.ReadFile(*encryptFile)
		if err != nil {
			l.Fatal(err)
		}
		blob, err := keystream.Encrypt(keystream.Pad(plain), seed)
		if err != nil {
			l.Fatalf("%v: %v\n", *encryptFile, err)
		}
		if err := writeFileNoTrunc(*outputFile, blob); err != nil {
			l.Fatal(err)
		}
		fmt.Println(ok("Wrote encrypted file to"), getAbsPath(*outputFile))
		return
	}

	x := jsf.Init(seed)
	if *stateIn != "" {
		var err error
		if x, err = loadState(*stateIn); err != nil {
			l.Fatal(err)
		}
	}

	if err := generate(os.Stdout, x, *count, *decimal); err != nil {
		l.Fatal(err)
	}

	if *stateOut != "" {
		if err := saveState(*stateOut, x); err != nil {
			l.Fatal(err)
		}
		l.Println(ok("Wrote state to"), getAbsPath(*stateOut))
	}
}

// checkModes rejects flag combinations where one flag would silently override another.
func checkModes(seed, stateIn, stateOut, encryptFile, decryptFile string) error {
	switch {
	case encryptFile != "" && decryptFile != "":
		return errors.New("-encrypt and -decrypt are mutually exclusive")
	case decryptFile != "" && seed != "":
		return errors.New("-decrypt takes the seed from the file header, drop -seed")
	case stateIn != "" && seed != "":
		return errors.New("-state-in and -seed are mutually exclusive")
	case (stateIn != "" || stateOut != "") && (encryptFile != "" || decryptFile != ""):
		return errors.New("-state-in and -state-out only apply when printing values")
	}
	return nil
}

func loadState(name string) (*jsf.Ctx, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	s, err := snapshot.FromJSON(b)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	return jsf.FromState(s), nil
}

func saveState(name string, x *jsf.Ctx) error {
	b, err := snapshot.ToJSON(x.State())
	if err != nil {
		return err
	}
	return os.WriteFile(name, b, 0600)
}

// parseSeed falls back to the clock when s is empty and reports the seed it picked.
func parseSeed(s string, l *log.Logger) (uint32, error) {
	if s == "" {
		seed := uint32(time.Now().UnixNano())
		l.Printf("%s 0x%08x\n", note("Using seed"), seed)
		return seed, nil
	}
	seed, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(seed), nil
}

func generate(w io.Writer, x *jsf.Ctx, n int, decimal bool) error {
	format := "0x%08x\n"
	if decimal {
		format = "%d\n"
	}
	for i := 0; i < n; i++ {
		if _, err := fmt.Fprintf(w, format, x.Next()); err != nil {
			return err
		}
	}
	return nil
}

func getAbsPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}

func writeFileNoTrunc(name string, b []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err = f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
