// Command bsondump reads a single BSON document from a file, validates it,
// and prints it as extended JSON.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vaporbyte/bson"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bsondump", flag.ContinueOnError)
	validateOnly := fs.Bool("validate", false, "only validate the document, printing nothing on success")
	logPath := fs.String("log", "", "path to a rotating log file (defaults to stderr)")
	pretty := fs.Bool("pretty", false, "pretty-print JSON output")
	allowDollar := fs.Bool("allow-dollar-keys", false, "don't reject keys beginning with '$'")
	allowDot := fs.Bool("allow-dot-keys", false, "don't reject keys containing '.'")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: bsondump [flags] <file.bson>")
	}

	logger := newLogger(*logPath)
	defer logger.Sync()
	bson.SetLogger(logger)

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	doc, err := bson.NewFromBytes(data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	flags := bson.FlagUTF8
	if !*allowDollar {
		flags |= bson.FlagDollarKeys
	}
	if !*allowDot {
		flags |= bson.FlagDotKeys
	}
	if offset, err := bson.Validate(doc, flags); err != nil {
		return fmt.Errorf("invalid document at offset %d: %w", offset, err)
	}
	if *validateOnly {
		return nil
	}

	if *pretty || term.IsTerminal(int(os.Stdout.Fd())) {
		out, err := bson.Pretty(doc)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	out, err := bson.ToJSON(doc)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func newLogger(path string) *zap.Logger {
	if path == "" {
		l, err := zap.NewProduction()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}
	ws := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), ws, zap.InfoLevel)
	return zap.New(core)
}
