package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/observe"
	"github.com/zephyrtronium/calc/keypad"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, cfgname              string
		nl, echo, keys, verbose, telemetry bool
		depth                              int
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "", "result formatting string (default calculator display)")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&keys, "keys", false, "treat input as calculator key presses")
	flag.IntVar(&depth, "depth", 0, "maximum expression nesting (default from config)")
	flag.StringVar(&cfgname, "config", "", "YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "log debug output to stderr")
	flag.BoolVar(&telemetry, "telemetry", false, "log spans and metrics to stderr")
	flag.Parse()

	cfg, err := config.Load(cfgname)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fmt":
			cfg.Calc.Format = verb
		case "n":
			cfg.Calc.Lines = nl
		case "depth":
			cfg.Calc.MaxDepth = depth
		case "telemetry":
			cfg.Telemetry = telemetry
		case "v":
			if verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := observe.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Telemetry {
		tlog, _ := observe.NewLogger(os.Stderr, "info")
		tel := observe.NewTelemetry(tlog)
		tel.Install()
		defer func() {
			if err := tel.Shutdown(context.Background()); err != nil {
				logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	var ins []io.RuneScanner
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		ins = append(ins, f)
	}
	for _, arg := range flag.Args() {
		ins = append(ins, strings.NewReader(arg))
	}

	var opts []calc.ParseOption
	if cfg.Calc.Lines {
		opts = append(opts, calc.StopOn('\n'))
	}
	if cfg.Calc.MaxDepth > 0 {
		opts = append(opts, calc.MaxDepth(cfg.Calc.MaxDepth))
	}
	ctx := context.Background()
	rec := observe.NewRecorder()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if keys {
		k := keypad.New(keypad.WithLogger(logger), keypad.WithRecorder(rec), keypad.WithParseOptions(opts...))
		for _, in := range ins {
			if err := press(ctx, k, in, out); err != nil {
				out.Flush()
				log.Fatal(err)
			}
		}
		return
	}

	var p []*calc.Expr
	for _, in := range ins {
		for {
			// First check whether we're done with the input.
			if done, err := exhausted(in); err != nil {
				log.Fatal(err)
			} else if done {
				break
			}
			a, err := calc.Parse(in, opts...)
			if err != nil {
				log.Fatal(err)
			}
			p = append(p, a)
		}
	}

	for _, a := range p {
		if echo {
			fmt.Fprintf(out, "%v : ", a)
		}
		r, err := evaluate(ctx, logger, rec, a)
		if err != nil {
			fmt.Fprintf(out, "error: %v: %v\n", calc.KindOf(err).String(), err)
			continue
		}
		if cfg.Calc.Format == "" {
			fmt.Fprintln(out, calc.Format(r))
		} else {
			fmt.Fprintf(out, cfg.Calc.Format+"\n", r)
		}
	}
}

// exhausted skips leading space and reports whether in has no more runes.
func exhausted(in io.RuneScanner) (bool, error) {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			if err == io.EOF {
				return true, nil
			}
			return false, err
		}
		if !unicode.IsSpace(r) {
			return false, in.UnreadRune()
		}
	}
}

func evaluate(ctx context.Context, logger *slog.Logger, rec observe.Recorder, a *calc.Expr) (float64, error) {
	elapsed := observe.TimedOperation()
	ctx, span := observe.StartEvalSpan(ctx, a.String())
	r, err := a.Eval()
	observe.EndSpanWithError(span, err)
	ms := elapsed()
	result := "ok"
	if err != nil {
		result = calc.KindOf(err).String()
	}
	rec.RecordEvaluation(ctx, result, time.Duration(ms*float64(time.Millisecond)))
	observe.LogEval(logger, a.String(), calc.Format(r), err, ms)
	return r, err
}

// press feeds each non-space rune of in to k as a key. The display is
// printed after each evaluation and at the end of each line.
func press(ctx context.Context, k *keypad.Keypad, in io.RuneScanner, out io.Writer) error {
	pending := false
	for {
		r, _, err := in.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if r == '\n' {
			if pending {
				fmt.Fprintln(out, k.Display())
				pending = false
			}
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}
		key := string(r)
		switch key {
		case "*":
			key = "×"
		case "/":
			key = "÷"
		case "c":
			key = keypad.KeyClear
		}
		d, err := k.Press(ctx, key)
		if err != nil {
			fmt.Fprintf(out, "error: %v: %v\n", calc.KindOf(err).String(), err)
			pending = false
			continue
		}
		if key == keypad.KeyEquals {
			fmt.Fprintln(out, d)
			pending = false
			continue
		}
		pending = true
	}
	if pending {
		fmt.Fprintln(out, k.Display())
	}
	return nil
}

func infile(inname string, std bool) (io.RuneScanner, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}
