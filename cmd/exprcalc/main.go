// Command exprcalc evaluates arithmetic expressions from its arguments
// or from stdin, one per line, using symexpr configured with mathlib's
// default arithmetic, constants, and functions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/arborix/symexpr"
	"github.com/arborix/symexpr/mathlib"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb string
		with         [][2]string
		prec         int
		persistent   bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&prec, "p", mathlib.DefaultPrec, "precision in bits of -given variable values (literals and built-in constants use mathlib.DefaultPrec)")
	flag.BoolVar(&persistent, "persistent", false, "parse in Persistent mode instead of Normal")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}

	env := symexpr.NewEnvironment[*big.Float]()
	if err := mathlib.Install(env); err != nil {
		log.Fatal(err)
	}
	for _, d := range with {
		name, lit := d[0], d[1]
		val, _, ok := mathlib.ParseConstant([]rune(lit), 0)
		if !ok {
			log.Fatalf("setting %s: %q is not a valid number", name, lit)
		}
		if _, err := env.RegisterVariable(name, val.SetPrec(uint(prec)), true); err != nil {
			log.Fatalf("setting %s: %v", name, err)
		}
	}

	mode := symexpr.Normal
	if persistent {
		mode = symexpr.Persistent
	}

	lines, err := inputLines(inname, flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	ev := symexpr.NewEvaluator[*big.Float]()
	verb += "\n"
	for _, line := range lines {
		prog, err := symexpr.Parse(env, line, mode)
		if err != nil {
			fmt.Printf("%s: %v\n", line, err)
			continue
		}
		result, err := ev.Evaluate(prog)
		if err != nil {
			fmt.Printf("%s: %v\n", line, err)
			continue
		}
		fmt.Printf(verb, result)
	}
}

// inputLines returns the expressions to evaluate: args if any were
// given on the command line, or one per line from the named file (or
// stdin, if inname is empty or "-").
func inputLines(inname string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
		defer f.Close()
	default:
		f = os.Stdin
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, err
	}
	return lines, nil
}
