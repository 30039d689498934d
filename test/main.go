package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mathieulongtin/argh"
)

type GreetArgs struct {
	Name     string `desc:"who to greet"`
	Greeting string `default:"Hello" desc:"greeting to use"`
	Shout    bool   `desc:"uppercase the output"`
}

func greet(a GreetArgs) (any, error) {
	line := fmt.Sprintf("%s, %s!", a.Greeting, a.Name)
	if a.Shout {
		line = strings.ToUpper(line)
	}
	return line, nil
}

type SumArgs struct {
	Values []string `arg:"varargs" desc:"integers to add"`
}

// sum streams the running total so partial output survives a bad token.
func sum(a SumArgs) (any, error) {
	total := 0
	i := 0
	return argh.FromFunc(func() (any, error) {
		if i >= len(a.Values) {
			return nil, io.EOF
		}
		n, err := strconv.Atoi(a.Values[i])
		if err != nil {
			return nil, argh.Err("not a number: %s", a.Values[i])
		}
		total += n
		i++
		return total, nil
	}), nil
}

type CatArgs struct {
	Path string `desc:"file to print"`
}

func cat(a CatArgs) (any, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, argh.Err("cannot open %s", a.Path)
	}
	return argh.FromStrings(strings.Split(strings.TrimRight(string(data), "\n"), "\n")...), nil
}

func main() {
	app := argh.NewApp("demo",
		argh.WithDescription("An example application demonstrating argh features"),
		argh.WithVersion("0.1.0"),
	)

	greetCmd, err := argh.New(greet, argh.WithHelp("Greet someone"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error registering command:", err)
		os.Exit(2)
	}
	sumCmd, err := argh.New(sum, argh.WithHelp("Add integers, streaming running totals"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error registering command:", err)
		os.Exit(2)
	}
	catCmd, err := argh.New(cat, argh.WithHelp("Print a file line by line"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error registering command:", err)
		os.Exit(2)
	}

	app.Add(greetCmd, sumCmd, catCmd)
	app.Run()
}
