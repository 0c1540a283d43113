// Command pname parses person names and prints their canonical breakdown.
//
//	pname "Doe, John" "Smith,Mary Jane"
//	printf 'Doe, John\nRoe, Jane\n' | pname -sort
//
// Each valid name prints as canonical, family, given, display form and hash,
// separated by tabs. With -sort only canonical names print, in comparison
// order. The exit status is 1 when any input is invalid.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pname", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sortNames := fs.Bool("sort", false, "print canonical names in comparison order")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintf(stderr, "pname: read stdin: %v\n", err)
			return 1
		}
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	status := 0
	names := make([]personname.PersonName, 0, len(inputs))
	for _, raw := range inputs {
		n, err := personname.Parse(raw)
		if err != nil {
			fmt.Fprintf(stderr, "pname: %v\n", err)
			status = 1
			continue
		}
		names = append(names, n)
	}

	if *sortNames {
		slices.SortFunc(names, personname.Compare)
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return status
	}

	for _, n := range names {
		line, err := describe(n)
		if err != nil {
			fmt.Fprintf(stderr, "pname: %v\n", err)
			status = 1
			continue
		}
		fmt.Fprintln(out, line)
	}
	return status
}

func describe(n personname.PersonName) (string, error) {
	family, err := n.Family()
	if err != nil {
		return "", err
	}
	given, err := n.Given()
	if err != nil {
		return "", err
	}
	show, err := n.Show()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%d", n, family, given, show, n.Hash()), nil
}
