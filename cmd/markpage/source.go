package main

import (
	"io"
	"os"

	"github.com/samber/oops"
)

// readSource reads a markdown file, or stdin when name is "-".
func readSource(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, oops.
				Code("FILE_READ_ERROR").
				Wrapf(err, "reading stdin")
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, oops.
			Code("FILE_READ_ERROR").
			With("path", name).
			Hint("Pass a markdown file path, or - for stdin").
			Wrapf(err, "reading %s", name)
	}
	return data, nil
}
