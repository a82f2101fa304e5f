package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unixpickle/essentials"
)

// listFiles expands directories into the files beneath
// them which have the given extension.
// Plain files are kept regardless of extension.
func listFiles(args []string, ext string) ([]string, error) {
	var res []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, essentials.AddCtx("list files", err)
		}
		if !info.IsDir() {
			res = append(res, arg)
			continue
		}
		var matches []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
				matches = append(matches, path)
			}
			return nil
		})
		if err != nil {
			return nil, essentials.AddCtx("list files", err)
		}
		sort.Strings(matches)
		res = append(res, matches...)
	}
	return res, nil
}

// createFile writes a new file with write.
// A failure to close the file is reported like a failure
// to write it.
func createFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return write(f)
}
