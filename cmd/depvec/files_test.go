package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "skip.conll", "sub/c.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	explicit := filepath.Join(dir, "skip.conll")
	actual, err := listFiles([]string{dir, explicit}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.txt"),
		explicit,
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
	if _, err := listFiles([]string{filepath.Join(dir, "missing")}, ".txt"); err == nil {
		t.Error("expected an error")
	}
}

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	err := createFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "hello\n" {
		t.Errorf("unexpected contents %q", data)
	}

	writeErr := errors.New("write failed")
	err = createFile(path, func(w io.Writer) error {
		return writeErr
	})
	if err != writeErr {
		t.Errorf("expected %v but got %v", writeErr, err)
	}

	err = createFile(path, func(w io.Writer) error {
		return w.(*os.File).Close()
	})
	if !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected close error but got %v", err)
	}

	err = createFile(filepath.Join(dir, "missing", "out.txt"), func(w io.Writer) error {
		return nil
	})
	if err == nil {
		t.Error("expected an error")
	}
}
