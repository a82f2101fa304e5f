package corpus

import (
	"fmt"
	"io"
)

// Aligned reads two Readers over the same sentences in
// lockstep, typically one producing input tokens and the
// other producing output labels for the same positions.
//
// If Out is nil, Aligned behaves like In alone.
type Aligned struct {
	In  Reader
	Out Reader
}

// Next returns the next pair of sentences.
// If Out is nil, out is the same slice as in.
//
// Sentences of different lengths produce ErrDesync, as
// does one Reader ending before the other. A read error
// from either Reader is returned as is.
func (a *Aligned) Next() (in, out []string, err error) {
	in, err = a.In.Next()
	if a.Out == nil {
		return in, in, err
	}
	var outErr error
	out, outErr = a.Out.Next()
	if err == io.EOF && outErr == io.EOF {
		return nil, nil, io.EOF
	}
	if err == nil || (err == io.EOF && outErr != nil) {
		err = outErr
	}
	if err == io.EOF {
		return nil, nil, fmt.Errorf("read aligned corpus: %w: readers ended at different sentences", ErrDesync)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(in) != len(out) {
		return nil, nil, fmt.Errorf("read aligned corpus: %w: %d input and %d output tokens",
			ErrDesync, len(in), len(out))
	}
	return in, out, nil
}

// Restart restarts both Readers.
func (a *Aligned) Restart() error {
	if err := a.In.Restart(); err != nil {
		return err
	}
	if a.Out != nil {
		return a.Out.Restart()
	}
	return nil
}

// Split splits both Readers into n aligned parts.
func (a *Aligned) Split(n int) ([]*Aligned, error) {
	ins, err := a.In.Split(n)
	if err != nil {
		return nil, err
	}
	var outs []Reader
	if a.Out != nil {
		outs, err = a.Out.Split(n)
		if err != nil {
			return nil, err
		}
	}
	res := make([]*Aligned, n)
	for i, in := range ins {
		res[i] = &Aligned{In: in}
		if outs != nil {
			res[i].Out = outs[i]
		}
	}
	return res, nil
}

// Progress returns the progress of the input Reader.
func (a *Aligned) Progress() float64 {
	return a.In.Progress()
}

// Close closes both Readers.
func (a *Aligned) Close() error {
	err := a.In.Close()
	if a.Out != nil {
		if outErr := a.Out.Close(); err == nil {
			err = outErr
		}
	}
	return err
}
