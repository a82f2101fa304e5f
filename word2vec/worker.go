package word2vec

import (
	"context"
	"io"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/unixpickle/depvec/corpus"
	"github.com/unixpickle/depvec/vocab"
	"github.com/unixpickle/essentials"
)

// A worker trains on one corpus shard.
type worker struct {
	id     int
	t      *Trainer
	run    *runContext
	reader *corpus.Aligned
	log    logrus.FieldLogger
	rng    *rand.Rand

	hidden []float32
	errBuf []float32
	slots  []slot

	epoch        int
	pendingWords int64
}

func newWorker(id int, t *Trainer, run *runContext, r *corpus.Aligned,
	log logrus.FieldLogger) *worker {
	return &worker{
		id:     id,
		t:      t,
		run:    run,
		reader: r,
		log:    log,
		rng:    rand.New(rand.NewSource(t.Config.Seed + int64(id) + 1)),
		hidden: make([]float32, t.Config.VectorSize),
		errBuf: make([]float32, t.Config.VectorSize),
	}
}

// Run trains for Config.Iterations passes over the shard.
func (w *worker) Run(ctx context.Context) error {
	for w.epoch = 0; w.epoch < w.t.Config.Iterations; w.epoch++ {
		if w.epoch > 0 {
			if err := w.reader.Restart(); err != nil {
				return essentials.AddCtx("restart shard", err)
			}
		}
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			in, out, err := w.reader.Next()
			if err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			w.trainSentence(in, out)
		}
		w.flushWords()
		alpha := w.run.Decay()
		w.t.Metrics.addEpoch()
		w.t.Metrics.setAlpha(alpha)
		w.log.WithFields(logrus.Fields{
			"epoch": w.epoch,
			"alpha": alpha,
		}).Info("epoch finished")
	}
	return nil
}

func (w *worker) trainSentence(in, out []string) {
	w.slots = w.slots[:0]
	var found int64
	for i, inForm := range in {
		s := slot{
			In:  w.t.InVocab.IndexOf(inForm),
			Out: w.t.OutVocab.IndexOf(out[i]),
		}
		if s.In == vocab.NotFound && s.Out == vocab.NotFound {
			continue
		}
		found++
		if w.keep(s) {
			w.slots = append(w.slots, s)
		}
	}
	w.t.Metrics.addSentence("train")

	// The sentence end counts as a word.
	w.addWords(found + 1)

	alpha := float32(w.run.Alpha())
	maxLen := w.t.Config.MaxSentenceLength
	for start := 0; start < len(w.slots); start += maxLen {
		chunk := w.slots[start:essentials.MinInt(start+maxLen, len(w.slots))]
		w.trainChunk(chunk, alpha)
	}
}

func (w *worker) trainChunk(chunk []slot, alpha float32) {
	for pos, s := range chunk {
		if s.Out == vocab.NotFound {
			continue
		}
		width := 1 + w.rng.Intn(w.t.Config.Window)
		if w.t.Config.CBOW {
			w.cbow(chunk, pos, width, alpha)
		} else {
			w.skipGram(chunk, pos, width, alpha)
		}
	}
}

// keep decides whether a token occurrence survives
// subsampling.
func (w *worker) keep(s slot) bool {
	if w.t.Config.Sample <= 0 {
		return true
	}
	v, idx := w.t.InVocab, s.In
	if idx == vocab.NotFound {
		v, idx = w.t.OutVocab, s.Out
	}
	p := keepProbability(v.Word(idx).Count, v.TotalCount(), w.t.Config.Sample)
	return p >= w.rng.Float64()
}

func (w *worker) addWords(n int64) {
	w.pendingWords += n
	if w.pendingWords < int64(w.t.Config.ProgressInterval) {
		return
	}
	w.flushWords()
	alpha := w.run.Decay()
	w.t.Metrics.setAlpha(alpha)
	w.log.WithFields(logrus.Fields{
		"epoch":         w.epoch,
		"alpha":         alpha,
		"progress":      w.run.Progress(),
		"words_per_sec": w.run.WordsPerSec(),
	}).Info("progress")
}

func (w *worker) flushWords() {
	w.run.AddWords(w.pendingWords)
	w.t.Metrics.addWords(int(w.pendingWords))
	w.pendingWords = 0
}
