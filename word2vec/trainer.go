// Package word2vec trains skip-gram and CBOW embeddings
// with hierarchical softmax or negative sampling.
package word2vec

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/depvec/corpus"
	"github.com/unixpickle/depvec/vocab"
	"github.com/unixpickle/essentials"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyVocabulary is returned when no token survives
// vocabulary learning.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// A Trainer owns the vocabularies and parameters of one
// training run.
//
// The input and output sides each have a vocabulary.
// When the corpus has no separate output reader, both
// sides share one Vocabulary.
type Trainer struct {
	Config  *Config
	Log     logrus.FieldLogger
	Metrics *Metrics

	InVocab  *vocab.Vocabulary
	OutVocab *vocab.Vocabulary

	// In holds one input vector per InVocab entry.
	In *Matrix

	// Out holds the output weights used by Optimizer.
	Out *Matrix

	Optimizer Optimizer
}

// NewTrainer creates a Trainer after validating the
// configuration.
//
// If log is nil, the standard logrus logger is used.
// If m is nil, no metrics are recorded.
func NewTrainer(c *Config, log logrus.FieldLogger, m *Metrics) (*Trainer, error) {
	if err := c.Validate(); err != nil {
		return nil, essentials.AddCtx("new trainer", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Trainer{Config: c, Log: log, Metrics: m}, nil
}

// LearnVocab counts the tokens of the corpus.
//
// The corpus is split into one shard per thread, and each
// shard is counted into a private vocabulary.
// The private vocabularies are merged and sorted once all
// shards are done.
func (t *Trainer) LearnVocab(ctx context.Context, c *corpus.Aligned) (err error) {
	defer essentials.AddCtxTo("learn vocabulary", &err)

	shards, err := c.Split(t.Config.Threads)
	if err != nil {
		return err
	}
	defer closeAll(shards)

	ins := make([]*vocab.Vocabulary, len(shards))
	outs := make([]*vocab.Vocabulary, len(shards))
	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		ins[i] = vocab.NewWithSentinel(vocab.EndOfSentence)
		if c.Out != nil {
			outs[i] = vocab.NewWithSentinel(vocab.EndOfSentence)
		}
		g.Go(func() error {
			return t.countShard(ctx, shard, ins[i], outs[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	in := mergeVocabs(ins)
	out := in
	if c.Out != nil {
		out = mergeVocabs(outs)
	}
	return t.SetVocab(in, out)
}

func (t *Trainer) countShard(ctx context.Context, shard *corpus.Aligned, in,
	out *vocab.Vocabulary) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		inTokens, outTokens, err := shard.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		countSentence(in, inTokens, t.Config.MaxVocabSize)
		if out != nil {
			countSentence(out, outTokens, t.Config.MaxVocabSize)
		}
		t.Metrics.addSentence("vocabulary")
	}
}

func countSentence(v *vocab.Vocabulary, tokens []string, maxSize int) {
	for _, tok := range tokens {
		v.Add(tok)
	}
	v.Add(vocab.EndOfSentence)
	if v.Len() > maxSize {
		v.Reduce()
	}
}

func mergeVocabs(vs []*vocab.Vocabulary) *vocab.Vocabulary {
	res := vocab.NewWithSentinel(vocab.EndOfSentence)
	for _, v := range vs {
		res.AddAll(v)
	}
	return res
}

// SetVocab installs vocabularies which were learned
// elsewhere, such as ones loaded from disk.
//
// Both vocabularies are sorted with the configured
// minimum count.
// If out is nil, the input vocabulary is shared.
func (t *Trainer) SetVocab(in, out *vocab.Vocabulary) error {
	if out == nil {
		out = in
	}
	in.Sort(t.Config.MinCount)
	if out != in {
		out.Sort(t.Config.MinCount)
	}
	if numTokens(in) == 0 || numTokens(out) == 0 {
		return ErrEmptyVocabulary
	}
	t.InVocab, t.OutVocab = in, out
	t.Metrics.setVocabSize("input", in.Len())
	t.Metrics.setVocabSize("output", out.Len())
	t.Log.WithFields(logrus.Fields{
		"input_size":  in.Len(),
		"output_size": out.Len(),
		"words":       in.TotalCount(),
	}).Info("vocabulary ready")
	return nil
}

func numTokens(v *vocab.Vocabulary) int {
	if v.Sentinel() != "" {
		return v.Len() - 1
	}
	return v.Len()
}

// Init creates the optimizer and the parameter matrices.
//
// The input matrix is random and the output matrix is
// zero.
func (t *Trainer) Init() error {
	if t.InVocab == nil {
		return vocab.ErrNotSorted
	}
	var err error
	if t.Config.Negative > 0 {
		t.Optimizer, err = NewNegativeSampling(t.OutVocab, t.Config.Negative,
			t.Config.TableSize)
	} else {
		t.Optimizer, err = NewHierarchicalSoftmax(t.OutVocab)
	}
	if err != nil {
		return essentials.AddCtx("init trainer", err)
	}
	rng := rand.New(rand.NewSource(t.Config.Seed))
	t.In = NewRandomMatrix(t.InVocab.Len(), t.Config.VectorSize, rng)
	t.Out = NewMatrix(t.Optimizer.OutputRows(), t.Config.VectorSize)
	t.Log.WithFields(logrus.Fields{
		"negative": t.Config.Negative,
		"cbow":     t.Config.CBOW,
		"rows":     t.Optimizer.OutputRows(),
	}).Info("optimizer built")
	return nil
}

// Train trains the vectors on the corpus.
//
// The vocabulary is learned first unless SetVocab was
// called, and the parameters are initialized unless Init
// was called.
// The corpus is split into one shard per thread, and each
// shard is trained for Config.Iterations passes.
//
// If any worker fails, the remaining workers are stopped
// and the first error is returned.
func (t *Trainer) Train(ctx context.Context, c *corpus.Aligned) (err error) {
	defer essentials.AddCtxTo("train", &err)

	if t.InVocab == nil {
		if err := t.LearnVocab(ctx, c); err != nil {
			return err
		}
	}
	if t.Optimizer == nil {
		if err := t.Init(); err != nil {
			return err
		}
	}

	shards, err := c.Split(t.Config.Threads)
	if err != nil {
		return err
	}
	defer closeAll(shards)

	run := newRunContext(t.Config, t.InVocab.TotalCount())
	log := t.Log.WithField("run", run.ID.String())
	log.WithFields(logrus.Fields{
		"threads":    len(shards),
		"iterations": t.Config.Iterations,
		"alpha":      run.StartAlpha,
	}).Info("training started")

	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		w := newWorker(i, t, run, shard, log.WithField("worker", i))
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				w.log.WithError(err).Error("worker failed")
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"words":    run.Words(),
		"duration": time.Since(run.Start).Round(time.Millisecond).String(),
	}).Info("training finished")
	return nil
}

// Embed creates the finished vector table from the input
// vectors.
//
// If Config.RestrictToOutput is set, only input tokens
// that also appear in the output vocabulary are kept.
// If Config.Normalize is set, the vectors are scaled to
// unit length.
func (t *Trainer) Embed() *Embed {
	var tokens []string
	var data []float32
	for i, form := range t.InVocab.Forms() {
		if t.Config.RestrictToOutput && t.OutVocab.IndexOf(form) == vocab.NotFound {
			continue
		}
		tokens = append(tokens, form)
		data = append(data, t.In.Row(i)...)
	}
	res := NewEmbed(tokens, data)
	if t.Config.Normalize {
		res.Normalize()
	}
	return res
}

func closeAll(shards []*corpus.Aligned) {
	for _, s := range shards {
		s.Close()
	}
}

// runContext is the state shared by the workers of one
// training run.
//
// The learning rate and word counter are updated with
// atomic operations but without ordering between them.
// Workers may briefly see a rate computed from a stale
// count.
type runContext struct {
	ID    uuid.UUID
	Start time.Time

	StartAlpha float64
	TrainWords int64
	Iterations int

	alphaBits atomic.Uint64
	words     atomic.Int64
}

func newRunContext(c *Config, trainWords int64) *runContext {
	res := &runContext{
		ID:         uuid.New(),
		Start:      time.Now(),
		StartAlpha: c.StartAlpha(),
		TrainWords: trainWords,
		Iterations: c.Iterations,
	}
	res.alphaBits.Store(math.Float64bits(res.StartAlpha))
	return res
}

// Alpha returns the current learning rate.
func (r *runContext) Alpha() float64 {
	return math.Float64frombits(r.alphaBits.Load())
}

// AddWords adds to the global word counter.
func (r *runContext) AddWords(n int64) {
	r.words.Add(n)
}

// Words returns the global word counter.
func (r *runContext) Words() int64 {
	return r.words.Load()
}

// Decay lowers the learning rate linearly with the number
// of words consumed, down to a floor of 1e-4 times the
// initial rate.
func (r *runContext) Decay() float64 {
	total := float64(r.Iterations)*float64(r.TrainWords) + 1
	alpha := r.StartAlpha * (1 - float64(r.Words())/total)
	if floor := r.StartAlpha * 1e-4; alpha < floor {
		alpha = floor
	}
	r.alphaBits.Store(math.Float64bits(alpha))
	return alpha
}

// Progress returns the percentage of all training words
// consumed so far.
func (r *runContext) Progress() float64 {
	total := float64(r.Iterations)*float64(r.TrainWords) + 1
	return 100 * float64(r.Words()) / total
}

// WordsPerSec returns the average training throughput.
func (r *runContext) WordsPerSec() float64 {
	elapsed := time.Since(r.Start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(r.Words()) / elapsed
}
