package word2vec

import (
	"errors"
	"runtime"
)

// Config stores the hyper-parameters of a training run.
type Config struct {
	// VectorSize is the dimensionality of the vectors.
	VectorSize int `yaml:"vector_size"`

	// Window is the maximum distance between a target and
	// a context token.
	Window int `yaml:"window"`

	// Sample is the subsampling threshold for frequent
	// tokens. Zero disables subsampling.
	Sample float64 `yaml:"sample"`

	// Negative is the number of negative samples.
	// Zero selects hierarchical softmax.
	Negative int `yaml:"negative"`

	// Threads is the number of shards and workers.
	Threads int `yaml:"threads"`

	// Iterations is the number of passes over the corpus.
	Iterations int `yaml:"iterations"`

	// MinCount is the minimum count a token needs to get
	// a vector.
	MinCount int64 `yaml:"min_count"`

	// Alpha is the initial learning rate.
	// If it is zero, a default is picked based on CBOW.
	Alpha float64 `yaml:"alpha"`

	// CBOW selects continuous bag-of-words instead of
	// skip-gram.
	CBOW bool `yaml:"cbow"`

	// Normalize scales the saved vectors to unit length.
	Normalize bool `yaml:"normalize"`

	// MaxVocabSize is the number of entries above which a
	// vocabulary is reduced while it is being learned.
	MaxVocabSize int `yaml:"max_vocab_size"`

	// TableSize is the size of the negative sampling table.
	TableSize int `yaml:"table_size"`

	// MaxSentenceLength is the longest chunk of a sentence
	// that is trained at once.
	MaxSentenceLength int `yaml:"max_sentence_length"`

	// ProgressInterval is the number of words a worker
	// processes between learning rate updates.
	ProgressInterval int `yaml:"progress_interval"`

	// Seed seeds the random number generators.
	Seed int64 `yaml:"seed"`

	// RestrictToOutput limits the saved vectors to input
	// tokens which are also in the output vocabulary.
	RestrictToOutput bool `yaml:"restrict_to_output"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		VectorSize:        100,
		Window:            5,
		Sample:            1e-3,
		Negative:          5,
		Threads:           runtime.GOMAXPROCS(0),
		Iterations:        5,
		MinCount:          5,
		MaxVocabSize:      21000000,
		TableSize:         DefaultTableSize,
		MaxSentenceLength: 1000,
		ProgressInterval:  10000,
		Seed:              1,
	}
}

// StartAlpha returns the initial learning rate.
func (c *Config) StartAlpha() float64 {
	if c.Alpha != 0 {
		return c.Alpha
	}
	if c.CBOW {
		return 0.05
	}
	return 0.025
}

// Validate checks that the configuration can be used for
// training.
func (c *Config) Validate() error {
	switch {
	case c.VectorSize <= 0:
		return errors.New("vector size must be positive")
	case c.Window <= 0:
		return errors.New("window must be positive")
	case c.Sample < 0:
		return errors.New("sample threshold must not be negative")
	case c.Negative < 0:
		return errors.New("negative sample count must not be negative")
	case c.Threads <= 0:
		return errors.New("thread count must be positive")
	case c.Iterations <= 0:
		return errors.New("iteration count must be positive")
	case c.MinCount < 0:
		return errors.New("min count must not be negative")
	case c.Alpha < 0:
		return errors.New("learning rate must not be negative")
	case c.MaxVocabSize <= 0:
		return errors.New("max vocabulary size must be positive")
	case c.Negative > 0 && c.TableSize <= 0:
		return errors.New("table size must be positive")
	case c.MaxSentenceLength <= 0:
		return errors.New("max sentence length must be positive")
	case c.ProgressInterval <= 0:
		return errors.New("progress interval must be positive")
	}
	return nil
}
