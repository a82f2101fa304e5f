// Command depvec trains word, lemma, or dependency
// feature vectors on a corpus.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/depvec"
	"github.com/unixpickle/depvec/corpus"
	"github.com/unixpickle/depvec/vocab"
	"github.com/unixpickle/depvec/word2vec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"gopkg.in/yaml.v3"
)

// Flags holds the command-line options which are not
// training parameters.
type Flags struct {
	ConfigPath  string
	Extension   string
	Format      string
	Feature     string
	OutFeature  string
	Punctuation string
	Output      string
	Binary      bool
	SaveVocab   string
	ReadVocab   string
	MetricsAddr string
	Verbose     bool
}

func main() {
	var flags Flags
	config := word2vec.DefaultConfig()

	flag.StringVar(&flags.ConfigPath, "config", "", "YAML file with training parameters")
	flag.StringVar(&flags.Extension, "ext", ".txt", "extension of corpus files in directories")
	flag.StringVar(&flags.Format, "format", "line", "corpus format (line or conll)")
	flag.StringVar(&flags.Feature, "feature", "form",
		"CoNLL input feature (form, lemma, pos, lemmapos, dep)")
	flag.StringVar(&flags.OutFeature, "out-feature", "",
		"CoNLL output feature, for separate output vocabularies")
	flag.StringVar(&flags.Punctuation, "punctuation", "separate",
		"punctuation handling for line corpora (separate, drop, include)")
	flag.StringVar(&flags.Output, "output", "vectors.txt", "output vector file")
	flag.BoolVar(&flags.Binary, "binary", false, "save vectors in binary serializer format")
	flag.StringVar(&flags.SaveVocab, "save-vocab", "", "save the learned vocabulary")
	flag.StringVar(&flags.ReadVocab, "read-vocab", "", "read the vocabulary instead of learning it")
	flag.StringVar(&flags.MetricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on")
	flag.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")

	flag.IntVar(&config.VectorSize, "size", config.VectorSize, "vector dimensionality")
	flag.IntVar(&config.Window, "window", config.Window, "maximum context window")
	flag.Float64Var(&config.Sample, "sample", config.Sample, "subsampling threshold")
	flag.IntVar(&config.Negative, "negative", config.Negative,
		"negative samples (0 for hierarchical softmax)")
	flag.IntVar(&config.Threads, "threads", config.Threads, "number of training threads")
	flag.IntVar(&config.Iterations, "iter", config.Iterations, "training iterations")
	flag.Int64Var(&config.MinCount, "min-count", config.MinCount, "minimum token count")
	flag.Float64Var(&config.Alpha, "alpha", config.Alpha, "initial learning rate")
	flag.BoolVar(&config.CBOW, "cbow", config.CBOW, "use CBOW instead of skip-gram")
	flag.BoolVar(&config.Normalize, "normalize", config.Normalize, "normalize saved vectors")
	flag.BoolVar(&config.RestrictToOutput, "restrict-to-output", config.RestrictToOutput,
		"only save tokens in the output vocabulary")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: depvec [flags] <file or directory> ...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flags.ConfigPath != "" {
		if err := loadConfig(flags.ConfigPath, config); err != nil {
			essentials.Die(err)
		}
		// Flags on the command line override the file.
		flag.Parse()
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if flags.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	reader, err := openCorpus(&flags, flag.Args())
	if err != nil {
		essentials.Die(err)
	}
	defer reader.Close()

	var metrics *word2vec.Metrics
	if flags.MetricsAddr != "" {
		metrics = serveMetrics(log, flags.MetricsAddr)
	}

	trainer, err := word2vec.NewTrainer(config, log, metrics)
	if err != nil {
		essentials.Die(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if flags.ReadVocab != "" {
		if err := readVocab(trainer, flags.ReadVocab, reader.Out != nil); err != nil {
			log.Fatal(err)
		}
	} else if err := trainer.LearnVocab(ctx, reader); err != nil {
		log.Fatal(err)
	}
	if flags.SaveVocab != "" {
		if err := saveVocab(trainer.InVocab, flags.SaveVocab); err != nil {
			log.Fatal(err)
		}
	}

	if err := trainer.Train(ctx, reader); err != nil {
		log.Fatal(err)
	}
	if err := saveVectors(trainer.Embed(), flags.Output, flags.Binary); err != nil {
		log.Fatal(err)
	}
	log.WithField("path", flags.Output).Info("vectors saved")
}

func loadConfig(path string, config *word2vec.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return essentials.AddCtx("load config", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return essentials.AddCtx("load config: "+path, err)
	}
	return nil
}

func openCorpus(flags *Flags, args []string) (*corpus.Aligned, error) {
	paths, err := listFiles(args, flags.Extension)
	if err != nil {
		return nil, err
	}
	switch flags.Format {
	case "line":
		if flags.OutFeature != "" {
			return nil, fmt.Errorf("-out-feature requires the conll format")
		}
		mode, err := punctuationMode(flags.Punctuation)
		if err != nil {
			return nil, err
		}
		tokenizer := &depvec.Tokenizer{PunctuationMode: mode}
		r, err := corpus.Open(&corpus.LineFormat{Tokenizer: tokenizer}, paths...)
		if err != nil {
			return nil, err
		}
		return &corpus.Aligned{In: r}, nil
	case "conll":
		in, err := conllFeature(flags.Feature)
		if err != nil {
			return nil, err
		}
		r, err := corpus.Open(&corpus.CoNLLFormat{Feature: in}, paths...)
		if err != nil {
			return nil, err
		}
		res := &corpus.Aligned{In: r}
		if flags.OutFeature != "" {
			out, err := conllFeature(flags.OutFeature)
			if err != nil {
				return nil, err
			}
			res.Out = r.WithFormat(&corpus.CoNLLFormat{Feature: out})
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", flags.Format)
	}
}

func punctuationMode(name string) (depvec.PunctuationMode, error) {
	switch name {
	case "separate":
		return depvec.SeparatePunctuation, nil
	case "drop":
		return depvec.DropPunctuation, nil
	case "include":
		return depvec.IncludePunctuation, nil
	}
	return 0, fmt.Errorf("unknown punctuation mode: %s", name)
}

func conllFeature(name string) (corpus.Feature, error) {
	switch strings.ToLower(name) {
	case "form":
		return corpus.FormFeature, nil
	case "lemma":
		return corpus.LemmaFeature, nil
	case "pos":
		return corpus.POSFeature, nil
	case "lemmapos":
		return corpus.LemmaPOSFeature, nil
	case "dep":
		return corpus.DependencyFeature, nil
	}
	return nil, fmt.Errorf("unknown feature: %s", name)
}

func serveMetrics(log logrus.FieldLogger, addr string) *word2vec.Metrics {
	reg := prometheus.NewRegistry()
	metrics := word2vec.NewMetrics(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		log.WithError(http.ListenAndServe(addr, mux)).Error("metrics server stopped")
	}()
	return metrics
}

func readVocab(trainer *word2vec.Trainer, path string, separate bool) error {
	if separate {
		return fmt.Errorf("-read-vocab does not support separate output vocabularies")
	}
	f, err := os.Open(path)
	if err != nil {
		return essentials.AddCtx("read vocabulary", err)
	}
	defer f.Close()
	v := vocab.NewWithSentinel(vocab.EndOfSentence)
	if _, err := v.ReadFrom(f); err != nil {
		return essentials.AddCtx("read vocabulary: "+path, err)
	}
	return trainer.SetVocab(v, nil)
}

func saveVocab(v *vocab.Vocabulary, path string) error {
	err := createFile(path, func(w io.Writer) error {
		_, err := v.WriteTo(w)
		return err
	})
	return essentials.AddCtx("save vocabulary", err)
}

func saveVectors(e *word2vec.Embed, path string, binary bool) (err error) {
	defer essentials.AddCtxTo("save vectors", &err)
	if binary {
		return serializer.SaveAny(path, e)
	}
	return createFile(path, e.WriteText)
}
