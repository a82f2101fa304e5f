package word2vec

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports training progress to Prometheus.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	words     prometheus.Counter
	sentences *prometheus.CounterVec
	epochs    prometheus.Counter
	alpha     prometheus.Gauge
	vocabSize *prometheus.GaugeVec
}

// NewMetrics creates the training metrics and registers
// them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		words: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depvec_words_total",
			Help: "tokens consumed by training workers",
		}),
		sentences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depvec_sentences_total",
				Help: "sentences read from the corpus",
			},
			[]string{"phase"},
		),
		epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depvec_epochs_total",
			Help: "shard passes completed by training workers",
		}),
		alpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depvec_learning_rate",
			Help: "current global learning rate",
		}),
		vocabSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "depvec_vocabulary_size",
				Help: "entries in the learned vocabularies",
			},
			[]string{"side"},
		),
	}
	reg.MustRegister(m.words, m.sentences, m.epochs, m.alpha, m.vocabSize)
	return m
}

func (m *Metrics) addWords(n int) {
	if m != nil {
		m.words.Add(float64(n))
	}
}

func (m *Metrics) addSentence(phase string) {
	if m != nil {
		m.sentences.WithLabelValues(phase).Inc()
	}
}

func (m *Metrics) addEpoch() {
	if m != nil {
		m.epochs.Inc()
	}
}

func (m *Metrics) setAlpha(alpha float64) {
	if m != nil {
		m.alpha.Set(alpha)
	}
}

func (m *Metrics) setVocabSize(side string, n int) {
	if m != nil {
		m.vocabSize.WithLabelValues(side).Set(float64(n))
	}
}
