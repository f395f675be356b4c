package bson

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsDocumentsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bson",
		Name:      "documents_built_total",
		Help:      "Number of root documents constructed.",
	})
	metricsElementsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bson",
		Name:      "elements_appended_total",
		Help:      "Number of elements appended across all documents.",
	})
	metricsCorruptDocuments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bson",
		Name:      "corrupt_documents_total",
		Help:      "Number of times an iterator detected a corrupt document.",
	})
	metricsValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bson",
		Name:      "validation_failures_total",
		Help:      "Number of documents that failed Validate.",
	})
)
