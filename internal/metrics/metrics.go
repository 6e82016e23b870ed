// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store labels.
const (
	StoreArticles = "articles"
	StoreAccounts = "accounts"
)

// Article read outcomes.
const (
	ReadOK            = "ok"
	ReadNotFound      = "not_found"
	ReadMetadataError = "metadata_error"
	ReadError         = "error"
)

var (
	StorageWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plainwiki_storage_write_duration_seconds",
			Help:    "Duration of atomic file writes in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"store"},
	)

	StorageWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plainwiki_storage_writes_total",
			Help: "Total number of file writes by store and outcome",
		},
		[]string{"store", "outcome"},
	)

	ArticleReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plainwiki_article_reads_total",
			Help: "Total number of article file reads by outcome",
		},
		[]string{"outcome"},
	)

	ArticleMetadataCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plainwiki_article_metadata_cache_total",
			Help: "Front matter cache lookups during tree walks",
		},
		[]string{"result"}, // "hit", "miss"
	)

	TreeWalkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plainwiki_tree_walk_duration_seconds",
			Help:    "Duration of discovery tree walks in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TreeWalkErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plainwiki_tree_walk_errors_total",
			Help: "Total number of discovery tree walks that failed",
		},
	)
)

// RecordStorageWrite records one write to store.
func RecordStorageWrite(store string, duration time.Duration, err error) {
	StorageWriteDuration.WithLabelValues(store).Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	StorageWritesTotal.WithLabelValues(store, outcome).Inc()
}

// RecordArticleRead records an article read with one of the Read* outcomes.
func RecordArticleRead(outcome string) {
	ArticleReadsTotal.WithLabelValues(outcome).Inc()
}

// RecordMetadataCache records a front matter cache lookup.
func RecordMetadataCache(hit bool) {
	if hit {
		ArticleMetadataCache.WithLabelValues("hit").Inc()
		return
	}
	ArticleMetadataCache.WithLabelValues("miss").Inc()
}

// RecordTreeWalk records a discovery tree walk.
func RecordTreeWalk(duration time.Duration, err error) {
	TreeWalkDuration.Observe(duration.Seconds())
	if err != nil {
		TreeWalkErrors.Inc()
	}
}
