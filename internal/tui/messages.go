package tui

import (
	"github.com/matheuskafuri/spacegallery/internal/gallery"
)

// Session signals, delivered through programObserver.
type loadingMsg struct {
	on bool
}

type batchMsg struct {
	batch gallery.Batch
}

type hasMoreMsg struct {
	more bool
}

type selectedMsg struct {
	detail gallery.Detail
}

type emptyMsg struct {
	rng gallery.Range
}

type failedMsg struct {
	failure gallery.Failure
}

// Command results.
type initDoneMsg struct {
	err error
}

type queryDoneMsg struct {
	rng gallery.Range
	err error
}

type loadMoreDoneMsg struct {
	n int
}

type mediaMsg struct {
	id string
}

type openErrMsg struct {
	err error
}

type factTickMsg struct {
	gen int
}

type bannerDoneMsg struct{}
