package tui

import (
	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

type runsLoadedMsg struct {
	runs []store.Run
}

type articlesLoadedMsg struct {
	runID    int64
	articles []store.Article
}

type storeErrMsg struct {
	err error
}

type biasSavedMsg struct {
	articleID int64
	rater     store.Rater
	bias      string
}
