package ui

import (
	"github.com/altinukshini/gridfind/internal/export"
	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/search"
)

// SubmitMsg is emitted by the results view when the user submits a query.
type SubmitMsg struct {
	Text string
}

// Data fetched messages
type GridLoadedMsg struct {
	Query search.Query
	Grid  model.Grid
	Err   error
}

type ExportDoneMsg struct {
	Result  export.Result
	Notices []export.Notice
	Err     error
}

type StatusMsg struct {
	Text string
}
