package main

import (
	"context"
	"io"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
)

// lookupRunner drives one controller from the terminal.
type lookupRunner struct {
	ctrl *moonview.Controller
}

func newLookupRunner(ctrl *moonview.Controller) *lookupRunner {
	return &lookupRunner{ctrl: ctrl}
}

// Run submits location once and prints the outcome to w.
func (r *lookupRunner) Run(ctx context.Context, location string, w io.Writer) error {
	r.ctrl.SetLocationText(location)
	return printView(w, r.ctrl.Submit(ctx))
}
