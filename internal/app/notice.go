package app

import (
	"errors"

	"example.com/dmztools/internal/apperr"
)

// Op names the user action a Notice reports on.
type Op string

const (
	OpMerge Op = "Merge"
	OpQR    Op = "QR"
	OpFetch Op = "Download"
)

// Notice is the outcome of a user action, ready to be shown in a dialog.
type Notice struct {
	Title   string
	Message string
	Err     error
}

// Failed reports whether the action failed.
func (n Notice) Failed() bool { return n.Err != nil }

// Success builds the notice for a completed action.
func Success(msg string) Notice {
	return Notice{Title: "Success", Message: msg}
}

// Failure turns err into the message shown to the user.
func Failure(op Op, err error) Notice {
	n := Notice{Title: string(op) + " failed", Message: err.Error(), Err: err}

	var (
		ve *apperr.ValidationError
		me *apperr.MissingFileError
	)
	switch {
	case errors.Is(err, apperr.ErrTooFewInputs):
		n.Title = "Need more PDFs"
		n.Message = "Add at least two PDF files to merge."
	case errors.As(err, &me):
		n.Title = "Missing file"
		n.Message = "These PDFs could not be found:\n" + me.Listing()
	case errors.As(err, &ve) && ve.Field == "url":
		n.Title = "Missing URL"
		if op == OpQR {
			n.Message = "Enter the URL to encode."
		} else {
			n.Message = "Enter the URL of a PDF."
		}
	}
	return n
}
