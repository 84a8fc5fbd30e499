package view

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("view: no clipboard utility available")

func copyText(s string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(s)
}
