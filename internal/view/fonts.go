package view

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	hudFontSize = 12
	logFontSize = 10
)

// loadFaces builds the HUD (Go Regular) and log panel (Go Mono) faces from
// the embedded Go fonts.
func loadFaces() (sans, mono *text.GoTextFace, err error) {
	sansSrc, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, nil, fmt.Errorf("view: load sans font: %w", err)
	}
	monoSrc, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, nil, fmt.Errorf("view: load mono font: %w", err)
	}
	return &text.GoTextFace{Source: sansSrc, Size: hudFontSize},
		&text.GoTextFace{Source: monoSrc, Size: logFontSize}, nil
}
