// Package imggen renders a divination quote into a shareable PNG card.
package imggen

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/fogleman/gg"

	"book_divination_tgbot/config"
)

const (
	imgWidth  = 1280
	imgHeight = 720
	// bands and text rows are laid out in 1/ratio fractions of the height
	ratio = 22

	authorFontSize = 42
	titleFontSize  = 28
	quoteFontSize  = 48
)

var bandColor = [3]int{199, 163, 143}

type QuoteImage struct {
	cfg *config.Config
}

func New(cfg *config.Config) *QuoteImage {
	return &QuoteImage{cfg: cfg}
}

// Make renders the quote card as PNG bytes. Arbitrarily long quotes are
// wrapped, never rejected.
func (g *QuoteImage) Make(author, title, quote string) ([]byte, error) {
	op := "QuoteImage.Make"

	dc := gg.NewContext(imgWidth, imgHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// top and bottom bands
	dc.SetRGB255(bandColor[0], bandColor[1], bandColor[2])
	dc.DrawRectangle(0, 0, imgWidth, imgHeight/ratio)
	dc.Fill()
	dc.DrawRectangle(0, (ratio-1)*imgHeight/ratio, imgWidth, imgHeight/ratio)
	dc.Fill()

	dc.SetRGB(0, 0, 0)

	if err := dc.LoadFontFace(g.cfg.Imggen.AuthorFontPath, authorFontSize); err != nil {
		slog.Error("error while loading author font", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("load author font: %w", err)
	}
	dc.DrawStringAnchored(author, imgWidth/2, 2.5*imgHeight/ratio, 0.5, 0.5)

	if err := dc.LoadFontFace(g.cfg.Imggen.TitleFontPath, titleFontSize); err != nil {
		slog.Error("error while loading title font", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("load title font: %w", err)
	}
	dc.DrawStringAnchored(title, imgWidth/2, 5*imgHeight/ratio, 0.5, 0.5)

	if err := dc.LoadFontFace(g.cfg.Imggen.QuoteFontPath, quoteFontSize); err != nil {
		slog.Error("error while loading quote font", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("load quote font: %w", err)
	}
	dc.DrawStringWrapped(quote, imgWidth/2, imgHeight/2, 0.5, 0.5, imgWidth*0.8, 1.4, gg.AlignCenter)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		slog.Error("error while encoding png", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}
