package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"whatsapp-archive-viewer/models"
)

// Dimensioni massime delle anteprime
const (
	ThumbMaxWidth  = 200
	ThumbMaxHeight = 200
)

// Qualità JPEG delle anteprime rigenerate
const thumbQuality = 80

// DeriveThumbnail genera l'anteprima di un allegato. Per immagini e sticker
// l'immagine viene decodificata e ridimensionata preservando le proporzioni,
// con il lato più lungo portato al massimo consentito. Per i video viene
// disegnato un riquadro fisso 200x200. Un errore qui non è fatale per il
// caricamento: l'allegato resta utilizzabile tramite il payload completo.
func DeriveThumbnail(payload []byte, mediaType models.MediaType) ([]byte, error) {
	switch mediaType {
	case models.MediaImage, models.MediaSticker:
		return scaleImage(payload)
	case models.MediaVideo:
		return videoFrame()
	default:
		return nil, fmt.Errorf("nessuna anteprima per il tipo %q", mediaType)
	}
}

func scaleImage(payload []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decodifica immagine: %w", err)
	}

	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New("immagine vuota")
	}

	tw, th := w, h
	if w > ThumbMaxWidth || h > ThumbMaxHeight {
		if w >= h {
			tw = ThumbMaxWidth
			th = h * ThumbMaxWidth / w
		} else {
			th = ThumbMaxHeight
			tw = w * ThumbMaxHeight / h
		}
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("codifica anteprima: %w", err)
	}
	return buf.Bytes(), nil
}

// videoFrame disegna il riquadro di anteprima per i video: sfondo scuro con
// il glifo "play" centrato. Il risultato è sempre esattamente 200x200,
// senza preservare le proporzioni del video.
func videoFrame() ([]byte, error) {
	dc := gg.NewContext(ThumbMaxWidth, ThumbMaxHeight)

	dc.SetRGB(0.09, 0.09, 0.12)
	dc.Clear()

	cx := float64(ThumbMaxWidth) / 2
	cy := float64(ThumbMaxHeight) / 2

	dc.DrawCircle(cx, cy, 46)
	dc.SetRGBA(1, 1, 1, 0.25)
	dc.Fill()

	// Triangolo "play"
	dc.MoveTo(cx-16, cy-24)
	dc.LineTo(cx-16, cy+24)
	dc.LineTo(cx+26, cy)
	dc.ClosePath()
	dc.SetRGB(0.92, 0.92, 0.92)
	dc.Fill()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("codifica riquadro video: %w", err)
	}
	return buf.Bytes(), nil
}
