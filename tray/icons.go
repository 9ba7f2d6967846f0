package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/yllada/adguardvpn-desktop/common"
)

// symbol is drawn on top of the shield.
type symbol int

const (
	symbolLock symbol = iota
	symbolCheck
	symbolDots
)

// iconStyle defines the colors of a tray icon.
type iconStyle struct {
	Size   int
	Fill   color.RGBA
	Border color.RGBA
	Accent color.RGBA
	Symbol color.RGBA
	Mark   symbol
}

var (
	styleConnected = iconStyle{
		Size:   common.TrayIconSize,
		Fill:   color.RGBA{0x5e, 0x9b, 0x3c, 0xff}, // AdGuard green
		Border: color.RGBA{0x68, 0xbc, 0x71, 0xff},
		Accent: color.RGBA{0xc8, 0xe6, 0xc9, 0xff},
		Symbol: color.RGBA{0xff, 0xff, 0xff, 0xff},
		Mark:   symbolCheck,
	}
	styleConnecting = iconStyle{
		Size:   common.TrayIconSize,
		Fill:   color.RGBA{0xe0, 0x8e, 0x0b, 0xff}, // amber
		Border: color.RGBA{0xf5, 0xb0, 0x41, 0xff},
		Accent: color.RGBA{0xfd, 0xe6, 0xb8, 0xff},
		Symbol: color.RGBA{0xff, 0xff, 0xff, 0xff},
		Mark:   symbolDots,
	}
	styleDisconnected = iconStyle{
		Size:   common.TrayIconSize,
		Fill:   color.RGBA{0x75, 0x75, 0x75, 0xff},
		Border: color.RGBA{0x9e, 0x9e, 0x9e, 0xff},
		Accent: color.RGBA{0xbd, 0xbd, 0xbd, 0xff},
		Symbol: color.RGBA{0xff, 0xff, 0xff, 0xff},
		Mark:   symbolLock,
	}
)

// Icons are rendered once at startup.
var (
	iconConnected    = renderIcon(styleConnected)
	iconConnecting   = renderIcon(styleConnecting)
	iconDisconnected = renderIcon(styleDisconnected)
)

// renderIcon draws a shield with a symbol and encodes it as PNG.
func renderIcon(style iconStyle) []byte {
	img := image.NewRGBA(image.Rect(0, 0, style.Size, style.Size))
	drawShield(img, style)

	switch style.Mark {
	case symbolCheck:
		drawCheck(img, style.Symbol)
	case symbolDots:
		drawDots(img, style.Symbol)
	default:
		drawLock(img, style.Symbol)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		common.LogError("tray: encoding icon: %v", err)
		return nil
	}
	return buf.Bytes()
}

func drawShield(img *image.RGBA, style iconStyle) {
	size := float64(style.Size)
	centerX := size / 2
	top, bottom := 1.0, size-2
	halfWidth := (size - 4) / 2

	inside := func(x, y float64) bool {
		rel := (y - top) / (bottom - top)
		if rel < 0 || rel > 1 {
			return false
		}
		w := halfWidth - rel*0.5
		if rel >= 0.5 {
			p := (rel - 0.5) * 2
			w = (halfWidth - 0.25) * (1 - p*p)
		}
		return x >= centerX-w && x <= centerX+w
	}

	for y := 0; y < style.Size; y++ {
		for x := 0; x < style.Size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if !inside(fx, fy) {
				continue
			}
			switch {
			case !inside(fx-1, fy) || !inside(fx+1, fy) || !inside(fx, fy-1) || !inside(fx, fy+1):
				img.Set(x, y, style.Border)
			case fy/size < 0.3:
				img.Set(x, y, style.Accent)
			default:
				img.Set(x, y, style.Fill)
			}
		}
	}
}

func drawCheck(img *image.RGBA, c color.RGBA) {
	points := [][2]int{
		{6, 11}, {7, 11}, {7, 12}, {8, 12}, {8, 13}, {9, 13},
		{9, 12}, {10, 12}, {10, 11}, {11, 11}, {11, 10}, {12, 10},
		{12, 9}, {13, 9}, {13, 8}, {14, 8},
	}
	for _, p := range points {
		img.Set(p[0], p[1], c)
	}
}

func drawDots(img *image.RGBA, c color.RGBA) {
	for _, x := range []int{7, 10, 13} {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				img.Set(x+dx, 10+dy, c)
			}
		}
	}
}

func drawLock(img *image.RGBA, c color.RGBA) {
	for y := 10; y <= 15; y++ {
		for x := 8; x <= 14; x++ {
			if y == 10 || y == 15 || x == 8 || x == 14 {
				img.Set(x, y, c)
			}
		}
	}
	for y := 6; y <= 8; y++ {
		img.Set(9, y, c)
		img.Set(13, y, c)
	}
	for x := 9; x <= 13; x++ {
		img.Set(x, 6, c)
	}
}
