// Package resources renders the application and tray icons.
package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
)

// Icon names a tray icon variant.
type Icon string

const (
	IconIdle   Icon = "idle"
	IconWork   Icon = "work"
	IconBreak  Icon = "break"
	IconPaused Icon = "paused"
)

const iconSize = 64

var (
	tomatoRed  = color.NRGBA{R: 0xd8, G: 0x1e, B: 0x06, A: 0xff}
	leafGreen  = color.NRGBA{R: 0x2e, G: 0x9e, B: 0x4f, A: 0xff}
	idleGrey   = color.NRGBA{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff}
	pauseWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var iconCache sync.Map

// TrayIcon returns the resource for icon, rendering it on first use.
func TrayIcon(icon Icon) fyne.Resource {
	if cached, ok := iconCache.Load(icon); ok {
		return cached.(fyne.Resource)
	}
	data, err := Render(icon, iconSize)
	if err != nil {
		panic(err)
	}
	resource := fyne.NewStaticResource(fmt.Sprintf("pomotodo-%s.png", icon), data)
	actual, _ := iconCache.LoadOrStore(icon, resource)
	return actual.(fyne.Resource)
}

// AppIcon is the window and notification icon.
func AppIcon() fyne.Resource {
	return TrayIcon(IconWork)
}

// Render draws icon as a size x size PNG: a filled disc, with pause bars
// for IconPaused.
func Render(icon Icon, size int) ([]byte, error) {
	fill, ok := map[Icon]color.NRGBA{
		IconIdle:   idleGrey,
		IconWork:   tomatoRed,
		IconBreak:  leafGreen,
		IconPaused: tomatoRed,
	}[icon]
	if !ok {
		return nil, fmt.Errorf("render icon: unknown icon %q", icon)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	radius := center - 1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy <= radius*radius {
				canvas.SetNRGBA(x, y, fill)
			}
		}
	}
	if icon == IconPaused {
		barWidth := size / 8
		top, bottom := size*5/16, size*11/16
		for _, left := range []int{size*3/8 - barWidth/2, size*5/8 - barWidth/2} {
			for y := top; y < bottom; y++ {
				for x := left; x < left+barWidth; x++ {
					canvas.SetNRGBA(x, y, pauseWhite)
				}
			}
		}
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, canvas); err != nil {
		return nil, fmt.Errorf("encode icon: %w", err)
	}
	return buffer.Bytes(), nil
}
