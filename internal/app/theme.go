package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// MarkerMakerTheme tints the default theme with the marker blue.
type MarkerMakerTheme struct{}

var _ fyne.Theme = (*MarkerMakerTheme)(nil)

func (t *MarkerMakerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF} // Marker blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xDB, G: 0xEA, B: 0xFE, A: 0xFF}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF} // Delete red
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *MarkerMakerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *MarkerMakerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *MarkerMakerTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
