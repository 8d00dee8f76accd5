package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LightboxTheme keeps the viewer dark regardless of the system variant
type LightboxTheme struct{}

// NewLightboxTheme creates the viewer theme
func NewLightboxTheme() fyne.Theme {
	return &LightboxTheme{}
}

// Color returns theme colors
func (t *LightboxTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.Black
	case theme.ColorNameForeground:
		return color.White
	case theme.ColorNameDisabled:
		return color.RGBA{R: 61, G: 71, B: 87, A: 255}
	case theme.ColorNameHyperlink:
		return color.RGBA{R: 137, G: 154, B: 185, A: 255} // "show more"
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case theme.ColorNameButton:
		return color.Transparent
	}

	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

// Font returns theme fonts
func (t *LightboxTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *LightboxTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes
func (t *LightboxTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameText:
		return 15
	case theme.SizeNameCaptionText:
		return 12
	}

	return theme.DefaultTheme().Size(name)
}
