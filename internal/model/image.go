package model

import "strings"

// LightboxImage is one page of the lightbox
type LightboxImage struct {
	ImageURL string `yaml:"url" json:"url"`
	Text     string `yaml:"text,omitempty" json:"text,omitempty"`
	VideoURL string `yaml:"video_url,omitempty" json:"video_url,omitempty"`
}

// NewLightboxImage creates an image page with an optional caption
func NewLightboxImage(imageURL, text string) LightboxImage {
	return LightboxImage{ImageURL: imageURL, Text: text}
}

// HasVideo reports whether the page links to a video
func (li LightboxImage) HasVideo() bool {
	return strings.TrimSpace(li.VideoURL) != ""
}

// DisplayName returns the caption, or the file name of the image
func (li LightboxImage) DisplayName() string {
	if text := strings.Join(strings.Fields(li.Text), " "); text != "" {
		return text
	}
	return displayName(li.ImageURL)
}
