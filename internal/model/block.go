package model

// BlockType discriminates the content blocks of a block template.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockImage   BlockType = "image"
	BlockButton  BlockType = "button"
	BlockSpacer  BlockType = "spacer"
	BlockDivider BlockType = "divider"
)

// Block constraints and defaults.
const (
	MinFontSize     = 12
	MaxFontSize     = 24
	DefaultFontSize = 16

	MaxImageWidth       = 600
	MaxButtonLabelLen   = 50
	MinSpacerHeight     = 10
	MaxSpacerHeight     = 100
	MinDividerThickness = 1
	MaxDividerThickness = 5

	DefaultTextColor       = "#333333"
	DefaultButtonColor     = "#007bff"
	DefaultButtonTextColor = "#ffffff"
	DefaultDividerColor    = "#dddddd"
)

// Block is one typed element of a block template. Only the fields relevant
// to Type are read; the rest stay zero.
type Block struct {
	ID    string    `json:"id" yaml:"id"`
	Type  BlockType `json:"type" yaml:"type"`
	Order int       `json:"order" yaml:"order"`

	// text
	Content    string `json:"content,omitempty" yaml:"content,omitempty"`
	FontWeight string `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	TextAlign  string `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`
	FontSize   int    `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`

	// text and divider
	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	// image
	ImageURL string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	AltText  string `json:"altText,omitempty" yaml:"altText,omitempty"`
	LinkURL  string `json:"linkUrl,omitempty" yaml:"linkUrl,omitempty"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`

	// image and button
	Alignment string `json:"alignment,omitempty" yaml:"alignment,omitempty"`

	// button
	Label           string `json:"label,omitempty" yaml:"label,omitempty"`
	URL             string `json:"url,omitempty" yaml:"url,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty" yaml:"textColor,omitempty"`

	// spacer
	Height int `json:"height,omitempty" yaml:"height,omitempty"`

	// divider
	Thickness int `json:"thickness,omitempty" yaml:"thickness,omitempty"`
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
