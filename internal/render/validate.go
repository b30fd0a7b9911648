package render

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/remindr/internal/model"
)

// ValidateBlocks checks block content before a template is stored. Image
// sources must use https, links and button targets must be http or https.
// Values containing a {{placeholder}} are accepted as is since they are
// only known at send time.
func ValidateBlocks(blocks []model.Block) error {
	var errs []error
	for i, b := range blocks {
		if err := validateBlock(b); err != nil {
			errs = append(errs, fmt.Errorf("block %d (%s): %w", i+1, b.Type, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidBlock}, errs...)...)
	}
	return nil
}

func validateBlock(b model.Block) error {
	switch b.Type {
	case model.BlockText:
		if b.FontSize != 0 && (b.FontSize < model.MinFontSize || b.FontSize > model.MaxFontSize) {
			return fmt.Errorf("font size must be between %d and %d", model.MinFontSize, model.MaxFontSize)
		}
	case model.BlockImage:
		if strings.TrimSpace(b.ImageURL) == "" {
			return errors.New("image url is required")
		}
		if !hasPlaceholder(b.ImageURL) && !hasScheme(b.ImageURL, "https") {
			return errors.New("image url must use https")
		}
		if b.LinkURL != "" && !hasPlaceholder(b.LinkURL) && !hasScheme(b.LinkURL, "http", "https") {
			return errors.New("link url must use http or https")
		}
	case model.BlockButton:
		if strings.TrimSpace(b.URL) == "" {
			return errors.New("button url is required")
		}
		if !hasPlaceholder(b.URL) && !hasScheme(b.URL, "http", "https") {
			return errors.New("button url must use http or https")
		}
		if utf8.RuneCountInString(b.Label) > model.MaxButtonLabelLen {
			return fmt.Errorf("button label must be at most %d characters", model.MaxButtonLabelLen)
		}
	case model.BlockSpacer, model.BlockDivider:
	default:
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	return nil
}

func hasPlaceholder(s string) bool {
	return strings.Contains(s, "{{")
}

func hasScheme(raw string, schemes ...string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return true
		}
	}
	return false
}
