package render

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/remindr/internal/model"
)

const containerStyle = "width: 100%; max-width: 600px; margin: 0 auto; " +
	"font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; " +
	"background-color: #ffffff;"

const documentHead = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
  <title>Email</title>
  <!--[if mso]>
  <style type="text/css">
    table {border-collapse: collapse; border-spacing: 0; margin: 0;}
    div, td {padding: 0;}
    div {margin: 0;}
  </style>
  <![endif]-->
</head>
<body style="margin: 0; padding: 0; background-color: #f4f4f4;">
  <table border="0" cellpadding="0" cellspacing="0" width="100%" role="presentation" style="background-color: #f4f4f4;">
    <tr>
      <td style="padding: 20px 0;">
        <table border="0" cellpadding="0" cellspacing="0" width="100%" style="` + containerStyle + `" role="presentation">
`

const documentTail = `        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// RenderHTML renders blocks into a complete HTML email document. Blocks are
// ordered by Order; equal orders keep their input position.
func RenderHTML(blocks []model.Block, vars map[string]string) string {
	var b strings.Builder
	b.WriteString(documentHead)
	for _, block := range sortBlocks(blocks) {
		renderBlock(&b, block, vars)
	}
	b.WriteString(documentTail)
	return b.String()
}

// sortBlocks returns a stably sorted copy; the input slice is not touched.
func sortBlocks(blocks []model.Block) []model.Block {
	sorted := slices.Clone(blocks)
	slices.SortStableFunc(sorted, func(a, b model.Block) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return sorted
}

func renderBlock(b *strings.Builder, block model.Block, vars map[string]string) {
	switch block.Type {
	case model.BlockText:
		renderText(b, block, vars)
	case model.BlockImage:
		renderImage(b, block, vars)
	case model.BlockButton:
		renderButton(b, block, vars)
	case model.BlockSpacer:
		renderSpacer(b, block)
	case model.BlockDivider:
		renderDivider(b, block)
	}
}

func renderText(b *strings.Builder, block model.Block, vars map[string]string) {
	content := EscapeHTML(Substitute(block.Content, vars))
	fontSize := model.DefaultFontSize
	if block.FontSize > 0 {
		fontSize = model.Clamp(block.FontSize, model.MinFontSize, model.MaxFontSize)
	}
	fontWeight := "normal"
	if block.FontWeight == "bold" {
		fontWeight = "bold"
	}
	color := styleValue(block.Color, model.DefaultTextColor)

	fmt.Fprintf(b, `          <tr>
            <td style="padding: 0 20px;">
              <p style="margin: 0; padding: 0; font-size: %dpx; font-weight: %s; text-align: %s; color: %s; line-height: 1.6;">%s</p>
            </td>
          </tr>
`, fontSize, fontWeight, alignment(block.TextAlign, "left"), color, content)
}

func renderImage(b *strings.Builder, block model.Block, vars map[string]string) {
	src := EscapeHTML(Substitute(block.ImageURL, vars))
	alt := EscapeHTML(Substitute(block.AltText, vars))
	width := model.MaxImageWidth
	if block.Width > 0 {
		width = min(block.Width, model.MaxImageWidth)
	}
	align := alignment(block.Alignment, "center")

	var margin string
	switch align {
	case "center":
		margin = "margin: 0 auto; "
	case "right":
		margin = "margin-left: auto; "
	}

	img := fmt.Sprintf(`<img src="%s" alt="%s" width="%d" style="display: block; %smax-width: 100%%; height: auto; border: 0;" />`,
		src, alt, width, margin)
	if block.LinkURL != "" {
		href := EscapeHTML(Substitute(block.LinkURL, vars))
		img = fmt.Sprintf(`<a href="%s" style="text-decoration: none;">%s</a>`, href, img)
	}

	fmt.Fprintf(b, `          <tr>
            <td style="padding: 0 20px; text-align: %s;">
              %s
            </td>
          </tr>
`, align, img)
}

func renderButton(b *strings.Builder, block model.Block, vars map[string]string) {
	label := EscapeHTML(Substitute(block.Label, vars))
	href := EscapeHTML(Substitute(block.URL, vars))
	bg := styleValue(block.BackgroundColor, model.DefaultButtonColor)
	fg := styleValue(block.TextColor, model.DefaultButtonTextColor)
	align := alignment(block.Alignment, "center")

	margin := "0"
	switch align {
	case "center":
		margin = "0 auto"
	case "right":
		margin = "0 0 0 auto"
	}

	fmt.Fprintf(b, `          <tr>
            <td style="padding: 0 20px; text-align: %s;">
              <table border="0" cellpadding="0" cellspacing="0" role="presentation" style="margin: %s;">
                <tr>
                  <td style="border-radius: 6px; background-color: %s;">
                    <a href="%s" target="_blank" style="display: inline-block; padding: 14px 28px; font-size: 16px; font-weight: bold; color: %s; text-decoration: none; border-radius: 6px;">%s</a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
`, align, margin, bg, href, fg, label)
}

func renderSpacer(b *strings.Builder, block model.Block) {
	height := model.Clamp(block.Height, model.MinSpacerHeight, model.MaxSpacerHeight)

	fmt.Fprintf(b, `          <tr>
            <td style="height: %dpx; line-height: %dpx; font-size: 1px;">&nbsp;</td>
          </tr>
`, height, height)
}

func renderDivider(b *strings.Builder, block model.Block) {
	color := styleValue(block.Color, model.DefaultDividerColor)
	thickness := model.MinDividerThickness
	if block.Thickness > 0 {
		thickness = model.Clamp(block.Thickness, model.MinDividerThickness, model.MaxDividerThickness)
	}

	fmt.Fprintf(b, `          <tr>
            <td style="padding: 0 20px;">
              <table border="0" cellpadding="0" cellspacing="0" width="100%%" role="presentation">
                <tr>
                  <td style="border-top: %dpx solid %s;"></td>
                </tr>
              </table>
            </td>
          </tr>
`, thickness, color)
}

// alignment accepts left, center and right; anything else yields def.
func alignment(v, def string) string {
	switch v {
	case "left", "center", "right":
		return v
	default:
		return def
	}
}

// styleValue returns an escaped inline style value, or def when v is empty.
// Characters that could end the declaration are dropped.
func styleValue(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	v = strings.Map(func(r rune) rune {
		if r == ';' || r == '{' || r == '}' {
			return -1
		}
		return r
	}, v)
	return EscapeHTML(v)
}
