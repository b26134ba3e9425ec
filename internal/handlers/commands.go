package handlers

import (
	"context"
	"fmt"
	"strings"

	"text2png/internal/config"
	"text2png/internal/css"
	"text2png/internal/storage"
)

const helpText = `Send me any text and I will turn it into a PNG.

/font <css font>  e.g. /font bold 48px serif
/font  then send a .ttf/.otf/.woff/.woff2 file to use it
/color <color>  text color
/bg <color|none>  background
/align left|center|right
/valign top|middle|bottom
/size <W>x<H>|off  fixed canvas size
/padding <px>
/border <px> [color]
/stroke <px> [color]
/spacing <px>  line spacing
/preset  show current settings; /preset load then send a .yaml or .toml
/reset  back to defaults`

// handleCommand applies a slash command. Invalid arguments are reported to
// the chat and leave the options untouched.
func (h *Handler) handleCommand(ctx context.Context, chatID int64, text string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	name, _, _ = strings.Cut(name, "@")
	arg = strings.TrimSpace(arg)

	reply, err := h.runCommand(chatID, strings.ToLower(name), arg)
	if err != nil {
		_ = h.bot.SendText(ctx, chatID, "❌ "+err.Error())
		return
	}
	if reply != "" {
		_ = h.bot.SendText(ctx, chatID, reply)
	}
}

func (h *Handler) runCommand(chatID int64, name, arg string) (string, error) {
	switch name {
	case "/start", "/help":
		return helpText, nil

	case "/reset":
		h.sessions.Reset(chatID)
		return "✅ Settings reset.", nil

	case "/font":
		if arg == "" {
			h.sessions.SetMode(chatID, storage.ModeAwaitFont)
			return "📎 Send the font file as a document.", nil
		}
		if _, err := css.ParseFont(arg); err != nil {
			return "", fmt.Errorf("not a valid font: %s", arg)
		}
		return h.apply(chatID, func(o *config.Options) { o.Font = &arg })

	case "/color":
		if err := validColor(arg); err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) { o.TextColor, o.Color = &arg, nil })

	case "/bg":
		if strings.EqualFold(arg, "none") {
			return h.apply(chatID, func(o *config.Options) { o.BackgroundColor, o.BgColor = nil, nil })
		}
		if err := validColor(arg); err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) { o.BackgroundColor = &arg })

	case "/align":
		switch config.TextAlign(arg) {
		case config.AlignLeft, config.AlignCenter, config.AlignRight, config.AlignStart, config.AlignEnd:
		default:
			return "", fmt.Errorf("align must be left, center, right, start or end")
		}
		return h.apply(chatID, func(o *config.Options) { o.TextAlign = &arg })

	case "/valign":
		switch config.VerticalAlign(arg) {
		case config.AlignTop, config.AlignMiddle, config.AlignBottom:
		default:
			return "", fmt.Errorf("valign must be top, middle or bottom")
		}
		return h.apply(chatID, func(o *config.Options) { o.VerticalAlign = &arg })

	case "/size":
		if strings.EqualFold(arg, "off") {
			return h.apply(chatID, func(o *config.Options) { o.Width, o.Height = nil, nil })
		}
		w, hgt, err := parseSize(arg)
		if err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) { o.Width, o.Height = &w, &hgt })

	case "/padding":
		v, err := parseNonNegative(arg)
		if err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) {
			o.Padding = &v
			o.PaddingLeft, o.PaddingTop, o.PaddingRight, o.PaddingBottom = nil, nil, nil, nil
		})

	case "/spacing":
		v, err := parseNonNegative(arg)
		if err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) { o.LineSpacing = &v })

	case "/border":
		v, col, err := parseWidthColor(arg)
		if err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) {
			o.BorderWidth = &v
			o.BorderLeftWidth, o.BorderTopWidth, o.BorderRightWidth, o.BorderBottomWidth = nil, nil, nil, nil
			if col != "" {
				o.BorderColor = &col
			}
		})

	case "/stroke":
		v, col, err := parseWidthColor(arg)
		if err != nil {
			return "", err
		}
		return h.apply(chatID, func(o *config.Options) {
			o.StrokeWidth = &v
			if col != "" {
				o.StrokeColor = &col
			}
		})

	case "/preset":
		if arg == "load" {
			h.sessions.SetMode(chatID, storage.ModeAwaitPreset)
			return "📎 Send the preset as a .yaml or .toml document.", nil
		}
		data, err := config.EncodePreset(".yaml", h.sessions.Options(chatID))
		if err != nil {
			return "", fmt.Errorf("could not encode settings")
		}
		if len(strings.TrimSpace(string(data))) == 0 || strings.TrimSpace(string(data)) == "{}" {
			return "No custom settings, using defaults.", nil
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown command %s, try /help", name)
	}
}

// apply changes the chat's options with fn unless the result would exceed
// the handler's limits.
func (h *Handler) apply(chatID int64, fn func(*config.Options)) (string, error) {
	next := h.sessions.Options(chatID)
	fn(&next)
	if err := h.limits.Check(next); err != nil {
		return "", err
	}
	h.sessions.Update(chatID, fn)
	return "✅ Done.", nil
}

func validColor(s string) error {
	if _, err := css.ParseColor(s); err != nil {
		return fmt.Errorf("not a valid color: %s", s)
	}
	return nil
}

func parseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size must look like 800x400")
	}
	w, err := parseNonNegative(ws)
	if err != nil || w == 0 {
		return 0, 0, fmt.Errorf("size must look like 800x400")
	}
	hgt, err := parseNonNegative(hs)
	if err != nil || hgt == 0 {
		return 0, 0, fmt.Errorf("size must look like 800x400")
	}
	return w, hgt, nil
}

func parseNonNegative(s string) (float64, error) {
	v := config.ToNumber(strings.TrimSpace(s))
	if v == nil || *v < 0 {
		return 0, fmt.Errorf("expected a non-negative number, got %q", s)
	}
	return *v, nil
}

func parseWidthColor(arg string) (float64, string, error) {
	ws, col, _ := strings.Cut(arg, " ")
	v, err := parseNonNegative(ws)
	if err != nil {
		return 0, "", err
	}
	col = strings.TrimSpace(col)
	if col != "" {
		if err := validColor(col); err != nil {
			return 0, "", err
		}
	}
	return v, col, nil
}

// withFamily swaps the families of font (or the default font) for family
// with a sans-serif fallback, keeping size, weight and style.
func withFamily(font *string, family string) string {
	desc := config.DefaultFont
	if font != nil {
		desc = *font
	}
	f, err := css.ParseFont(desc)
	if err != nil {
		f, _ = css.ParseFont(config.DefaultFont)
	}
	f.Families = []string{family, "sans-serif"}
	return f.String()
}
