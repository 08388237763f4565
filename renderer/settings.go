package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

var validate = validator.New()

// Settings control the look of the rendered map
type Settings struct {
	Width             float64    `json:"width" validate:"gt=0"`
	Height            float64    `json:"height" validate:"gt=0"`
	Padding           float64    `json:"padding" validate:"gte=0"`
	LineWidth         float64    `json:"line_width" validate:"gte=0"`
	StopRadius        float64    `json:"stop_radius" validate:"gte=0"`
	BusLabelFontSize  int        `json:"bus_label_font_size" validate:"gte=0"`
	BusLabelOffset    [2]float64 `json:"bus_label_offset"`
	StopLabelFontSize int        `json:"stop_label_font_size" validate:"gte=0"`
	StopLabelOffset   [2]float64 `json:"stop_label_offset"`
	UnderlayerColor   Color      `json:"underlayer_color"`
	UnderlayerWidth   float64    `json:"underlayer_width" validate:"gte=0"`
	ColorPalette      []Color    `json:"color_palette"`
}

// Validate checks numeric ranges and that padding fits the canvas.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("render settings: %w: %v", catalogue.ErrInvalidInput, err)
	}
	if 2*s.Padding > s.Width || 2*s.Padding > s.Height {
		return fmt.Errorf("render settings: %w: padding %v does not fit %vx%v",
			catalogue.ErrInvalidInput, s.Padding, s.Width, s.Height)
	}
	return nil
}

// UnmarshalJSON accepts "name", [r,g,b] and [r,g,b,opacity].
func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = NamedColor(name)
		return nil
	}

	var parts []float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("color %s: %w", data, catalogue.ErrInvalidInput)
	}
	channel := func(v float64) (uint8, error) {
		if v < 0 || v > 255 || v != float64(int(v)) {
			return 0, fmt.Errorf("color channel %v: %w", v, catalogue.ErrInvalidInput)
		}
		return uint8(v), nil
	}
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("color with %d components: %w", len(parts), catalogue.ErrInvalidInput)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := channel(parts[i])
		if err != nil {
			return err
		}
		rgb[i] = v
	}
	if len(parts) == 3 {
		*c = RGB(rgb[0], rgb[1], rgb[2])
		return nil
	}
	if parts[3] < 0 || parts[3] > 1 {
		return fmt.Errorf("opacity %v: %w", parts[3], catalogue.ErrInvalidInput)
	}
	*c = RGBA(rgb[0], rgb[1], rgb[2], parts[3])
	return nil
}

// MarshalJSON writes the same shapes UnmarshalJSON accepts. An unset color is
// written as "none".
func (c Color) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ColorRGB:
		return json.Marshal([]int{int(c.Red), int(c.Green), int(c.Blue)})
	case ColorRGBA:
		return json.Marshal([]float64{float64(c.Red), float64(c.Green), float64(c.Blue), c.Opacity})
	default:
		return json.Marshal(c.String())
	}
}
