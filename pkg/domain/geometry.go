package domain

import "fmt"

// Axis is the direction a list scrolls in.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseAxis maps "vertical"/"horizontal" (case sensitive) to an Axis.
// Empty input defaults to Vertical.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown scroll axis %q", s)
}

// Size is a width/height pair in surface points.
type Size struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// Point is a position in surface coordinates.
type Point struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Rect is an axis-aligned frame.
type Rect struct {
	Origin Point `json:"origin" mapstructure:"origin"`
	Size   Size  `json:"size" mapstructure:"size"`
}

// NewRect is shorthand for a Rect literal.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

func (r Rect) MinX() float64 { return r.Origin.X }
func (r Rect) MinY() float64 { return r.Origin.Y }
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Intersection returns the overlapping area of r and other.
// The result has a zero size when they don't overlap.
func (r Rect) Intersection(other Rect) Rect {
	x0 := max(r.MinX(), other.MinX())
	y0 := max(r.MinY(), other.MinY())
	x1 := min(r.MaxX(), other.MaxX())
	y1 := min(r.MaxY(), other.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{Origin: Point{X: x0, Y: y0}}
	}
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// VisibleFraction projects the overlap of frame and bounds on the scroll axis.
// A vertical list compares heights, a horizontal one widths. A frame with no
// extent on the axis is never visible.
func VisibleFraction(frame, bounds Rect, axis Axis) float64 {
	overlap := frame.Intersection(bounds)
	if axis == Horizontal {
		if frame.Size.Width <= 0 {
			return 0
		}
		return overlap.Size.Width / frame.Size.Width
	}
	if frame.Size.Height <= 0 {
		return 0
	}
	return overlap.Size.Height / frame.Size.Height
}

// Insets are edge insets applied around a section's content.
type Insets struct {
	Top    float64 `json:"top" yaml:"top" mapstructure:"top"`
	Left   float64 `json:"left" yaml:"left" mapstructure:"left"`
	Bottom float64 `json:"bottom" yaml:"bottom" mapstructure:"bottom"`
	Right  float64 `json:"right" yaml:"right" mapstructure:"right"`
}

// Style carries a section's layout parameters.
type Style struct {
	Insets           Insets  `json:"insets"`
	LineSpacing      float64 `json:"line_spacing"`
	InteritemSpacing float64 `json:"interitem_spacing"`
}

// Environment describes the container a section is laid out in.
type Environment struct {
	ContainerSize Size `json:"container_size"`
	Axis          Axis `json:"axis"`
}

// IndexPath addresses an item by section and item position.
type IndexPath struct {
	Section int `json:"section" mapstructure:"section"`
	Item    int `json:"item" mapstructure:"item"`
}

func (p IndexPath) String() string {
	return fmt.Sprintf("[%d, %d]", p.Section, p.Item)
}

// VisibleItem is one entry of a visibility pass reported by the surface.
type VisibleItem struct {
	Path  IndexPath `json:"path"`
	Frame Rect      `json:"frame"`
}
