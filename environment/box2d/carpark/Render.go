package carpark

import (
	"fmt"
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"

	"github.com/samuelfneumann/parkrl/environment/parking"
)

const (
	// Pixels per metre
	RenderScale float64 = 20.0

	// Margin around the lot walls, in pixels
	RenderMargin float64 = 20.0
)

var (
	asphaltColour = color.RGBA{R: 45, G: 45, B: 50, A: 255}
	wallColour    = color.RGBA{R: 255, G: 166, B: 0, A: 255}
	kerbColour    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	parkedColour  = color.RGBA{R: 77, G: 77, B: 128, A: 255}
	trafficColour = color.RGBA{R: 200, G: 70, B: 60, A: 255}
	targetColour  = color.RGBA{R: 80, G: 200, B: 120, A: 90}
	carColour     = color.RGBA{R: 128, G: 102, B: 230, A: 255}
	headingColour = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	startColour   = color.RGBA{R: 240, G: 240, B: 120, A: 255}
)

// Render draws the lot from above and saves it as a PNG image at path.
// World +z points up in the image.
func (c *CarPark) Render(path string) error {
	width := c.config.Lot.Width*RenderScale + 2*RenderMargin
	height := c.config.Lot.Depth*RenderScale + 2*RenderMargin
	dc := gg.NewContext(int(width), int(height))
	dc.SetColor(asphaltColour)
	dc.Clear()

	toPixel := func(v box2d.B2Vec2) (float64, float64) {
		x := (v.X-c.config.Lot.GoalX)*RenderScale + width/2
		y := height/2 - (v.Y-c.config.Lot.GoalZ)*RenderScale
		return x, y
	}

	// The target zone is translucent and lies below everything else
	drawBody(dc, c.lot.target, targetColour, toPixel)

	// Outline of the area episodes start in
	areaX, areaZ := c.agent.StartArea()
	left, top := toPixel(box2d.MakeB2Vec2(areaX.Min, areaZ.Max))
	right, bottom := toPixel(box2d.MakeB2Vec2(areaX.Max, areaZ.Min))
	dc.DrawRectangle(left, top, right-left, bottom-top)
	dc.SetColor(startColour)
	dc.SetLineWidth(1.0)
	dc.Stroke()
	for body := c.world.GetBodyList(); body != nil; body = body.GetNext() {
		if col, ok := c.bodyColour(body); ok {
			drawBody(dc, body, col, toPixel)
		}
	}

	// Heading of the driven car
	pos := c.car.body.GetPosition()
	forward := c.car.forward()
	tip := box2d.MakeB2Vec2(pos.X+forward.X*c.config.Vehicle.HalfLength,
		pos.Y+forward.Y*c.config.Vehicle.HalfLength)
	x1, y1 := toPixel(pos)
	x2, y2 := toPixel(tip)
	dc.DrawLine(x1, y1, x2, y2)
	dc.SetColor(headingColour)
	dc.SetLineWidth(3.0)
	dc.Stroke()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// bodyColour returns the colour to draw body in, or false if the body
// is not drawn
func (c *CarPark) bodyColour(body *box2d.B2Body) (color.Color, bool) {
	switch {
	case body == c.car.body:
		return carColour, true
	case body == c.lot.target:
		return nil, false
	}

	tag, _ := body.GetUserData().(parking.Tag)
	switch tag {
	case parking.Wall:
		return wallColour, true
	case parking.Kerb:
		return kerbColour, true
	case parking.Vehicle:
		if body.GetType() == 1 {
			return trafficColour, true
		}
		return parkedColour, true
	}
	return nil, false
}

// drawBody draws the edge and polygon fixtures of body
func drawBody(dc *gg.Context, body *box2d.B2Body, col color.Color,
	toPixel func(box2d.B2Vec2) (float64, float64)) {
	for fix := body.GetFixtureList(); fix != nil; fix = fix.M_next {
		dc.ClearPath()
		switch shape := fix.M_shape.(type) {
		case *box2d.B2EdgeShape:
			x1, y1 := toPixel(box2d.B2TransformVec2Mul(body.M_xf,
				shape.M_vertex1))
			x2, y2 := toPixel(box2d.B2TransformVec2Mul(body.M_xf,
				shape.M_vertex2))
			dc.DrawLine(x1, y1, x2, y2)
			dc.SetColor(col)
			dc.SetLineWidth(5.0)
			dc.Stroke()

		case *box2d.B2PolygonShape:
			for i := 0; i < shape.M_count; i++ {
				x, y := toPixel(box2d.B2TransformVec2Mul(body.M_xf,
					shape.M_vertices[i]))
				dc.LineTo(x, y)
			}
			dc.ClosePath()
			dc.SetColor(col)
			dc.Fill()
		}
	}
}
