package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gridWidth  = 26
	gridHeight = 13
)

// cell kinds on the portrait canvas
const (
	cellDot = iota
	cellInk
	cellBlank
)

type canvas [gridHeight][gridWidth]struct {
	r    rune
	kind int
}

func (c *canvas) set(row, col int, r rune) {
	if row < 0 || row >= gridHeight || col < 0 || col >= gridWidth {
		return
	}
	c[row][col].r = r
	c[row][col].kind = cellInk
}

func (c *canvas) clear(row, col int) {
	c[row][col].r = ' '
	c[row][col].kind = cellBlank
}

// renderPortrait draws the dot-matrix face. talking opens the mouth.
func renderPortrait(talking bool, fx crtFrame) string {
	var c canvas
	for row := range c {
		for col := range c[row] {
			c[row][col].r = '·'
		}
	}

	// head outline, hollow inside
	top, bottom, left, right := 1, 11, 5, 20
	for row := top + 1; row < bottom; row++ {
		for col := left + 1; col < right; col++ {
			c.clear(row, col)
		}
	}
	for col := left + 1; col < right; col++ {
		c.set(top, col, '▀')
		c.set(bottom, col, '▄')
	}
	for row := top; row <= bottom; row++ {
		c.set(row, left, '█')
		c.set(row, right, '█')
	}

	// eyes
	c.set(5, 9, '■')
	c.set(5, 16, '■')

	// mouth
	if talking {
		for col := 10; col <= 15; col++ {
			c.set(8, col, '█')
			c.set(9, col, '▀')
		}
	} else {
		for col := 10; col <= 15; col++ {
			c.set(8, col, '▁')
		}
	}

	var b strings.Builder
	for row := range c {
		dots, ink := dotStyle, inkStyle
		if fx.scanlines && (row+fx.offset)%2 == 1 {
			dots = scanlineStyle
		}
		if fx.flicker {
			ink = flickerStyle
		}
		for col := range c[row] {
			cell := c[row][col]
			switch cell.kind {
			case cellInk:
				b.WriteString(ink.Render(string(cell.r)))
			case cellBlank:
				b.WriteRune(' ')
			default:
				b.WriteString(dots.Render(string(cell.r)))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(lipgloss.PlaceHorizontal(gridWidth, lipgloss.Center, inkStyle.Render("SPECTRA")))
	return b.String()
}
