package client

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On phase, modal or notice transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	s := c.state
	if c.snap.Phase != s.prevPhase || s.OptionsOpen != s.prevOptions ||
		s.isInactive != s.wasInactive || s.shuttingDown != s.wasShutdown {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		s.prevPhase = c.snap.Phase
		s.prevOptions = s.OptionsOpen
		s.wasInactive = s.isInactive
		s.wasShutdown = s.shuttingDown
	}

	c.canvas.Clear()
	c.drawField()

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawField draws the playfield from the snapshot, honoring the effect
// settings.
func (c *Client) drawField() {
	snap := &c.snap
	ctx := object.DrawContext{Canvas: c.canvas, Elapsed: snap.Elapsed}

	// Stars stay put while the camera shakes.
	c.canvas.SetShift(0, 0)
	for i := range snap.Stars {
		snap.Stars[i].Draw(ctx)
	}

	if c.state.Settings.Shake && snap.Shake > 0 {
		c.canvas.SetShift((c.shake.Float64()*2-1)*snap.Shake, (c.shake.Float64()*2-1)*snap.Shake)
	}
	defer c.canvas.SetShift(0, 0)

	for i := range snap.PowerUps {
		snap.PowerUps[i].Draw(ctx)
	}
	for i := range snap.Obstacles {
		snap.Obstacles[i].Draw(ctx)
	}
	if c.state.Settings.Particles {
		for i := range snap.Particles {
			snap.Particles[i].Draw(ctx)
		}
	}
	snap.Player.Draw(ctx)
	if snap.Shield > 0 {
		snap.Player.DrawShield(ctx)
	}
}

// drawUI draws the HUD and whichever overlay applies.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.shuttingDown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	c.drawHUD(termWidth, termHeight)
	if c.state.toast != "" {
		c.writeCentered(centerX, termHeight*24/100+1, c.state.toast)
	}

	if c.state.OptionsOpen {
		c.drawOptions(centerX, centerY)
		return
	}

	switch c.snap.Phase {
	case session.PhaseIdle:
		c.drawOverlay(centerX, centerY, "Dodge the Blocks",
			"Space to start", "Arrows or A / D to move", "P pause  R reset  O options  Q quit")
	case session.PhaseStarting:
		c.drawOverlay(centerX, centerY, fmt.Sprintf("%d", c.snap.Countdown))
	case session.PhasePaused:
		c.drawOverlay(centerX, centerY, "Paused", "Press P to resume")
	case session.PhaseGameOver:
		c.drawOverlay(centerX, centerY, "Game Over",
			fmt.Sprintf("Score %d • Best %d", int(c.snap.Score), c.snap.Best),
			"Space to play again")
	}
}

// writeCentered writes s centered on col and marks the cells for repaint.
func (c *Client) writeCentered(centerX, row int, s string) {
	c.writeStyledCentered(centerX, row, "", s)
}

func (c *Client) writeStyledCentered(centerX, row int, style, s string) {
	n := utf8.RuneCountInString(s)
	col := centerX - n/2
	if col < 1 {
		col = 1
	}
	if style == "" {
		c.chunkWriter.WriteAt(col, row, s)
	} else {
		c.chunkWriter.WriteStyledAt(col, row, style, s)
	}
	c.canvas.MarkTextDirty(col, row, n)
}

// drawHUD draws score, best, multiplier and active power-ups on the top row.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(termWidth, termHeight int) {
	cw := c.chunkWriter
	snap := &c.snap

	left := fmt.Sprintf("Score %-7d Best %-7d", int(snap.Score), snap.Best)
	cw.WriteAt(2, 1, left)
	c.canvas.MarkTextDirty(2, 1, len(left))

	col := 2 + len(left)
	mult := fmt.Sprintf("%.2fx", snap.Multiplier)
	style := draw.ColorBold
	if c.state.Settings.HighContrastHUD && snap.Multiplier > 1 {
		style = draw.ColorBrightGreen
	}
	cw.WriteStyledAt(col, 1, style, mult)
	c.canvas.MarkTextDirty(col, 1, len(mult))

	status := ""
	if snap.Shield > 0 {
		status += " SHIELD"
	}
	if snap.Slow > 0 {
		status += " SLOW"
	}
	if status != "" && termWidth > len(status)+1 {
		cw.WriteStyledAt(termWidth-len(status), 1, draw.ColorYellow, status)
		c.canvas.MarkTextDirty(termWidth-len(status), 1, len(status))
	}

	if c.state.Settings.TouchControls {
		c.drawPads(termWidth, termHeight)
	}
}

// drawPads shows the movement key hints along the bottom edge, swapped when
// the mirrored layout is selected.
func (c *Client) drawPads(termWidth, termHeight int) {
	left, right := "[ < A ]", "[ D > ]"
	if c.state.Settings.MirroredControls {
		left, right = right, left
	}
	c.chunkWriter.WriteStyledAt(2, termHeight, draw.ColorInverse, left)
	c.canvas.MarkTextDirty(2, termHeight, len(left))
	col := termWidth - len(right)
	c.chunkWriter.WriteStyledAt(col, termHeight, draw.ColorInverse, right)
	c.canvas.MarkTextDirty(col, termHeight, len(right))
}

// drawOverlay draws a title with optional lines below it.
func (c *Client) drawOverlay(centerX, centerY int, title string, lines ...string) {
	top := centerY - 1 - len(lines)/2
	c.writeStyledCentered(centerX, top, draw.ColorBold, title)
	for i, line := range lines {
		c.writeCentered(centerX, top+2+i, line)
	}
}

// drawOptions draws the settings modal with the pending values.
func (c *Client) drawOptions(centerX, centerY int) {
	values := c.state.pending.Values()
	top := centerY - len(values)/2 - 2
	c.writeStyledCentered(centerX, top, draw.ColorBold, "Options")
	for i, label := range store.SettingLabels {
		mark := " "
		if values[i] {
			mark = "x"
		}
		c.writeCentered(centerX, top+2+i, fmt.Sprintf("%d [%s] %-18s", i+1, mark, label))
	}
	c.writeStyledCentered(centerX, top+3+len(values), draw.ColorDim, "1-6 toggle  Enter save  Esc cancel")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeStyledCentered(centerX, centerY-2, draw.ColorBold, "INACTIVITY WARNING")
	msg := fmt.Sprintf("You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()))
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeStyledCentered(centerX, centerY-3, draw.ColorBold, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
