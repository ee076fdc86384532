package client

import (
	"fmt"
	"time"

	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/game"
	"github.com/tomz197/balloonpop/internal/loop/config"
)

// Figlet "small" font banners.
var (
	titleArt = []string{
		`  ___   _   _    _    ___   ___  _  _   ___  ___  ___  `,
		` | _ ) /_\ | |  | |  / _ \ / _ \| \| | | _ \/ _ \| _ \ `,
		` | _ \/ _ \| |__| |_| (_) | (_) | .' | |  _/ (_) |  _/ `,
		` |___/_/ \_\____|____\___/ \___/|_|\_| |_|  \___/|_|   `,
	}
	winArt = []string{
		` __   _____  _   _  __      _____ _  _ _ `,
		` \ \ / / _ \| | | | \ \    / /_ _| \| | |`,
		`  \ V / (_) | |_| |  \ \/\/ / | || .' |_|`,
		`   |_| \___/ \___/    \_/\_/ |___|_|\_(_)`,
	}
	loseArt = []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
)

var controls = []string{
	"A D / < >  . . . . Move",
	"SPACE / W  . . . . Jump",
	"F / X  . . . . .  Shoot",
	"ESC  . . . . . .  Leave",
	"Q  . . . . . . . . Quit",
}

// drawFrame renders the scene, then the text layer, and flushes the frame.
func (c *Client) drawFrame() error {
	// A new screen starts from a blank terminal
	if c.state.GameState != c.state.prevGameState || c.state.isInactive != c.state.wasInactive {
		draw.ClearScreen(c.out)
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.session != nil && c.state.GameState == GameStatePlaying {
		if err := c.session.Draw(c.canvas); err != nil {
			return err
		}
	}
	c.canvas.Render(c.out)
	c.canvas.RenderBorder(c.out)

	c.drawText()
	return c.out.Flush()
}

// drawText draws the text layer for the current screen.
func (c *Client) drawText() {
	mid := c.canvas.TerminalHeight() / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(mid)
	case c.state.isInactive:
		c.drawInactivityScreen(mid)
	case c.state.GameState == GameStatePlaying:
		c.drawPlayingHUD()
	default:
		c.drawStartScreen(mid)
	}

	if c.state.noticeTimer > 0 && c.state.notice != "" {
		c.centerStyled(c.canvas.TerminalHeight()-1, draw.ColorYellow, c.state.notice)
	}
}

// put writes s at the 1-based canvas position (col, row) and marks the cells
// under it so the canvas repaints them once the text is gone.
func (c *Client) put(col, row int, s string) {
	c.putStyled(col, row, "", s)
}

func (c *Client) putStyled(col, row int, style, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() || col < 1 {
		return
	}
	if style == "" {
		c.out.WriteAt(col, row, s)
	} else {
		c.out.WriteStyled(col, row, style, s)
	}
	c.canvas.MarkTextDirty(col, row, len(s))
}

func (c *Client) center(row int, s string) {
	c.centerStyled(row, "", s)
}

func (c *Client) centerStyled(row int, style, s string) {
	c.putStyled(c.canvas.TerminalWidth()/2-len(s)/2, row, style, s)
}

// banner centers a block of lines as one unit starting at row top and
// returns the row below it.
func (c *Client) banner(top int, style string, lines []string) int {
	width := 0
	for _, line := range lines {
		width = max(width, len(line))
	}
	col := c.canvas.TerminalWidth()/2 - width/2
	for i, line := range lines {
		c.putStyled(col, top+i, style, line)
	}
	return top + len(lines)
}

func (c *Client) drawInactivityScreen(mid int) {
	c.center(mid-2, "INACTIVITY WARNING")
	c.center(mid, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		c.idle.remaining(time.Now()),
	))
	c.center(mid+2, "Press any key to continue")
}

func (c *Client) drawStartScreen(mid int) {
	row := c.banner(mid-10, draw.ColorBold, titleArt) + 2
	c.center(row, "~ Pop the balloons before they get away ~")
	row += 2

	c.center(row, "Controls")
	row = c.banner(row+1, "", controls) + 1

	if c.state.hasLastResult {
		verdict := "Game over"
		if c.state.lastResult.outcome == game.OutcomeWon {
			verdict = "You won"
		}
		c.center(row, fmt.Sprintf("Last round: %s, %d points", verdict, c.state.lastResult.score))
		row += 2
	}

	// Prompt blinks at 600 ms
	if time.Now().UnixMilli()/600%2 == 0 {
		c.center(row, ">>  Press SPACE to Start  <<")
	}
	c.drawLeaderboard(row + 2)
}

// drawLeaderboard lists the best scores of every connection, own name highlighted.
func (c *Client) drawLeaderboard(row int) {
	entries := c.server.TopScores(config.LeaderboardSize)
	if len(entries) == 0 {
		return
	}

	c.center(row, "Top Scores")
	for i, e := range entries {
		line := fmt.Sprintf("%d. %-*s %8d", i+1, config.MaxUsernameLength, e.Username, e.Score)
		style := ""
		if e.Username == c.handle.Username {
			style = draw.ColorBrightCyan
		}
		c.centerStyled(row+1+i, style, line)
	}
}

// drawPlayingHUD shows score and progress along the top row and the round
// and player count along the bottom row.
func (c *Client) drawPlayingHUD() {
	if c.session == nil {
		return
	}
	d := c.session.Director()
	width, height := c.canvas.TerminalWidth(), c.canvas.TerminalHeight()

	c.put(2, 1, fmt.Sprintf("Score: %-8d", d.Score()))
	c.center(1, fmt.Sprintf("Balloons: %3d/%-3d", d.BalloonsPopped(), d.Target()))
	lives := fmt.Sprintf("Lives: %-3d", d.Lives())
	c.put(width-len(lives)-1, 1, lives)

	c.put(2, height, fmt.Sprintf("Round: %-4d", c.session.Round()))
	players := fmt.Sprintf("Players: %-4d", c.server.PlayerCount())
	c.put(width-len(players)-1, height, players)

	if d.Outcome() != game.OutcomePlaying {
		c.drawRoundBanner(height/2, d)
	}
}

// drawRoundBanner shows the round result and the countdown to the next round.
func (c *Client) drawRoundBanner(mid int, d *game.Director) {
	art, style := loseArt, draw.ColorBold+draw.ColorRed
	if d.Outcome() == game.OutcomeWon {
		art, style = winArt, draw.ColorBold+draw.ColorGreen
	}

	row := c.banner(mid-4, style, art) + 1
	c.center(row, fmt.Sprintf("Score: %d", d.Score()))
	c.center(row+2, fmt.Sprintf("Next round in %.1f seconds...", d.RestartIn()))
}

func (c *Client) drawShutdownScreen(mid int) {
	c.center(mid-3, "SERVER SHUTTING DOWN")
	c.center(mid-1, "The server is restarting for maintenance.")
	c.center(mid, "Please reconnect in a moment.")
	c.center(mid+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1))
	c.center(mid+4, "Press Q to disconnect now")
}
