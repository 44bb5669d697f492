package view

import (
	"errors"
	"fmt"

	"github.com/Garsondee/trolley-sense/internal/game"
	"github.com/atotto/clipboard"
)

// clipboardIO is the system clipboard, swapped out in tests.
type clipboardIO interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }

// copySnapshot puts the live difficulty snapshot on the clipboard.
func (g *Game) copySnapshot() {
	blob, err := g.run.Difficulty.ExportSnapshot()
	if err == nil {
		err = g.clip.WriteAll(string(blob))
	}
	if err != nil {
		g.setStatus(fmt.Sprintf("copy failed: %v", err))
		return
	}
	g.setStatus("difficulty copied to clipboard")
}

// pasteSnapshot imports a snapshot from the clipboard. A rejected snapshot
// leaves the difficulty untouched.
func (g *Game) pasteSnapshot() {
	data, err := g.clip.ReadAll()
	if err != nil {
		g.setStatus(fmt.Sprintf("paste failed: %v", err))
		return
	}
	if err := g.run.Difficulty.ImportSnapshot([]byte(data)); err != nil {
		if errors.Is(err, game.ErrConfigParse) {
			g.setStatus("clipboard does not hold a difficulty snapshot")
			return
		}
		g.setStatus(fmt.Sprintf("paste failed: %v", err))
		return
	}
	g.setStatus("difficulty imported from clipboard")
}
