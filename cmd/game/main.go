package main

import (
	"flag"
	"log"

	"github.com/Garsondee/trolley-sense/internal/game"
	"github.com/Garsondee/trolley-sense/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	tuningPath := flag.String("tuning", "", "YAML tuning file (defaults when empty)")
	seed := flag.Int64("seed", 0, "override the tuning seed (0 keeps it)")
	driver := flag.String("driver", "", "autopilot: keep, fewest or random (empty steers by keyboard)")
	flag.Parse()

	t := game.DefaultTuning()
	if *tuningPath != "" {
		var err error
		if t, err = game.LoadTuning(*tuningPath); err != nil {
			log.Fatal(err)
		}
	}
	if *seed != 0 {
		t.Seed = *seed
	}

	var d game.Driver
	if *driver != "" {
		if d = game.DriverByName(*driver, game.NewRand(t.Seed)); d == nil {
			log.Fatalf("unknown driver %q", *driver)
		}
	}

	ebiten.SetWindowTitle("Trolley Sense")
	ebiten.SetWindowSize(960, 720)
	if err := ebiten.RunGame(view.New(t, d)); err != nil {
		log.Fatal(err)
	}
}
