package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/client"
	"github.com/zucenko/lightsout/model"
)

type Options struct {
	model.Config
	LayoutsPath string
	Layout      string
	ServerURL   string
}

func parseOptions() Options {
	o := Options{}
	flag.IntVar(&o.Rows, "rows", 5, "rows of a random board")
	flag.IntVar(&o.Cols, "cols", 5, "cols of a random board")
	flag.Float64Var(&o.StartLitProbability, "chance", .25, "chance a light starts on")
	flag.Int64Var(&o.Seed, "seed", 0, "random seed, 0 uses the clock")
	flag.StringVar(&o.LayoutsPath, "layouts", "layouts.txt", "layouts file")
	flag.StringVar(&o.Layout, "layout", "", "play this layout instead of a random board")
	flag.StringVar(&o.ServerURL, "server", "", "play on a server, e.g. ws://localhost:8080/play")
	flag.Parse()
	return o
}

// Load reads the layouts file next to the binary.
func Load(path string) (model.Layouts, error) {
	file, err := ebitenutil.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return model.ReadLayouts(file)
}

// newTable starts a new game. Every call is a brand new board, there is
// no restarting a finished one.
func newTable(o Options) (Table, error) {
	switch {
	case o.ServerURL != "":
		remote, err := client.Dial(o.ServerURL)
		if err != nil {
			return nil, err
		}
		return remote, nil
	case o.Layout != "":
		layouts, err := Load(o.LayoutsPath)
		if err != nil {
			return nil, err
		}
		grid, found := layouts.Find(o.Layout)
		if !found {
			return nil, fmt.Errorf("layout %q not in %s, have %v", o.Layout, o.LayoutsPath, layouts.Names())
		}
		board, err := model.NewBoardFromGrid(grid)
		if err != nil {
			return nil, err
		}
		return board, nil
	default:
		board, err := model.NewBoard(o.Config)
		if errors.Is(err, model.ErrInvalidProbability) || errors.Is(err, model.ErrInvalidSize) {
			log.Errorf("check -rows, -cols and -chance: %v", err)
		}
		if err != nil {
			return nil, err
		}
		return board, nil
	}
}
