package server

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/model"
)

// Load reads the layouts file served under /play/:layout.
func Load(path string) (model.Layouts, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	layouts, err := model.ReadLayouts(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log.Infof("loaded %d layouts from %s", len(layouts), path)
	return layouts, nil
}
