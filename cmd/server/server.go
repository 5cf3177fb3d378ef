package main

import (
	"net/http"
	"os"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/model"
	"github.com/zucenko/lightsout/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
	Settings   Settings
}

func newServer(settings Settings) (*Server, error) {
	var layouts model.Layouts
	if settings.Layouts != "" {
		var err error
		if layouts, err = server.Load(settings.Layouts); err != nil {
			return nil, err
		}
	}
	s := &Server{
		GameServer: server.NewGameServer(settings.Config, layouts),
		Settings:   settings,
	}
	s.routes()
	return s, nil
}

func main() {
	settings, err := loadSettings(os.Getenv)
	if err != nil {
		log.Fatalln(err)
	}
	log.SetLevel(settings.LogLevel)

	s, err := newServer(settings)
	if err != nil {
		log.Fatalln(err)
	}
	go s.GameServer.Loop()
	log.Infof("serving %dx%d boards on :%s", settings.Rows, settings.Cols, settings.Port)
	log.Fatalln(http.ListenAndServe(":"+settings.Port, s.router))
}
