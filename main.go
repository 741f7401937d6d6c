package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

func main() {
	var (
		host     string
		username string
		debug    bool
		mute     bool
		volume   float64
	)
	flag.StringVar(&host, "host", "localhost:8080", "server host:port or full ws:// URL")
	flag.StringVar(&username, "name", "", "display name to join with")
	flag.BoolVar(&debug, "debug", false, "verbose logging and the on-screen debug line")
	flag.BoolVar(&mute, "mute", false, "disable all sound")
	flag.Float64Var(&volume, "volume", 1.0, "master volume (0..1)")
	flag.Parse()

	setupLogging(debug)
	defer syncLogging()

	if username == "" {
		username = os.Getenv("USER")
		if username == "" {
			username = "wanderer"
		}
	}

	gs := gsdef
	gs.Mute = mute
	gs.ShowDebug = debug
	if volume >= 0 && volume <= 1 {
		gs.MasterVolume = volume
	}

	steps := newFootsteps(audio.NewContext(sampleRate), &gs)
	c := newClient(&gs, steps)
	c.username = username

	conn, err := dialServer(host, c.events)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	defer conn.close()
	c.out = conn
	c.connected = true
	c.send(newJoinMsg(username))

	if err := runGame(c); err != nil {
		logError("game loop: %v", err)
		os.Exit(1)
	}
}
