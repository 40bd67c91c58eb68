package main

import (
	"log"
	"os"
	"runtime"

	"github.com/fosdem/trimix/lib/app"
	"github.com/fosdem/trimix/lib/config"
	trimixlog "github.com/fosdem/trimix/lib/log"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

//	@title			trimix API
//	@version		1.0
//	@description	Control and status API of the trimix renderer.
//	@BasePath		/

func main() {
	if len(os.Args) > 2 {
		log.Fatalf("Usage: %s [config file]", os.Args[0])
	}

	cfg := config.Default()
	if len(os.Args) == 2 {
		var err error
		cfg, err = config.Parse(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
	}

	level, _ := cfg.Level()
	trimixlog.Setup(level)

	err := app.MakeWindowAndRender(cfg)
	if err != nil {
		log.Fatal(err)
	}
}
