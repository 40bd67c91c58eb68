package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/fosdem/trimix/lib/config"
	trimixlog "github.com/fosdem/trimix/lib/log"
	"github.com/fosdem/trimix/lib/snapshot"
)

func main() {
	outPtr := flag.String("out", "snapshot.png", "PNG file to write")
	widthPtr := flag.Uint("width", 0, "Scale the snapshot to this width")
	heightPtr := flag.Uint("height", 0, "Scale the snapshot to this height")
	flag.Parse()

	cfg := config.Default()
	if flag.NArg() > 0 {
		var err error
		cfg, err = config.Parse(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
	}
	level, _ := cfg.Level()
	trimixlog.Setup(level)

	f, err := os.Create(*outPtr)
	if err != nil {
		log.Fatalf("could not create %s: %s", *outPtr, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Printf("could not close %s: %s", *outPtr, err)
		}
	}(f)

	err = snapshot.WritePNG(f, cfg, int(*widthPtr), int(*heightPtr))
	if err != nil {
		log.Fatalf("could not render snapshot: %s", err)
	}
	slog.Info("wrote "+*outPtr, slog.String("module", "snapshot"))
}
