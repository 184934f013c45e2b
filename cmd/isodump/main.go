// Command isodump extracts one frame of the iso-surface on the CPU and writes it as a
// Wavefront OBJ file, one object per chunk. It needs no GPU or display. With -config-out
// the effective configuration is written alongside, so the dump can be reproduced.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Carmen-Shannon/isoflow/engine/chunk"
	"github.com/Carmen-Shannon/isoflow/engine/config"
)

func main() {
	configPath := flag.String("config", "", "configuration file (.toml, .yaml or .yml)")
	at := flag.Float64("time", 0, "animation time in seconds")
	out := flag.String("out", "-", "output OBJ file, - for stdout")
	configOut := flag.String("config-out", "", "write the effective configuration here (.toml, .yaml or .yml)")
	flag.Parse()

	if err := run(*configPath, float32(*at), *out, *configOut); err != nil {
		log.Fatalf("[Dump] %v", err)
	}
}

func run(configPath string, at float32, out, configOut string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if configOut != "" {
		if err := writeConfig(cfg, configOut); err != nil {
			return err
		}
	}

	layout, err := chunk.LayoutFromConfig(cfg.Surface)
	if err != nil {
		return err
	}
	settings, err := chunk.SettingsFromConfig(cfg.Surface)
	if err != nil {
		return err
	}

	backend := chunk.NewCPUBackend(layout, settings, chunk.WithWorkers(cfg.Engine.Workers))
	defer backend.Close()

	stats, err := chunk.NewOrchestrator(layout, backend).RunFrame(at)
	if err != nil {
		return err
	}
	lo, hi := layout.Bounds(settings.VoxelSize)
	log.Printf("[Dump] t=%g: %d chunks over %v to %v, %d vertices in %s",
		at, stats.Chunks, lo, hi, stats.Vertices, stats.Duration)

	if out == "-" {
		return backend.Frame().WriteOBJ(os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := backend.Frame().WriteOBJ(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeConfig(cfg *config.Config, path string) error {
	format, err := config.FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := config.Encode(cfg, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
