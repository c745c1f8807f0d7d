package main

import (
	"github.com/df07/go-pathtracer/web/server"
	"github.com/urfave/cli"
)

// Serve the render API.
func serve(ctx *cli.Context) error {
	setupLogging(ctx)

	port := ctx.Int("port")
	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", port)
	return server.NewServer(port, nil).Start()
}
