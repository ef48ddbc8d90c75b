package main

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/geomodels/internal/config"
	"github.com/woozymasta/geomodels/internal/logger"
	"github.com/woozymasta/geomodels/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string  `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to a YAML or TOML configuration file"`
	Input       string  `short:"i" long:"in"           description:"Input GeoJSON (JSON or YAML). Reads from stdin if empty"`
	Output      string  `short:"o" long:"out"          description:"Output file path. Writes to stdout if empty"`
	Format      string  `short:"f" long:"format"       description:"Output format" choice:"json" choice:"yaml"`
	ReferenceID *int    `short:"r" long:"reference-id" env:"REFERENCE_ID" description:"Spatial reference id attached to decoded geometries"`
	Promote     string  `short:"p" long:"promote"      description:"Promote geometries to this kind" choice:"Point" choice:"MultiPoint" choice:"Polygon" choice:"MultiPolygon"`
	Flatten     bool    `long:"flatten"                description:"Keep only the first element of each composite geometry"`
	ShiftX      float64 `long:"shift-x"                description:"Add to the x coordinate of every point"`
	ShiftY      float64 `long:"shift-y"                description:"Add to the y coordinate of every point"`
	Minify      bool    `short:"m" long:"minify"       description:"Minify JSON output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	req := request(opts, cfg)

	inputData, err := readInput(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	res, err := processor.Process(inputData, req)
	if err != nil {
		log.Fatal().Err(err).Str("input", opts.Input).Msg("Failed to convert")
	}

	if opts.Output == "" {
		fmt.Println(string(res.Output))
		return
	}

	if err := processor.WriteFile(opts.Output, res.Output); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output")
	}

	log.Info().
		Str("type", res.Type).
		Int("features", res.Features).
		Int("size", res.Size).
		Str("format", req.Format).
		Str("out", opts.Output).
		Msg("Converted")
}

// request merges command line options over the configuration.
func request(opts Options, cfg *config.Config) processor.Request {
	req := processor.Request{
		ReferenceID: cfg.ReferenceID,
		Format:      cfg.Format,
		Minify:      cfg.Minify || opts.Minify,
		Options: processor.Options{
			Flatten: opts.Flatten,
			Promote: opts.Promote,
			ShiftX:  opts.ShiftX,
			ShiftY:  opts.ShiftY,
		},
	}
	if opts.ReferenceID != nil {
		req.ReferenceID = *opts.ReferenceID
	}
	if opts.Format != "" {
		req.Format = opts.Format
	}
	return req
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}
